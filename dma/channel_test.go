package dma

import "testing"

func TestChannelControlRoundTrip(t *testing.T) {
	var ch Channel
	ch.WriteControl(0x01000201)

	if !ch.Enable {
		t.Errorf("expected Enable set")
	}
	if ch.Direction != FromRam {
		t.Errorf("expected Direction=FromRam, got %v", ch.Direction)
	}
	if ch.Sync != SyncRequest {
		t.Errorf("expected Sync=SyncRequest, got %v", ch.Sync)
	}

	if got, want := ch.ReadControl(), uint32(0x01000201); got != want {
		t.Errorf("ReadControl() = %#x, want %#x", got, want)
	}
}

func TestChannelActive(t *testing.T) {
	var ch Channel
	ch.Enable = true
	ch.Sync = SyncManual
	ch.Trigger = false
	if ch.Active() {
		t.Errorf("Manual channel without Trigger should not be Active")
	}
	ch.Trigger = true
	if !ch.Active() {
		t.Errorf("Manual channel with Trigger should be Active")
	}

	ch.Sync = SyncRequest
	ch.Trigger = false
	if !ch.Active() {
		t.Errorf("Request channel should be Active once Enabled regardless of Trigger")
	}
}

func TestChannelDone(t *testing.T) {
	ch := Channel{Enable: true, Trigger: true}
	ch.Done()
	if ch.Enable || ch.Trigger {
		t.Errorf("Done() should clear Enable and Trigger, got Enable=%v Trigger=%v", ch.Enable, ch.Trigger)
	}
}

func TestChannelBaseMasking(t *testing.T) {
	var ch Channel
	ch.WriteBase(0xFFFFFFFF)
	if got := ch.ReadBase(); got != 0x00FFFFFF {
		t.Errorf("ReadBase() = %#x, want %#x", got, 0x00FFFFFF)
	}
}

func TestChannelBlockControl(t *testing.T) {
	var ch Channel
	ch.WriteBlockControl(0x00020010)
	if ch.BlockSize != 0x10 {
		t.Errorf("BlockSize = %#x, want 0x10", ch.BlockSize)
	}
	if ch.BlockCount != 0x2 {
		t.Errorf("BlockCount = %#x, want 0x2", ch.BlockCount)
	}
	if got := ch.ReadBlockControl(); got != 0x00020010 {
		t.Errorf("ReadBlockControl() = %#x, want 0x00020010", got)
	}
}

func TestTransferSizeManualZeroIsMax(t *testing.T) {
	ch := Channel{Sync: SyncManual, BlockSize: 0}
	size, ok := ch.TransferSize()
	if !ok || size != 0x10000 {
		t.Errorf("TransferSize() = (%d, %v), want (0x10000, true)", size, ok)
	}
}

func TestTransferSizeRequestMultiplies(t *testing.T) {
	ch := Channel{Sync: SyncRequest, BlockSize: 4, BlockCount: 3}
	size, ok := ch.TransferSize()
	if !ok || size != 12 {
		t.Errorf("TransferSize() = (%d, %v), want (12, true)", size, ok)
	}
}

func TestTransferSizeLinkedListUnknown(t *testing.T) {
	ch := Channel{Sync: SyncLinkedList}
	_, ok := ch.TransferSize()
	if ok {
		t.Errorf("TransferSize() ok=true for SyncLinkedList, want false")
	}
}

func TestAddressStep(t *testing.T) {
	ch := Channel{Step: Increment}
	if ch.AddressStep() != 4 {
		t.Errorf("Increment step = %d, want 4", ch.AddressStep())
	}
	ch.Step = Decrement
	if ch.AddressStep() != -4 {
		t.Errorf("Decrement step = %d, want -4", ch.AddressStep())
	}
}

func TestPortString(t *testing.T) {
	if PortGpu.String() != "GPU" {
		t.Errorf("PortGpu.String() = %q, want GPU", PortGpu.String())
	}
	if Port(100).String() != "?" {
		t.Errorf("out-of-range Port.String() = %q, want ?", Port(100).String())
	}
}
