package cpu

import "testing"

func TestDecodeFields(t *testing.T) {
	// ADDIU r9, r8, -1  => op=0x09 rs=8 rt=9 imm=0xFFFF
	word := uint32(0b001001_01000_01001_1111111111111111)
	i := decode(word)

	if i.op != 0b001001 {
		t.Errorf("op = %#b, want 0b001001", i.op)
	}
	if i.rs != 8 {
		t.Errorf("rs = %d, want 8", i.rs)
	}
	if i.rt != 9 {
		t.Errorf("rt = %d, want 9", i.rt)
	}
	if i.imm != 0xFFFF {
		t.Errorf("imm = %#x, want 0xFFFF", i.imm)
	}
	if i.immSE != 0xFFFFFFFF {
		t.Errorf("immSE = %#x, want 0xFFFFFFFF (sign-extended -1)", i.immSE)
	}
}

func TestDecodeRFields(t *testing.T) {
	// ADD rd=3, rs=1, rt=2 shamt=0 funct=0x20
	word := uint32(0)
	word |= 1 << 21 // rs
	word |= 2 << 16 // rt
	word |= 3 << 11 // rd
	word |= 0b100000

	i := decode(word)
	if i.rs != 1 || i.rt != 2 || i.rd != 3 || i.funct != 0b100000 {
		t.Errorf("decode() = %+v, want rs=1 rt=2 rd=3 funct=0x20", i)
	}
}

func TestDecodeJTarget(t *testing.T) {
	word := uint32(0b000010<<26) | 0x03FFFFFF
	i := decode(word)
	if i.target != 0x03FFFFFF {
		t.Errorf("target = %#x, want 0x03FFFFFF", i.target)
	}
}

func TestSignExtend16(t *testing.T) {
	if got := signExtend16(0xFFFF); got != 0xFFFFFFFF {
		t.Errorf("signExtend16(0xFFFF) = %#x, want 0xFFFFFFFF", got)
	}
	if got := signExtend16(0x7FFF); got != 0x00007FFF {
		t.Errorf("signExtend16(0x7FFF) = %#x, want 0x7FFF", got)
	}
}
