package cpu

import "testing"

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name     string
		bytes    []uint8
		want     string
		wantSize uint8
	}{
		{"implied", []uint8{0xEA}, "NOP", 1},
		{"accumulator", []uint8{0x0A}, "ASL A", 1},
		{"immediate", []uint8{0xA9, 0x05}, "LDA #$05", 2},
		{"zero page", []uint8{0xA5, 0x10}, "LDA $10", 2},
		{"zero page X", []uint8{0xB5, 0x10}, "LDA $10,X", 2},
		{"zero page Y", []uint8{0xB6, 0x10}, "LDX $10,Y", 2},
		{"absolute", []uint8{0xAD, 0x34, 0x12}, "LDA $1234", 3},
		{"absolute X", []uint8{0xBD, 0x34, 0x12}, "LDA $1234,X", 3},
		{"absolute Y", []uint8{0xB9, 0x34, 0x12}, "LDA $1234,Y", 3},
		{"indirect", []uint8{0x6C, 0x34, 0x12}, "JMP ($1234)", 3},
		{"indexed indirect", []uint8{0xA1, 0x10}, "LDA ($10,X)", 2},
		{"indirect indexed", []uint8{0xB1, 0x10}, "LDA ($10),Y", 2},
		{"branch forward", []uint8{0xD0, 0x05}, "BNE $8007", 2},
		{"branch backward", []uint8{0xD0, 0xFB}, "BNE $7FFD", 2},
		{"stable undocumented", []uint8{0xA7, 0x10}, "LAX $10", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMockMemory()
			mem.SetBytes(0x8000, tt.bytes...)

			text, size := Disassemble(mem, 0x8000)

			if text != tt.want {
				t.Errorf("Disassemble = %q, want %q", text, tt.want)
			}
			if size != tt.wantSize {
				t.Errorf("size = %d, want %d", size, tt.wantSize)
			}
		})
	}
}

func TestDisassembleDoesNotTouchState(t *testing.T) {
	c, mem := loadProgram(0x8000, 0xA9, 0x05)
	pc := c.PC()

	Disassemble(mem, c.PC())

	if c.PC() != pc {
		t.Errorf("PC moved from 0x%04X to 0x%04X", pc, c.PC())
	}
}
