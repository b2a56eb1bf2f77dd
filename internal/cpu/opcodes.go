package cpu

// AddressingMode selects the rule for computing an instruction's effective
// operand location.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

func (m AddressingMode) String() string {
	switch m {
	case Implied:
		return "Implied"
	case Accumulator:
		return "Accumulator"
	case Immediate:
		return "Immediate"
	case ZeroPage:
		return "ZeroPage"
	case ZeroPageX:
		return "ZeroPageX"
	case ZeroPageY:
		return "ZeroPageY"
	case Relative:
		return "Relative"
	case Absolute:
		return "Absolute"
	case AbsoluteX:
		return "AbsoluteX"
	case AbsoluteY:
		return "AbsoluteY"
	case Indirect:
		return "Indirect"
	case IndexedIndirect:
		return "IndexedIndirect"
	case IndirectIndexed:
		return "IndirectIndexed"
	}
	return "Unknown"
}

// Instruction describes one opcode byte: its mnemonic, addressing mode, byte
// length and nominal cycle cost before page-cross adjustment.
type Instruction struct {
	Name   string
	Mode   AddressingMode
	Size   uint8
	Cycles uint8
	// PageCycle marks read instructions that cost one extra cycle when
	// indexing crosses a page boundary. Store and read-modify-write rows
	// already carry the penalty in Cycles.
	PageCycle bool
	// Undocumented marks opcodes outside the official set that still have
	// stable, well-known behavior.
	Undocumented bool
	// Unstable marks opcodes with no reliable effect on real silicon.
	// Fetching one is a fatal decode failure.
	Unstable bool
}

type opFlags uint8

const (
	pg opFlags = 1 << iota // page-cross cycle penalty
	ud                     // stable undocumented opcode
	un                     // unstable, fatal to decode
)

func entry(name string, mode AddressingMode, size, cycles uint8, flags opFlags) Instruction {
	return Instruction{
		Name:         name,
		Mode:         mode,
		Size:         size,
		Cycles:       cycles,
		PageCycle:    flags&pg != 0,
		Undocumented: flags&(ud|un) != 0,
		Unstable:     flags&un != 0,
	}
}

// opcodes maps every opcode byte to its decode entry. Built once at process
// start; the processor consults it at each fetch.
var opcodes = buildOpcodeTable()

func buildOpcodeTable() [256]Instruction {
	var t [256]Instruction

	// --- System ---
	t[0x00] = entry("BRK", Implied, 1, 7, 0)
	t[0xEA] = entry("NOP", Implied, 1, 2, 0)
	t[0x40] = entry("RTI", Implied, 1, 6, 0)

	// --- Jumps and subroutines ---
	t[0x4C] = entry("JMP", Absolute, 3, 3, 0)
	t[0x6C] = entry("JMP", Indirect, 3, 5, 0)
	t[0x20] = entry("JSR", Absolute, 3, 6, 0)
	t[0x60] = entry("RTS", Implied, 1, 6, 0)

	// --- Loads ---
	t[0xA9] = entry("LDA", Immediate, 2, 2, 0)
	t[0xA5] = entry("LDA", ZeroPage, 2, 3, 0)
	t[0xB5] = entry("LDA", ZeroPageX, 2, 4, 0)
	t[0xAD] = entry("LDA", Absolute, 3, 4, 0)
	t[0xBD] = entry("LDA", AbsoluteX, 3, 4, pg)
	t[0xB9] = entry("LDA", AbsoluteY, 3, 4, pg)
	t[0xA1] = entry("LDA", IndexedIndirect, 2, 6, 0)
	t[0xB1] = entry("LDA", IndirectIndexed, 2, 5, pg)
	t[0xA2] = entry("LDX", Immediate, 2, 2, 0)
	t[0xA6] = entry("LDX", ZeroPage, 2, 3, 0)
	t[0xB6] = entry("LDX", ZeroPageY, 2, 4, 0)
	t[0xAE] = entry("LDX", Absolute, 3, 4, 0)
	t[0xBE] = entry("LDX", AbsoluteY, 3, 4, pg)
	t[0xA0] = entry("LDY", Immediate, 2, 2, 0)
	t[0xA4] = entry("LDY", ZeroPage, 2, 3, 0)
	t[0xB4] = entry("LDY", ZeroPageX, 2, 4, 0)
	t[0xAC] = entry("LDY", Absolute, 3, 4, 0)
	t[0xBC] = entry("LDY", AbsoluteX, 3, 4, pg)

	// --- Stores ---
	t[0x85] = entry("STA", ZeroPage, 2, 3, 0)
	t[0x95] = entry("STA", ZeroPageX, 2, 4, 0)
	t[0x8D] = entry("STA", Absolute, 3, 4, 0)
	t[0x9D] = entry("STA", AbsoluteX, 3, 5, 0)
	t[0x99] = entry("STA", AbsoluteY, 3, 5, 0)
	t[0x81] = entry("STA", IndexedIndirect, 2, 6, 0)
	t[0x91] = entry("STA", IndirectIndexed, 2, 6, 0)
	t[0x86] = entry("STX", ZeroPage, 2, 3, 0)
	t[0x96] = entry("STX", ZeroPageY, 2, 4, 0)
	t[0x8E] = entry("STX", Absolute, 3, 4, 0)
	t[0x84] = entry("STY", ZeroPage, 2, 3, 0)
	t[0x94] = entry("STY", ZeroPageX, 2, 4, 0)
	t[0x8C] = entry("STY", Absolute, 3, 4, 0)

	// --- Register transfers ---
	t[0xAA] = entry("TAX", Implied, 1, 2, 0)
	t[0xA8] = entry("TAY", Implied, 1, 2, 0)
	t[0xBA] = entry("TSX", Implied, 1, 2, 0)
	t[0x8A] = entry("TXA", Implied, 1, 2, 0)
	t[0x9A] = entry("TXS", Implied, 1, 2, 0)
	t[0x98] = entry("TYA", Implied, 1, 2, 0)

	// --- Stack ---
	t[0x48] = entry("PHA", Implied, 1, 3, 0)
	t[0x08] = entry("PHP", Implied, 1, 3, 0)
	t[0x68] = entry("PLA", Implied, 1, 4, 0)
	t[0x28] = entry("PLP", Implied, 1, 4, 0)

	// --- Logical ---
	t[0x29] = entry("AND", Immediate, 2, 2, 0)
	t[0x25] = entry("AND", ZeroPage, 2, 3, 0)
	t[0x35] = entry("AND", ZeroPageX, 2, 4, 0)
	t[0x2D] = entry("AND", Absolute, 3, 4, 0)
	t[0x3D] = entry("AND", AbsoluteX, 3, 4, pg)
	t[0x39] = entry("AND", AbsoluteY, 3, 4, pg)
	t[0x21] = entry("AND", IndexedIndirect, 2, 6, 0)
	t[0x31] = entry("AND", IndirectIndexed, 2, 5, pg)
	t[0x49] = entry("EOR", Immediate, 2, 2, 0)
	t[0x45] = entry("EOR", ZeroPage, 2, 3, 0)
	t[0x55] = entry("EOR", ZeroPageX, 2, 4, 0)
	t[0x4D] = entry("EOR", Absolute, 3, 4, 0)
	t[0x5D] = entry("EOR", AbsoluteX, 3, 4, pg)
	t[0x59] = entry("EOR", AbsoluteY, 3, 4, pg)
	t[0x41] = entry("EOR", IndexedIndirect, 2, 6, 0)
	t[0x51] = entry("EOR", IndirectIndexed, 2, 5, pg)
	t[0x09] = entry("ORA", Immediate, 2, 2, 0)
	t[0x05] = entry("ORA", ZeroPage, 2, 3, 0)
	t[0x15] = entry("ORA", ZeroPageX, 2, 4, 0)
	t[0x0D] = entry("ORA", Absolute, 3, 4, 0)
	t[0x1D] = entry("ORA", AbsoluteX, 3, 4, pg)
	t[0x19] = entry("ORA", AbsoluteY, 3, 4, pg)
	t[0x01] = entry("ORA", IndexedIndirect, 2, 6, 0)
	t[0x11] = entry("ORA", IndirectIndexed, 2, 5, pg)
	t[0x24] = entry("BIT", ZeroPage, 2, 3, 0)
	t[0x2C] = entry("BIT", Absolute, 3, 4, 0)

	// --- Arithmetic ---
	t[0x69] = entry("ADC", Immediate, 2, 2, 0)
	t[0x65] = entry("ADC", ZeroPage, 2, 3, 0)
	t[0x75] = entry("ADC", ZeroPageX, 2, 4, 0)
	t[0x6D] = entry("ADC", Absolute, 3, 4, 0)
	t[0x7D] = entry("ADC", AbsoluteX, 3, 4, pg)
	t[0x79] = entry("ADC", AbsoluteY, 3, 4, pg)
	t[0x61] = entry("ADC", IndexedIndirect, 2, 6, 0)
	t[0x71] = entry("ADC", IndirectIndexed, 2, 5, pg)
	t[0xE9] = entry("SBC", Immediate, 2, 2, 0)
	t[0xE5] = entry("SBC", ZeroPage, 2, 3, 0)
	t[0xF5] = entry("SBC", ZeroPageX, 2, 4, 0)
	t[0xED] = entry("SBC", Absolute, 3, 4, 0)
	t[0xFD] = entry("SBC", AbsoluteX, 3, 4, pg)
	t[0xF9] = entry("SBC", AbsoluteY, 3, 4, pg)
	t[0xE1] = entry("SBC", IndexedIndirect, 2, 6, 0)
	t[0xF1] = entry("SBC", IndirectIndexed, 2, 5, pg)

	// --- Comparisons ---
	t[0xC9] = entry("CMP", Immediate, 2, 2, 0)
	t[0xC5] = entry("CMP", ZeroPage, 2, 3, 0)
	t[0xD5] = entry("CMP", ZeroPageX, 2, 4, 0)
	t[0xCD] = entry("CMP", Absolute, 3, 4, 0)
	t[0xDD] = entry("CMP", AbsoluteX, 3, 4, pg)
	t[0xD9] = entry("CMP", AbsoluteY, 3, 4, pg)
	t[0xC1] = entry("CMP", IndexedIndirect, 2, 6, 0)
	t[0xD1] = entry("CMP", IndirectIndexed, 2, 5, pg)
	t[0xE0] = entry("CPX", Immediate, 2, 2, 0)
	t[0xE4] = entry("CPX", ZeroPage, 2, 3, 0)
	t[0xEC] = entry("CPX", Absolute, 3, 4, 0)
	t[0xC0] = entry("CPY", Immediate, 2, 2, 0)
	t[0xC4] = entry("CPY", ZeroPage, 2, 3, 0)
	t[0xCC] = entry("CPY", Absolute, 3, 4, 0)

	// --- Increments and decrements ---
	t[0xE6] = entry("INC", ZeroPage, 2, 5, 0)
	t[0xF6] = entry("INC", ZeroPageX, 2, 6, 0)
	t[0xEE] = entry("INC", Absolute, 3, 6, 0)
	t[0xFE] = entry("INC", AbsoluteX, 3, 7, 0)
	t[0xE8] = entry("INX", Implied, 1, 2, 0)
	t[0xC8] = entry("INY", Implied, 1, 2, 0)
	t[0xC6] = entry("DEC", ZeroPage, 2, 5, 0)
	t[0xD6] = entry("DEC", ZeroPageX, 2, 6, 0)
	t[0xCE] = entry("DEC", Absolute, 3, 6, 0)
	t[0xDE] = entry("DEC", AbsoluteX, 3, 7, 0)
	t[0xCA] = entry("DEX", Implied, 1, 2, 0)
	t[0x88] = entry("DEY", Implied, 1, 2, 0)

	// --- Shifts and rotates ---
	t[0x0A] = entry("ASL", Accumulator, 1, 2, 0)
	t[0x06] = entry("ASL", ZeroPage, 2, 5, 0)
	t[0x16] = entry("ASL", ZeroPageX, 2, 6, 0)
	t[0x0E] = entry("ASL", Absolute, 3, 6, 0)
	t[0x1E] = entry("ASL", AbsoluteX, 3, 7, 0)
	t[0x4A] = entry("LSR", Accumulator, 1, 2, 0)
	t[0x46] = entry("LSR", ZeroPage, 2, 5, 0)
	t[0x56] = entry("LSR", ZeroPageX, 2, 6, 0)
	t[0x4E] = entry("LSR", Absolute, 3, 6, 0)
	t[0x5E] = entry("LSR", AbsoluteX, 3, 7, 0)
	t[0x2A] = entry("ROL", Accumulator, 1, 2, 0)
	t[0x26] = entry("ROL", ZeroPage, 2, 5, 0)
	t[0x36] = entry("ROL", ZeroPageX, 2, 6, 0)
	t[0x2E] = entry("ROL", Absolute, 3, 6, 0)
	t[0x3E] = entry("ROL", AbsoluteX, 3, 7, 0)
	t[0x6A] = entry("ROR", Accumulator, 1, 2, 0)
	t[0x66] = entry("ROR", ZeroPage, 2, 5, 0)
	t[0x76] = entry("ROR", ZeroPageX, 2, 6, 0)
	t[0x6E] = entry("ROR", Absolute, 3, 6, 0)
	t[0x7E] = entry("ROR", AbsoluteX, 3, 7, 0)

	// --- Branches: +1 cycle when taken, +1 more on page cross ---
	t[0x90] = entry("BCC", Relative, 2, 2, 0)
	t[0xB0] = entry("BCS", Relative, 2, 2, 0)
	t[0xF0] = entry("BEQ", Relative, 2, 2, 0)
	t[0xD0] = entry("BNE", Relative, 2, 2, 0)
	t[0x30] = entry("BMI", Relative, 2, 2, 0)
	t[0x10] = entry("BPL", Relative, 2, 2, 0)
	t[0x50] = entry("BVC", Relative, 2, 2, 0)
	t[0x70] = entry("BVS", Relative, 2, 2, 0)

	// --- Status flag changes ---
	t[0x18] = entry("CLC", Implied, 1, 2, 0)
	t[0x38] = entry("SEC", Implied, 1, 2, 0)
	t[0x58] = entry("CLI", Implied, 1, 2, 0)
	t[0x78] = entry("SEI", Implied, 1, 2, 0)
	t[0xD8] = entry("CLD", Implied, 1, 2, 0)
	t[0xF8] = entry("SED", Implied, 1, 2, 0)
	t[0xB8] = entry("CLV", Implied, 1, 2, 0)

	// --- Undocumented NOP variants ---
	for _, code := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		t[code] = entry("NOP", Implied, 1, 2, ud)
	}
	for _, code := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		t[code] = entry("NOP", Immediate, 2, 2, ud)
	}
	for _, code := range []uint8{0x04, 0x44, 0x64} {
		t[code] = entry("NOP", ZeroPage, 2, 3, ud)
	}
	for _, code := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		t[code] = entry("NOP", ZeroPageX, 2, 4, ud)
	}
	t[0x0C] = entry("NOP", Absolute, 3, 4, ud)
	for _, code := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		t[code] = entry("NOP", AbsoluteX, 3, 4, pg|ud)
	}

	// --- Undocumented opcodes with stable behavior ---
	t[0xEB] = entry("SBC", Immediate, 2, 2, ud)
	t[0xA7] = entry("LAX", ZeroPage, 2, 3, ud)
	t[0xB7] = entry("LAX", ZeroPageY, 2, 4, ud)
	t[0xAF] = entry("LAX", Absolute, 3, 4, ud)
	t[0xBF] = entry("LAX", AbsoluteY, 3, 4, pg|ud)
	t[0xA3] = entry("LAX", IndexedIndirect, 2, 6, ud)
	t[0xB3] = entry("LAX", IndirectIndexed, 2, 5, pg|ud)
	t[0x87] = entry("SAX", ZeroPage, 2, 3, ud)
	t[0x97] = entry("SAX", ZeroPageY, 2, 4, ud)
	t[0x8F] = entry("SAX", Absolute, 3, 4, ud)
	t[0x83] = entry("SAX", IndexedIndirect, 2, 6, ud)
	t[0xC7] = entry("DCP", ZeroPage, 2, 5, ud)
	t[0xD7] = entry("DCP", ZeroPageX, 2, 6, ud)
	t[0xCF] = entry("DCP", Absolute, 3, 6, ud)
	t[0xDF] = entry("DCP", AbsoluteX, 3, 7, ud)
	t[0xDB] = entry("DCP", AbsoluteY, 3, 7, ud)
	t[0xC3] = entry("DCP", IndexedIndirect, 2, 8, ud)
	t[0xD3] = entry("DCP", IndirectIndexed, 2, 8, ud)
	t[0xE7] = entry("ISB", ZeroPage, 2, 5, ud)
	t[0xF7] = entry("ISB", ZeroPageX, 2, 6, ud)
	t[0xEF] = entry("ISB", Absolute, 3, 6, ud)
	t[0xFF] = entry("ISB", AbsoluteX, 3, 7, ud)
	t[0xFB] = entry("ISB", AbsoluteY, 3, 7, ud)
	t[0xE3] = entry("ISB", IndexedIndirect, 2, 8, ud)
	t[0xF3] = entry("ISB", IndirectIndexed, 2, 8, ud)
	t[0x07] = entry("SLO", ZeroPage, 2, 5, ud)
	t[0x17] = entry("SLO", ZeroPageX, 2, 6, ud)
	t[0x0F] = entry("SLO", Absolute, 3, 6, ud)
	t[0x1F] = entry("SLO", AbsoluteX, 3, 7, ud)
	t[0x1B] = entry("SLO", AbsoluteY, 3, 7, ud)
	t[0x03] = entry("SLO", IndexedIndirect, 2, 8, ud)
	t[0x13] = entry("SLO", IndirectIndexed, 2, 8, ud)
	t[0x27] = entry("RLA", ZeroPage, 2, 5, ud)
	t[0x37] = entry("RLA", ZeroPageX, 2, 6, ud)
	t[0x2F] = entry("RLA", Absolute, 3, 6, ud)
	t[0x3F] = entry("RLA", AbsoluteX, 3, 7, ud)
	t[0x3B] = entry("RLA", AbsoluteY, 3, 7, ud)
	t[0x23] = entry("RLA", IndexedIndirect, 2, 8, ud)
	t[0x33] = entry("RLA", IndirectIndexed, 2, 8, ud)
	t[0x47] = entry("SRE", ZeroPage, 2, 5, ud)
	t[0x57] = entry("SRE", ZeroPageX, 2, 6, ud)
	t[0x4F] = entry("SRE", Absolute, 3, 6, ud)
	t[0x5F] = entry("SRE", AbsoluteX, 3, 7, ud)
	t[0x5B] = entry("SRE", AbsoluteY, 3, 7, ud)
	t[0x43] = entry("SRE", IndexedIndirect, 2, 8, ud)
	t[0x53] = entry("SRE", IndirectIndexed, 2, 8, ud)
	t[0x67] = entry("RRA", ZeroPage, 2, 5, ud)
	t[0x77] = entry("RRA", ZeroPageX, 2, 6, ud)
	t[0x6F] = entry("RRA", Absolute, 3, 6, ud)
	t[0x7F] = entry("RRA", AbsoluteX, 3, 7, ud)
	t[0x7B] = entry("RRA", AbsoluteY, 3, 7, ud)
	t[0x63] = entry("RRA", IndexedIndirect, 2, 8, ud)
	t[0x73] = entry("RRA", IndirectIndexed, 2, 8, ud)

	// --- Unstable opcodes: decoding one is a fatal error ---
	for _, code := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		t[code] = entry("JAM", Implied, 1, 0, un)
	}
	t[0x0B] = entry("ANC", Immediate, 2, 2, un)
	t[0x2B] = entry("ANC", Immediate, 2, 2, un)
	t[0x4B] = entry("ALR", Immediate, 2, 2, un)
	t[0x6B] = entry("ARR", Immediate, 2, 2, un)
	t[0x8B] = entry("XAA", Immediate, 2, 2, un)
	t[0xAB] = entry("LXA", Immediate, 2, 2, un)
	t[0xCB] = entry("AXS", Immediate, 2, 2, un)
	t[0xBB] = entry("LAS", AbsoluteY, 3, 4, un)
	t[0x93] = entry("AHX", IndirectIndexed, 2, 6, un)
	t[0x9F] = entry("AHX", AbsoluteY, 3, 5, un)
	t[0x9B] = entry("TAS", AbsoluteY, 3, 5, un)
	t[0x9C] = entry("SHY", AbsoluteX, 3, 5, un)
	t[0x9E] = entry("SHX", AbsoluteY, 3, 5, un)

	return t
}

// Decode returns the table entry for an opcode byte.
func Decode(opcode uint8) Instruction {
	return opcodes[opcode]
}
