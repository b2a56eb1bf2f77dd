// Package cpu implements the 6502 processor core used in the NES.
package cpu

import "fmt"

// Memory is the bus contract the processor executes against. Implementations
// must be infallible; address decoding failures do not exist at this layer.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Status register bit masks.
const (
	FlagCarry     uint8 = 0x01
	FlagZero      uint8 = 0x02
	FlagInterrupt uint8 = 0x04
	FlagDecimal   uint8 = 0x08
	FlagBreak     uint8 = 0x10
	FlagUnused    uint8 = 0x20
	FlagOverflow  uint8 = 0x40
	FlagNegative  uint8 = 0x80
)

const (
	stackBase  = 0x0100
	stackReset = 0xFD

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	pageMask = 0xFF00
)

// IllegalOpcodeError reports a fetched opcode byte with no stable documented
// effect. Execution past it would desynchronize from real hardware, so the
// processor refuses to continue; the program counter is left one past the
// offending byte.
type IllegalOpcodeError struct {
	Opcode  uint8
	Address uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode 0x%02X at 0x%04X", e.Opcode, e.Address)
}

// CPU models the 6502 register file and execution engine. All state lives on
// the struct, so independent instances over independent buses can run side
// by side.
type CPU struct {
	a      uint8
	x      uint8
	y      uint8
	sp     uint8
	pc     uint16
	status uint8

	mem    Memory
	cycles uint64

	nmiPending bool
	irqPending bool
}

// New creates a CPU over the given memory and applies the architectural
// reset, which loads the program counter from the reset vector at 0xFFFC.
func New(mem Memory) *CPU {
	c := &CPU{mem: mem}
	c.Reset()
	return c
}

// Reset restores the power-up register state and reloads the program counter
// from the reset vector. The sequence costs 7 cycles.
func (c *CPU) Reset() {
	c.a = 0
	c.x = 0
	c.y = 0
	c.sp = stackReset
	c.status = FlagInterrupt | FlagUnused
	c.pc = c.read16(resetVector)
	c.cycles += 7
}

// Register accessors for driver code. The frame loop reads these once per
// frame; nothing outside the package mutates them.

func (c *CPU) A() uint8       { return c.a }
func (c *CPU) X() uint8       { return c.x }
func (c *CPU) Y() uint8       { return c.y }
func (c *CPU) SP() uint8      { return c.sp }
func (c *CPU) PC() uint16     { return c.pc }
func (c *CPU) Status() uint8  { return c.status }
func (c *CPU) Cycles() uint64 { return c.cycles }

// String formats the register file in the conventional trace-log layout.
func (c *CPU) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X CYC:%d",
		c.a, c.x, c.y, c.status, c.sp, c.pc, c.cycles)
}

// TriggerNMI latches a non-maskable interrupt, serviced before the next
// instruction.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// TriggerIRQ latches a maskable interrupt. It is dropped if the interrupt
// disable flag is set when the next instruction would start.
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

// Step executes a single instruction and returns the clock cycles it
// consumed, including page-cross and branch penalties. A pending interrupt
// is serviced instead, costing 7 cycles. Fetching an unstable opcode returns
// an IllegalOpcodeError with the architectural state untouched except for
// the program counter, which has already advanced past the bad byte.
func (c *CPU) Step() (uint64, error) {
	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(nmiVector)
		c.cycles += 7
		return 7, nil
	}
	if c.irqPending {
		c.irqPending = false
		if !c.flag(FlagInterrupt) {
			c.interrupt(irqVector)
			c.cycles += 7
			return 7, nil
		}
	}

	opcode := c.mem.Read(c.pc)
	c.pc++

	op := &opcodes[opcode]
	if op.Unstable {
		return 0, &IllegalOpcodeError{Opcode: opcode, Address: c.pc - 1}
	}

	address, pageCrossed := c.operandAddress(op.Mode)
	extra := c.execute(opcode, address, pageCrossed)
	if pageCrossed && op.PageCycle {
		extra++
	}

	total := uint64(op.Cycles) + uint64(extra)
	c.cycles += total
	return total, nil
}

// RunUntil steps the processor until the predicate reports done, returning
// the cycles consumed. The predicate is evaluated before each step, so a
// bounded run is the caller's policy, not the core's.
func (c *CPU) RunUntil(done func(*CPU) bool) (uint64, error) {
	var total uint64
	for !done(c) {
		n, err := c.Step()
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// operandAddress resolves the effective operand address for the mode of the
// current instruction, consuming operand bytes from the instruction stream.
// The second result reports whether indexing crossed a page boundary.
func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		address := c.pc
		c.pc++
		return address, false

	case ZeroPage:
		address := uint16(c.mem.Read(c.pc))
		c.pc++
		return address, false

	case ZeroPageX:
		address := uint16(c.mem.Read(c.pc) + c.x) // wraps within the zero page
		c.pc++
		return address, false

	case ZeroPageY:
		address := uint16(c.mem.Read(c.pc) + c.y)
		c.pc++
		return address, false

	case Relative:
		offset := int8(c.mem.Read(c.pc))
		c.pc++
		target := c.pc + uint16(offset)
		return target, c.pc&pageMask != target&pageMask

	case Absolute:
		address := c.read16(c.pc)
		c.pc += 2
		return address, false

	case AbsoluteX:
		base := c.read16(c.pc)
		c.pc += 2
		address := base + uint16(c.x)
		return address, base&pageMask != address&pageMask

	case AbsoluteY:
		base := c.read16(c.pc)
		c.pc += 2
		address := base + uint16(c.y)
		return address, base&pageMask != address&pageMask

	case Indirect:
		// Only JMP uses this mode. When the pointer's low byte is 0xFF the
		// high byte is fetched from the start of the same page, not the
		// next one.
		ptr := c.read16(c.pc)
		c.pc += 2
		if ptr&0x00FF == 0x00FF {
			lo := uint16(c.mem.Read(ptr))
			hi := uint16(c.mem.Read(ptr & pageMask))
			return hi<<8 | lo, false
		}
		return c.read16(ptr), false

	case IndexedIndirect: // (zp,X)
		ptr := c.mem.Read(c.pc) + c.x
		c.pc++
		lo := uint16(c.mem.Read(uint16(ptr)))
		hi := uint16(c.mem.Read(uint16(ptr + 1))) // pointer+1 wraps in the zero page
		return hi<<8 | lo, false

	case IndirectIndexed: // (zp),Y
		ptr := c.mem.Read(c.pc)
		c.pc++
		lo := uint16(c.mem.Read(uint16(ptr)))
		hi := uint16(c.mem.Read(uint16(ptr + 1)))
		base := hi<<8 | lo
		address := base + uint16(c.y)
		return address, base&pageMask != address&pageMask

	default:
		return 0, false
	}
}

func (c *CPU) read16(address uint16) uint16 {
	lo := uint16(c.mem.Read(address))
	hi := uint16(c.mem.Read(address + 1))
	return hi<<8 | lo
}

// --- Flag helpers ---

func (c *CPU) flag(mask uint8) bool {
	return c.status&mask != 0
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.status |= mask
	} else {
		c.status &^= mask
	}
}

func (c *CPU) setZN(value uint8) {
	c.setFlag(FlagZero, value == 0)
	c.setFlag(FlagNegative, value&FlagNegative != 0)
}

// --- Stack helpers ---

func (c *CPU) push(value uint8) {
	c.mem.Write(stackBase+uint16(c.sp), value)
	c.sp--
}

func (c *CPU) pull() uint8 {
	c.sp++
	return c.mem.Read(stackBase + uint16(c.sp))
}

func (c *CPU) push16(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value))
}

func (c *CPU) pull16() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

// interrupt runs the hardware interrupt sequence: push PC and status with
// the Break bit clear, mask further IRQs, jump through the vector.
func (c *CPU) interrupt(vector uint16) {
	c.push16(c.pc)
	c.push(c.status&^FlagBreak | FlagUnused)
	c.setFlag(FlagInterrupt, true)
	c.pc = c.read16(vector)
}

// --- Instruction semantics ---

func (c *CPU) lda(address uint16) {
	c.a = c.mem.Read(address)
	c.setZN(c.a)
}

func (c *CPU) ldx(address uint16) {
	c.x = c.mem.Read(address)
	c.setZN(c.x)
}

func (c *CPU) ldy(address uint16) {
	c.y = c.mem.Read(address)
	c.setZN(c.y)
}

// addWithCarry implements the shared ADC/SBC core. SBC feeds the one's
// complement of its operand through the same adder, as the silicon does.
func (c *CPU) addWithCarry(value uint8) {
	carry := uint16(0)
	if c.flag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.a) + uint16(value) + carry
	result := uint8(sum)

	c.setFlag(FlagCarry, sum > 0xFF)
	// Overflow: both operands share a sign the result does not.
	c.setFlag(FlagOverflow, (c.a^result)&(value^result)&0x80 != 0)

	c.a = result
	c.setZN(c.a)
}

func (c *CPU) compare(address uint16, register uint8) {
	value := c.mem.Read(address)
	c.setFlag(FlagCarry, register >= value)
	c.setZN(register - value)
}

func (c *CPU) bit(address uint16) {
	value := c.mem.Read(address)
	c.setFlag(FlagZero, c.a&value == 0)
	c.setFlag(FlagNegative, value&FlagNegative != 0)
	c.setFlag(FlagOverflow, value&FlagOverflow != 0)
}

func (c *CPU) aslValue(value uint8) uint8 {
	c.setFlag(FlagCarry, value&0x80 != 0)
	value <<= 1
	c.setZN(value)
	return value
}

func (c *CPU) lsrValue(value uint8) uint8 {
	c.setFlag(FlagCarry, value&0x01 != 0)
	value >>= 1
	c.setZN(value)
	return value
}

func (c *CPU) rolValue(value uint8) uint8 {
	carryIn := c.flag(FlagCarry)
	c.setFlag(FlagCarry, value&0x80 != 0)
	value <<= 1
	if carryIn {
		value |= 0x01
	}
	c.setZN(value)
	return value
}

func (c *CPU) rorValue(value uint8) uint8 {
	carryIn := c.flag(FlagCarry)
	c.setFlag(FlagCarry, value&0x01 != 0)
	value >>= 1
	if carryIn {
		value |= 0x80
	}
	c.setZN(value)
	return value
}

func (c *CPU) asl(address uint16) uint8 {
	value := c.aslValue(c.mem.Read(address))
	c.mem.Write(address, value)
	return value
}

func (c *CPU) lsr(address uint16) uint8 {
	value := c.lsrValue(c.mem.Read(address))
	c.mem.Write(address, value)
	return value
}

func (c *CPU) rol(address uint16) uint8 {
	value := c.rolValue(c.mem.Read(address))
	c.mem.Write(address, value)
	return value
}

func (c *CPU) ror(address uint16) uint8 {
	value := c.rorValue(c.mem.Read(address))
	c.mem.Write(address, value)
	return value
}

// branch redirects the program counter when the condition holds. A taken
// branch costs one extra cycle, two if the target is on a different page
// than the fall-through address.
func (c *CPU) branch(condition bool, target uint16, pageCrossed bool) uint8 {
	if !condition {
		return 0
	}
	c.pc = target
	if pageCrossed {
		return 2
	}
	return 1
}

func (c *CPU) brk() {
	// BRK is one byte but pushes the address of the byte after its padding
	// operand.
	c.push16(c.pc + 1)
	c.push(c.status | FlagBreak | FlagUnused)
	c.setFlag(FlagInterrupt, true)
	c.pc = c.read16(irqVector)
}

// execute dispatches the instruction's semantic effect and returns extra
// cycles beyond the table's base cost (branch penalties only; page-cross
// penalties are applied by Step from the table flag).
func (c *CPU) execute(opcode uint8, address uint16, pageCrossed bool) uint8 {
	switch opcode {
	// --- Loads and stores ---
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1: // LDA
		c.lda(address)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE: // LDX
		c.ldx(address)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC: // LDY
		c.ldy(address)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91: // STA
		c.mem.Write(address, c.a)
	case 0x86, 0x96, 0x8E: // STX
		c.mem.Write(address, c.x)
	case 0x84, 0x94, 0x8C: // STY
		c.mem.Write(address, c.y)

	// --- Arithmetic ---
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71: // ADC
		c.addWithCarry(c.mem.Read(address))
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1: // SBC
		c.addWithCarry(c.mem.Read(address) ^ 0xFF)

	// --- Logical ---
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31: // AND
		c.a &= c.mem.Read(address)
		c.setZN(c.a)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11: // ORA
		c.a |= c.mem.Read(address)
		c.setZN(c.a)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51: // EOR
		c.a ^= c.mem.Read(address)
		c.setZN(c.a)
	case 0x24, 0x2C: // BIT
		c.bit(address)

	// --- Shifts and rotates ---
	case 0x0A: // ASL A
		c.a = c.aslValue(c.a)
	case 0x06, 0x16, 0x0E, 0x1E: // ASL
		c.asl(address)
	case 0x4A: // LSR A
		c.a = c.lsrValue(c.a)
	case 0x46, 0x56, 0x4E, 0x5E: // LSR
		c.lsr(address)
	case 0x2A: // ROL A
		c.a = c.rolValue(c.a)
	case 0x26, 0x36, 0x2E, 0x3E: // ROL
		c.rol(address)
	case 0x6A: // ROR A
		c.a = c.rorValue(c.a)
	case 0x66, 0x76, 0x6E, 0x7E: // ROR
		c.ror(address)

	// --- Comparisons ---
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1: // CMP
		c.compare(address, c.a)
	case 0xE0, 0xE4, 0xEC: // CPX
		c.compare(address, c.x)
	case 0xC0, 0xC4, 0xCC: // CPY
		c.compare(address, c.y)

	// --- Increments and decrements ---
	case 0xE6, 0xF6, 0xEE, 0xFE: // INC
		value := c.mem.Read(address) + 1
		c.mem.Write(address, value)
		c.setZN(value)
	case 0xC6, 0xD6, 0xCE, 0xDE: // DEC
		value := c.mem.Read(address) - 1
		c.mem.Write(address, value)
		c.setZN(value)
	case 0xE8: // INX
		c.x++
		c.setZN(c.x)
	case 0xCA: // DEX
		c.x--
		c.setZN(c.x)
	case 0xC8: // INY
		c.y++
		c.setZN(c.y)
	case 0x88: // DEY
		c.y--
		c.setZN(c.y)

	// --- Register transfers ---
	case 0xAA: // TAX
		c.x = c.a
		c.setZN(c.x)
	case 0x8A: // TXA
		c.a = c.x
		c.setZN(c.a)
	case 0xA8: // TAY
		c.y = c.a
		c.setZN(c.y)
	case 0x98: // TYA
		c.a = c.y
		c.setZN(c.a)
	case 0xBA: // TSX
		c.x = c.sp
		c.setZN(c.x)
	case 0x9A: // TXS
		c.sp = c.x

	// --- Stack ---
	case 0x48: // PHA
		c.push(c.a)
	case 0x68: // PLA
		c.a = c.pull()
		c.setZN(c.a)
	case 0x08: // PHP
		c.push(c.status | FlagBreak | FlagUnused)
	case 0x28: // PLP
		c.status = c.pull()&^FlagBreak | FlagUnused

	// --- Status flag changes ---
	case 0x18: // CLC
		c.setFlag(FlagCarry, false)
	case 0x38: // SEC
		c.setFlag(FlagCarry, true)
	case 0x58: // CLI
		c.setFlag(FlagInterrupt, false)
	case 0x78: // SEI
		c.setFlag(FlagInterrupt, true)
	case 0xB8: // CLV
		c.setFlag(FlagOverflow, false)
	case 0xD8: // CLD
		c.setFlag(FlagDecimal, false)
	case 0xF8: // SED
		c.setFlag(FlagDecimal, true)

	// --- Control flow ---
	case 0x4C, 0x6C: // JMP
		c.pc = address
	case 0x20: // JSR
		c.push16(c.pc - 1)
		c.pc = address
	case 0x60: // RTS
		c.pc = c.pull16() + 1
	case 0x40: // RTI
		c.status = c.pull()&^FlagBreak | FlagUnused
		c.pc = c.pull16()
	case 0x00: // BRK
		c.brk()

	// --- Branches ---
	case 0x90: // BCC
		return c.branch(!c.flag(FlagCarry), address, pageCrossed)
	case 0xB0: // BCS
		return c.branch(c.flag(FlagCarry), address, pageCrossed)
	case 0xD0: // BNE
		return c.branch(!c.flag(FlagZero), address, pageCrossed)
	case 0xF0: // BEQ
		return c.branch(c.flag(FlagZero), address, pageCrossed)
	case 0x10: // BPL
		return c.branch(!c.flag(FlagNegative), address, pageCrossed)
	case 0x30: // BMI
		return c.branch(c.flag(FlagNegative), address, pageCrossed)
	case 0x50: // BVC
		return c.branch(!c.flag(FlagOverflow), address, pageCrossed)
	case 0x70: // BVS
		return c.branch(c.flag(FlagOverflow), address, pageCrossed)

	// --- Undocumented opcodes with stable behavior ---
	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF: // LAX
		c.a = c.mem.Read(address)
		c.x = c.a
		c.setZN(c.a)
	case 0x83, 0x87, 0x8F, 0x97: // SAX
		c.mem.Write(address, c.a&c.x)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB: // DCP
		value := c.mem.Read(address) - 1
		c.mem.Write(address, value)
		c.setFlag(FlagCarry, c.a >= value)
		c.setZN(c.a - value)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB: // ISB
		value := c.mem.Read(address) + 1
		c.mem.Write(address, value)
		c.addWithCarry(value ^ 0xFF)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B: // SLO
		c.a |= c.asl(address)
		c.setZN(c.a)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B: // RLA
		c.a &= c.rol(address)
		c.setZN(c.a)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B: // SRE
		c.a ^= c.lsr(address)
		c.setZN(c.a)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B: // RRA
		c.addWithCarry(c.ror(address))

	// --- NOP, official and otherwise ---
	case 0xEA,
		0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA,
		0x80, 0x82, 0x89, 0xC2, 0xE2,
		0x04, 0x44, 0x64,
		0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
		0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		// no effect
	}
	return 0
}
