package cpu

import "fmt"

// Disassemble formats the instruction at the given address and returns its
// byte length, without touching processor state. Used by the driver's trace
// mode.
func Disassemble(mem Memory, address uint16) (string, uint8) {
	opcode := mem.Read(address)
	op := &opcodes[opcode]

	var operand string
	switch op.Mode {
	case Implied:
		return op.Name, op.Size
	case Accumulator:
		operand = "A"
	case Immediate:
		operand = fmt.Sprintf("#$%02X", mem.Read(address+1))
	case ZeroPage:
		operand = fmt.Sprintf("$%02X", mem.Read(address+1))
	case ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", mem.Read(address+1))
	case ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", mem.Read(address+1))
	case Relative:
		offset := int8(mem.Read(address + 1))
		target := address + 2 + uint16(offset)
		operand = fmt.Sprintf("$%04X", target)
	case Absolute:
		operand = fmt.Sprintf("$%04X", readWord(mem, address+1))
	case AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", readWord(mem, address+1))
	case AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", readWord(mem, address+1))
	case Indirect:
		operand = fmt.Sprintf("($%04X)", readWord(mem, address+1))
	case IndexedIndirect:
		operand = fmt.Sprintf("($%02X,X)", mem.Read(address+1))
	case IndirectIndexed:
		operand = fmt.Sprintf("($%02X),Y", mem.Read(address+1))
	}

	return op.Name + " " + operand, op.Size
}

func readWord(mem Memory, address uint16) uint16 {
	lo := uint16(mem.Read(address))
	hi := uint16(mem.Read(address + 1))
	return hi<<8 | lo
}
