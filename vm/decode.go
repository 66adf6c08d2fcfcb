package vm

import "fmt"

// Opcode selects the semantics of an instruction (bits 15-12).
type Opcode Word

// opcodes
const (
	OP_BR Opcode = iota
	OP_ADD
	OP_LD
	OP_ST
	OP_JSR
	OP_AND
	OP_LDR
	OP_STR
	OP_RTI
	OP_NOT
	OP_LDI
	OP_STI
	OP_JMP
	OP_RES
	OP_LEA
	OP_TRAP
)

var opcodeNames = [...]string{
	OP_BR:   "BR",
	OP_ADD:  "ADD",
	OP_LD:   "LD",
	OP_ST:   "ST",
	OP_JSR:  "JSR",
	OP_AND:  "AND",
	OP_LDR:  "LDR",
	OP_STR:  "STR",
	OP_RTI:  "RTI",
	OP_NOT:  "NOT",
	OP_LDI:  "LDI",
	OP_STI:  "STI",
	OP_JMP:  "JMP",
	OP_RES:  "RES",
	OP_LEA:  "LEA",
	OP_TRAP: "TRAP",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", Word(op))
}

// Instruction is a raw instruction word. Its accessors extract the operand
// fields; which of them are meaningful depends on the opcode.
type Instruction Word

// SignExtend widens the low bitCount bits of x to a full word, copying bit
// bitCount-1 into every higher bit.
func SignExtend(x Word, bitCount uint) Word {
	x &= 0xFFFF >> (16 - bitCount)
	if (x>>(bitCount-1))&0b1 != 0 {
		x |= 0xFFFF << bitCount
	}
	return x
}

func (in Instruction) Opcode() Opcode {
	return Opcode(in >> 12)
}

// DR is the destination (or store source) register, bits 11-9.
func (in Instruction) DR() Register {
	return Register((in >> 9) & 0b111)
}

// SR1 is the first source or base register, bits 8-6.
func (in Instruction) SR1() Register {
	return Register((in >> 6) & 0b111)
}

// SR2 is the second source register, bits 2-0.
func (in Instruction) SR2() Register {
	return Register(in & 0b111)
}

// Immediate reports the immediate mode flag, bit 5.
func (in Instruction) Immediate() bool {
	return (in>>5)&0b1 == 1
}

// Long reports the JSR (as opposed to JSRR) flag, bit 11.
func (in Instruction) Long() bool {
	return (in>>11)&0b1 == 1
}

// NZP is the BR condition mask, bits 11-9.
func (in Instruction) NZP() Flag {
	return Flag((in >> 9) & 0b111)
}

func (in Instruction) Imm5() Word {
	return SignExtend(Word(in)&0x1F, 5)
}

func (in Instruction) Offset6() Word {
	return SignExtend(Word(in)&0x3F, 6)
}

func (in Instruction) Offset9() Word {
	return SignExtend(Word(in)&0x1FF, 9)
}

func (in Instruction) Offset11() Word {
	return SignExtend(Word(in)&0x7FF, 11)
}

// TrapVector is the low byte of a TRAP instruction.
func (in Instruction) TrapVector() Trap {
	return Trap(in & 0xFF)
}
