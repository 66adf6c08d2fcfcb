package vm

import "fmt"

// Word is the machine's unit of storage, addressing and instruction encoding.
// Arithmetic on words wraps modulo 65536.
type Word uint16

// Register indexes the register file.
type Register uint8

// general purpose registers, then the program counter and condition flags
const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	PC
	COND
	RegisterCount
)

// Flag is the condition code. Exactly one flag is set at any time.
type Flag Word

// flags
const (
	FLAG_POS Flag = 0b001
	FLAG_ZRO Flag = 0b010
	FLAG_NEG Flag = 0b100
)

func (fl Flag) String() string {
	switch fl {
	case FLAG_POS:
		return "P"
	case FLAG_ZRO:
		return "Z"
	case FLAG_NEG:
		return "N"
	}
	return fmt.Sprintf("Flag(%03b)", Word(fl))
}

func (r Register) String() string {
	switch {
	case r < PC:
		return fmt.Sprintf("R%d", uint8(r))
	case r == PC:
		return "PC"
	case r == COND:
		return "COND"
	}
	return fmt.Sprintf("Register(%d)", uint8(r))
}

// Registers is the register file: R0-R7, PC and COND.
type Registers struct {
	reg [RegisterCount]Word
}

// NewRegisters returns a register file with every register zero and the
// condition flag set to Zero.
func NewRegisters() Registers {
	var regs Registers
	regs.reg[COND] = Word(FLAG_ZRO)
	return regs
}

func (regs *Registers) check(r Register) {
	if r >= RegisterCount {
		panic(fmt.Sprintf("register index %d out of range", uint8(r)))
	}
}

// Get returns the value of register r. An index outside R0-COND panics.
func (regs *Registers) Get(r Register) Word {
	regs.check(r)
	return regs.reg[r]
}

// Set overwrites register r. An index outside R0-COND panics.
func (regs *Registers) Set(r Register, value Word) {
	regs.check(r)
	regs.reg[r] = value
}

// Cond returns the current condition flag.
func (regs *Registers) Cond() Flag {
	return Flag(regs.reg[COND])
}

// UpdateFlags sets COND from the sign of general register r.
func (regs *Registers) UpdateFlags(r Register) {
	if r > R7 {
		panic(fmt.Sprintf("register %v is not a general purpose register", r))
	}

	value := regs.reg[r]
	switch {
	case value == 0:
		regs.reg[COND] = Word(FLAG_ZRO)
	case value>>15 != 0:
		regs.reg[COND] = Word(FLAG_NEG)
	default:
		regs.reg[COND] = Word(FLAG_POS)
	}
}

// IncrementPC adds a sign-extended offset to PC, wrapping modulo 65536.
func (regs *Registers) IncrementPC(delta Word) {
	regs.reg[PC] += delta
}
