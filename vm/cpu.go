package vm

import (
	"io"
	"log"
)

// CPU executes instructions against a register file and memory.
type CPU struct {
	Verbose   bool // If set, every executed instruction is logged.
	Registers Registers
	Memory    *Memory

	keyboard Keyboard
	console  io.Writer
	halted   bool
}

// NewCPU returns a CPU with reset registers. GETC and IN block on keyboard;
// console receives trap output.
func NewCPU(memory *Memory, keyboard Keyboard, console io.Writer) *CPU {
	return &CPU{
		Registers: NewRegisters(),
		Memory:    memory,
		keyboard:  keyboard,
		console:   console,
	}
}

// Halted reports whether a HALT trap has executed.
func (cpu *CPU) Halted() bool {
	return cpu.halted
}

func (cpu *CPU) tracef(format string, args ...any) {
	if cpu.Verbose {
		args = append([]any{uint16(cpu.Registers.Get(PC))}, args...)
		log.Printf("0x%04x "+format, args...)
	}
}

// Execute runs one already fetched instruction. PC must already point past
// it.
func (cpu *CPU) Execute(in Instruction) error {
	switch in.Opcode() {
	case OP_ADD:
		cpu.add(in)
	case OP_AND:
		cpu.and(in)
	case OP_NOT:
		cpu.not(in)
	case OP_BR:
		cpu.br(in)
	case OP_JMP:
		cpu.jmp(in)
	case OP_JSR:
		cpu.jsr(in)
	case OP_LD:
		cpu.ld(in)
	case OP_LDI:
		cpu.ldi(in)
	case OP_LDR:
		cpu.ldr(in)
	case OP_LEA:
		cpu.lea(in)
	case OP_ST:
		cpu.st(in)
	case OP_STI:
		cpu.sti(in)
	case OP_STR:
		cpu.str(in)
	case OP_TRAP:
		return cpu.trap(in.TrapVector())
	case OP_RTI, OP_RES:
		cpu.tracef("%v: reserved opcode", in.Opcode())
		return ErrOpcodeReserved
	}
	return nil
}

func (cpu *CPU) add(in Instruction) {
	regs := &cpu.Registers
	dr, sr1 := in.DR(), in.SR1()

	if in.Immediate() {
		imm5 := in.Imm5()
		cpu.tracef("ADD: dr=%v sr1=%v imm5=0x%04x", dr, sr1, uint16(imm5))
		regs.Set(dr, regs.Get(sr1)+imm5)
	} else {
		sr2 := in.SR2()
		cpu.tracef("ADD: dr=%v sr1=%v sr2=%v", dr, sr1, sr2)
		regs.Set(dr, regs.Get(sr1)+regs.Get(sr2))
	}

	regs.UpdateFlags(dr)
}

func (cpu *CPU) and(in Instruction) {
	regs := &cpu.Registers
	dr, sr1 := in.DR(), in.SR1()

	if in.Immediate() {
		imm5 := in.Imm5()
		cpu.tracef("AND: dr=%v sr1=%v imm5=0x%04x", dr, sr1, uint16(imm5))
		regs.Set(dr, regs.Get(sr1)&imm5)
	} else {
		sr2 := in.SR2()
		cpu.tracef("AND: dr=%v sr1=%v sr2=%v", dr, sr1, sr2)
		regs.Set(dr, regs.Get(sr1)&regs.Get(sr2))
	}

	regs.UpdateFlags(dr)
}

func (cpu *CPU) not(in Instruction) {
	regs := &cpu.Registers
	dr, sr := in.DR(), in.SR1()

	cpu.tracef("NOT: dr=%v sr=%v", dr, sr)

	regs.Set(dr, ^regs.Get(sr))
	regs.UpdateFlags(dr)
}

func (cpu *CPU) br(in Instruction) {
	regs := &cpu.Registers
	nzp := in.NZP()

	cpu.tracef("BR: nzp=%03b pcoffset9=0x%04x", Word(nzp), uint16(in.Offset9()))

	if nzp&regs.Cond() != 0 {
		regs.IncrementPC(in.Offset9())
	}
}

// jmp is also RET when the base register is R7.
func (cpu *CPU) jmp(in Instruction) {
	regs := &cpu.Registers
	br := in.SR1()

	cpu.tracef("JMP: br=%v", br)

	regs.Set(PC, regs.Get(br))
}

func (cpu *CPU) jsr(in Instruction) {
	regs := &cpu.Registers
	// JSRR R7 jumps to the old R7.
	target := regs.Get(in.SR1())

	regs.Set(R7, regs.Get(PC))

	if in.Long() {
		cpu.tracef("JSR: pcoffset11=0x%04x", uint16(in.Offset11()))
		regs.IncrementPC(in.Offset11())
	} else {
		cpu.tracef("JSRR: br=%v", in.SR1())
		regs.Set(PC, target)
	}
}

func (cpu *CPU) ld(in Instruction) {
	regs := &cpu.Registers
	dr := in.DR()

	cpu.tracef("LD: dr=%v pcoffset9=0x%04x", dr, uint16(in.Offset9()))

	regs.Set(dr, cpu.Memory.Read(regs.Get(PC)+in.Offset9()))
	regs.UpdateFlags(dr)
}

func (cpu *CPU) ldi(in Instruction) {
	regs := &cpu.Registers
	dr := in.DR()

	cpu.tracef("LDI: dr=%v pcoffset9=0x%04x", dr, uint16(in.Offset9()))

	regs.Set(dr, cpu.Memory.Read(cpu.Memory.Read(regs.Get(PC)+in.Offset9())))
	regs.UpdateFlags(dr)
}

func (cpu *CPU) ldr(in Instruction) {
	regs := &cpu.Registers
	dr, br := in.DR(), in.SR1()

	cpu.tracef("LDR: dr=%v br=%v offset6=0x%04x", dr, br, uint16(in.Offset6()))

	regs.Set(dr, cpu.Memory.Read(regs.Get(br)+in.Offset6()))
	regs.UpdateFlags(dr)
}

func (cpu *CPU) lea(in Instruction) {
	regs := &cpu.Registers
	dr := in.DR()

	cpu.tracef("LEA: dr=%v pcoffset9=0x%04x", dr, uint16(in.Offset9()))

	regs.Set(dr, regs.Get(PC)+in.Offset9())
	regs.UpdateFlags(dr)
}

func (cpu *CPU) st(in Instruction) {
	regs := &cpu.Registers
	sr := in.DR()

	cpu.tracef("ST: sr=%v pcoffset9=0x%04x", sr, uint16(in.Offset9()))

	cpu.Memory.Write(regs.Get(PC)+in.Offset9(), regs.Get(sr))
}

func (cpu *CPU) sti(in Instruction) {
	regs := &cpu.Registers
	sr := in.DR()

	cpu.tracef("STI: sr=%v pcoffset9=0x%04x", sr, uint16(in.Offset9()))

	cpu.Memory.Write(cpu.Memory.Read(regs.Get(PC)+in.Offset9()), regs.Get(sr))
}

func (cpu *CPU) str(in Instruction) {
	regs := &cpu.Registers
	sr, br := in.DR(), in.SR1()

	cpu.tracef("STR: sr=%v br=%v offset6=0x%04x", sr, br, uint16(in.Offset6()))

	cpu.Memory.Write(regs.Get(br)+in.Offset6(), regs.Get(sr))
}
