// Package vm implements an LC-3 virtual machine: registers, memory with a
// mapped keyboard, the instruction set and the console traps.
package vm

import (
	"io"
	"log"
)

// State of the execution loop.
type State int

const (
	Running State = iota
	Halted
	Faulted
)

func (st State) String() string {
	switch st {
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return "running"
}

// VM owns one memory and one CPU for a single run.
type VM struct {
	Verbose bool // If set, enables instruction tracing.
	Memory  *Memory
	CPU     *CPU

	steps int
	fault error
}

// NewVM creates a machine with the keyboard mapped at KBSR/KBDR and trap
// output going to console. PC starts at UserSpaceStart until an image is
// loaded.
func NewVM(keyboard Keyboard, console io.Writer) *VM {
	mem := NewMemory(keyboard)
	cpu := NewCPU(mem, keyboard, console)
	cpu.Registers.Set(PC, UserSpaceStart)

	return &VM{
		Memory: mem,
		CPU:    cpu,
	}
}

// State returns Halted once a HALT trap has executed and Faulted once an
// instruction has faulted. Both are terminal.
func (vm *VM) State() State {
	if vm.fault != nil {
		return Faulted
	}
	if vm.CPU.Halted() {
		return Halted
	}
	return Running
}

// Steps returns the number of instructions executed.
func (vm *VM) Steps() int {
	return vm.steps
}

// Err returns the fault that ended the run, if any.
func (vm *VM) Err() error {
	return vm.fault
}

// Step fetches, decodes and executes the instruction at PC. After a fault
// every call returns that fault without touching the machine.
func (vm *VM) Step() (halted bool, err error) {
	cpu := vm.CPU
	if vm.fault != nil {
		return cpu.Halted(), vm.fault
	}
	if cpu.Halted() {
		return true, ErrHalted
	}
	cpu.Verbose = vm.Verbose

	pc := cpu.Registers.Get(PC)
	in := Instruction(vm.Memory.Read(pc))
	cpu.Registers.Set(PC, pc+1)

	vm.steps++

	err = cpu.Execute(in)
	halted = cpu.Halted()
	if err != nil {
		vm.fault = &ErrFault{PC: pc, Instruction: Word(in), Err: err}
		err = vm.fault
		return
	}

	if halted && vm.Verbose {
		log.Printf("halted after %d instructions", vm.steps)
	}
	return
}

// Run steps until HALT or a fault.
func (vm *VM) Run() error {
	for {
		halted, err := vm.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}
