package vm

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// delayedKeyboard becomes ready after a number of polls.
type delayedKeyboard struct {
	delay int
	key   byte
}

func (kb *delayedKeyboard) Ready() bool {
	if kb.delay > 0 {
		kb.delay--
		return false
	}
	return true
}

func (kb *delayedKeyboard) ReadKey() (byte, error) {
	return kb.key, nil
}

func programImage(origin Word, program ...Word) []byte {
	out := []byte{byte(origin >> 8), byte(origin)}
	for _, w := range program {
		out = append(out, byte(w>>8), byte(w))
	}
	return out
}

func TestVMHelloWorld(t *testing.T) {
	assert := assert.New(t)

	var console bytes.Buffer
	vm := NewVM(nil, &console)
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0xE002, // LEA R0, #2
		0xF022, // PUTS
		0xF025, // HALT
		'H', 'I', 0,
	)))

	assert.Equal(Running, vm.State())
	require.NoError(t, vm.Run())
	assert.Equal(Halted, vm.State())
	assert.Equal("HIHALT\n", console.String())
	assert.Equal(3, vm.Steps())
}

func TestVMCountdown(t *testing.T) {
	assert := assert.New(t)

	vm := NewVM(nil, io.Discard)
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0x5260, // AND R1, R1, #0
		0x1263, // ADD R1, R1, #3
		0x127F, // ADD R1, R1, #-1
		0x03FE, // BRp #-2
		0xF025, // HALT
	)))

	require.NoError(t, vm.Run())
	assert.Equal(Word(0), vm.CPU.Registers.Get(R1))
	assert.Equal(FLAG_ZRO, vm.CPU.Registers.Cond())
	assert.Equal(Word(0x3005), vm.CPU.Registers.Get(PC))
	assert.Equal(9, vm.Steps())
}

func TestVMSubroutine(t *testing.T) {
	assert := assert.New(t)

	vm := NewVM(nil, io.Discard)
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0x4802, // JSR #2
		0x1021, // ADD R0, R0, #1
		0xF025, // HALT
		0x1025, // ADD R0, R0, #5
		0xC1C0, // RET
	)))

	require.NoError(t, vm.Run())
	assert.Equal(Word(6), vm.CPU.Registers.Get(R0))
	assert.Equal(Word(0x3001), vm.CPU.Registers.Get(R7))
}

func TestVMKeyboardPolling(t *testing.T) {
	assert := assert.New(t)

	var console bytes.Buffer
	kb := &delayedKeyboard{delay: 3, key: 'z'}
	vm := NewVM(kb, &console)
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0xA004, // LDI R0, #4 (KBSR)
		0x07FE, // BRzp #-2
		0xA003, // LDI R0, #3 (KBDR)
		0xF021, // OUT
		0xF025, // HALT
		KBSR,
		KBDR,
	)))

	require.NoError(t, vm.Run())
	assert.Equal("zHALT\n", console.String())
	assert.Equal(Word('z'), vm.CPU.Registers.Get(R0))
	assert.Equal(3*2+5, vm.Steps())
}

func TestVMHaltIsTerminal(t *testing.T) {
	assert := assert.New(t)

	var console bytes.Buffer
	vm := NewVM(nil, &console)
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0xF025, // HALT
		0x1021, // ADD R0, R0, #1
	)))

	halted, err := vm.Step()
	require.NoError(t, err)
	assert.True(halted)

	regs := vm.CPU.Registers
	halted, err = vm.Step()
	assert.True(halted)
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(regs, vm.CPU.Registers)
	assert.Equal(1, vm.Steps())
	assert.Equal("HALT\n", console.String())
}

func TestVMFault(t *testing.T) {
	assert := assert.New(t)

	vm := NewVM(nil, io.Discard)
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0x1021, // ADD R0, R0, #1
		0xD000, // RES
	)))

	err := vm.Run()
	assert.ErrorIs(err, ErrOpcodeReserved)
	assert.Contains(err.Error(), "0x3001")
	assert.Contains(err.Error(), "RES")
	assert.Equal(Faulted, vm.State())
	assert.Equal(err, vm.Err())
}

func TestVMFaultIsTerminal(t *testing.T) {
	assert := assert.New(t)

	vm := NewVM(nil, io.Discard)
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0xD000, // RES
		0x1021, // ADD R0, R0, #1
	)))

	halted, first := vm.Step()
	assert.False(halted)
	assert.ErrorIs(first, ErrOpcodeReserved)

	regs := vm.CPU.Registers
	halted, err := vm.Step()
	assert.False(halted)
	assert.Same(first, err)
	assert.Equal(regs, vm.CPU.Registers)
	assert.Equal(Word(0), vm.CPU.Registers.Get(R0))
	assert.Equal(Word(0x1021), vm.Memory.Read(0x3001))
	assert.Equal(1, vm.Steps())
	assert.Equal(Faulted, vm.State())

	assert.Same(first, vm.Run())
}

func TestVMHaltConsoleFailure(t *testing.T) {
	assert := assert.New(t)

	vm := NewVM(nil, failingWriter{})
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0xF025, // HALT
	)))

	halted, err := vm.Step()
	assert.True(halted)
	assert.ErrorIs(err, ErrConsole)
	assert.True(vm.CPU.Halted())
	assert.Equal(Faulted, vm.State())
}

func TestVMVerbose(t *testing.T) {
	assert := assert.New(t)

	var trace bytes.Buffer
	log.SetOutput(&trace)
	defer log.SetOutput(io.Discard)

	vm := NewVM(nil, io.Discard)
	vm.Verbose = true
	require.NoError(t, vm.LoadImage(programImage(0x3000,
		0x1261, // ADD R1, R1, #1
		0xF025, // HALT
	)))
	require.NoError(t, vm.Run())

	assert.Contains(trace.String(), "image: origin=0x3000 words=2")
	assert.Contains(trace.String(), "0x3001 ADD: dr=R1 sr1=R1 imm5=0x0001")
	assert.Contains(trace.String(), "0x3002 TRAP: HALT")
	assert.Contains(trace.String(), "halted after 2 instructions")
}

func init() {
	log.SetOutput(io.Discard)
}
