package vm

import (
	"errors"
	"strconv"

	"github.com/aryanA101a/lulu/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageShort    = errors.New(f("image too short"))
	ErrImageOdd      = errors.New(f("image has an odd number of bytes"))
	ErrImageOverflow = errors.New(f("image overflows memory"))

	// Execution faults
	ErrOpcodeReserved = errors.New(f("reserved opcode"))
	ErrTrapVector     = errors.New(f("unknown trap vector"))
	ErrKeyboard       = errors.New(f("keyboard closed"))
	ErrConsole        = errors.New(f("console write failed"))
	ErrHalted         = errors.New(f("machine halted"))
)

// ErrImage reports a program image that could not be installed.
type ErrImage struct {
	Origin Word
	Words  int
	Err    error
}

func (err *ErrImage) Error() string {
	// Counts are formatted outside the printer so they are never digit grouped.
	return f("image origin 0x%04x (%s words): %v", uint16(err.Origin), strconv.Itoa(err.Words), err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}

// ErrFault reports a fatal execution fault and where it happened.
// PC is the address the faulting instruction was fetched from.
type ErrFault struct {
	PC          Word
	Instruction Word
	Err         error
}

func (err *ErrFault) Error() string {
	return f("fault at 0x%04x (0x%04x %v): %v", uint16(err.PC), uint16(err.Instruction),
		Instruction(err.Instruction).Opcode(), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
