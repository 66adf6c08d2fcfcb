package vm

import "fmt"

// Trap is a TRAP instruction's 8-bit vector.
type Trap Word

const (
	TRAP_GETC  Trap = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TRAP_OUT   Trap = 0x21 /* output a character */
	TRAP_PUTS  Trap = 0x22 /* output a word string */
	TRAP_IN    Trap = 0x23 /* get character from keyboard, echoed onto the terminal */
	TRAP_PUTSP Trap = 0x24 /* output a byte string */
	TRAP_HALT  Trap = 0x25 /* halt the program */
)

const (
	inPrompt    = "Enter a character: "
	haltMessage = "HALT\n"
)

func (tr Trap) String() string {
	switch tr {
	case TRAP_GETC:
		return "GETC"
	case TRAP_OUT:
		return "OUT"
	case TRAP_PUTS:
		return "PUTS"
	case TRAP_IN:
		return "IN"
	case TRAP_PUTSP:
		return "PUTSP"
	case TRAP_HALT:
		return "HALT"
	}
	return fmt.Sprintf("Trap(0x%02x)", Word(tr))
}

func (cpu *CPU) trap(vector Trap) (err error) {
	cpu.tracef("TRAP: %v", vector)

	switch vector {
	case TRAP_GETC:
		err = cpu.getc(false)
	case TRAP_OUT:
		err = cpu.putc(byte(cpu.Registers.Get(R0)))
	case TRAP_PUTS:
		err = cpu.puts()
	case TRAP_IN:
		err = cpu.getc(true)
	case TRAP_PUTSP:
		err = cpu.putsp()
	case TRAP_HALT:
		err = cpu.write([]byte(haltMessage))
		cpu.halted = true
	default:
		err = ErrTrapVector
	}

	return
}

func (cpu *CPU) write(p []byte) error {
	if cpu.console == nil {
		return nil
	}
	if _, err := cpu.console.Write(p); err != nil {
		return fmt.Errorf("%w: %w", ErrConsole, err)
	}
	return nil
}

func (cpu *CPU) putc(c byte) error {
	return cpu.write([]byte{c})
}

// getc blocks for a key and loads it into R0.
func (cpu *CPU) getc(echo bool) error {
	if echo {
		if err := cpu.write([]byte(inPrompt)); err != nil {
			return err
		}
	}

	if cpu.keyboard == nil {
		return ErrKeyboard
	}
	c, err := cpu.keyboard.ReadKey()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyboard, err)
	}

	if echo {
		if err := cpu.putc(c); err != nil {
			return err
		}
	}

	cpu.Registers.Set(R0, Word(c))
	cpu.Registers.UpdateFlags(R0)
	return nil
}

// puts writes one character per word from R0 up to a zero word.
func (cpu *CPU) puts() error {
	for addr := cpu.Registers.Get(R0); ; addr++ {
		c := cpu.Memory.Read(addr)
		if c == 0 {
			return nil
		}
		if err := cpu.putc(byte(c)); err != nil {
			return err
		}
	}
}

// putsp writes two characters per word, low byte first, up to a zero byte.
func (cpu *CPU) putsp() error {
	for addr := cpu.Registers.Get(R0); ; addr++ {
		w := cpu.Memory.Read(addr)
		for _, c := range []byte{byte(w), byte(w >> 8)} {
			if c == 0 {
				return nil
			}
			if err := cpu.putc(c); err != nil {
				return err
			}
		}
	}
}
