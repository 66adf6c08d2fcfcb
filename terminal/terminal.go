// Package terminal switches the host terminal in and out of raw mode so
// that keys reach the machine one at a time and unechoed.
package terminal

import (
	"log"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type Terminal struct {
	fd                     uintptr
	originalTerminalConfig unix.Termios
	raw                    bool
}

// EnableRawMode turns off canonical input and echo on f. If f is not a
// terminal nothing is changed and the returned Terminal is a no-op.
func EnableRawMode(f *os.File) (*Terminal, error) {
	t := &Terminal{fd: f.Fd()}
	if !term.IsTerminal(int(t.fd)) {
		return t, nil
	}

	log.Printf("enabling raw mode...")
	if err := termios.Tcgetattr(t.fd, &t.originalTerminalConfig); err != nil {
		return nil, err
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(t.fd, termios.TCSANOW, &newTermios); err != nil {
		return nil, err
	}

	t.raw = true
	return t, nil
}

// Raw reports whether raw mode is in effect.
func (t *Terminal) Raw() bool {
	return t.raw
}

// Restore puts the terminal back the way EnableRawMode found it. It is safe
// to call more than once.
func (t *Terminal) Restore() error {
	if !t.raw {
		return nil
	}

	log.Printf("disabling raw mode...")
	if err := termios.Tcsetattr(t.fd, termios.TCSANOW, &t.originalTerminalConfig); err != nil {
		return err
	}
	t.raw = false
	return nil
}
