package vm

import (
	"io"
)

// Keyboard is the console input device.
//
// Ready never blocks. ReadKey blocks until a key is available, and only
// fails once the device can never produce another key.
type Keyboard interface {
	Ready() bool
	ReadKey() (byte, error)
}

// StreamKeyboard turns a byte stream, usually stdin, into a Keyboard.
type StreamKeyboard struct {
	keyBuffer chan byte
}

// NewStreamKeyboard starts reading r in the background. The goroutine exits
// when r returns an error.
func NewStreamKeyboard(r io.Reader) *StreamKeyboard {
	kb := &StreamKeyboard{
		keyBuffer: make(chan byte, 1),
	}
	go kb.pollKeyboard(r)
	return kb
}

func (kb *StreamKeyboard) pollKeyboard(r io.Reader) {
	defer close(kb.keyBuffer)

	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			// Terminals send CR for Enter.
			if b == '\r' {
				b = '\n'
			}
			kb.keyBuffer <- b
		}
		if err != nil {
			return
		}
	}
}

// Ready reports whether a key has been buffered.
func (kb *StreamKeyboard) Ready() bool {
	return len(kb.keyBuffer) > 0
}

// ReadKey waits for the next key. It returns io.EOF once the stream is
// exhausted.
func (kb *StreamKeyboard) ReadKey() (byte, error) {
	b, ok := <-kb.keyBuffer
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}
