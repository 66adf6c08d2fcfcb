package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
)

// ReadImage decodes a program image: a big-endian origin word followed by
// big-endian program words to be placed contiguously from the origin.
func ReadImage(image []byte) (origin Word, words []Word, err error) {
	if len(image) < 2 {
		err = &ErrImage{Err: ErrImageShort}
		return
	}

	origin = Word(binary.BigEndian.Uint16(image))
	payload := image[2:]

	if len(payload)%2 != 0 {
		err = &ErrImage{Origin: origin, Words: len(payload) / 2, Err: ErrImageOdd}
		return
	}

	count := len(payload) / 2
	if int(origin)+count > MemorySize {
		err = &ErrImage{Origin: origin, Words: count, Err: ErrImageOverflow}
		return
	}

	words = make([]Word, count)
	for i := range words {
		words[i] = Word(binary.BigEndian.Uint16(payload[2*i:]))
	}

	return
}

// LoadImage installs a program image into memory and points PC at its
// origin. Nothing is written if the image is malformed.
func (vm *VM) LoadImage(image []byte) error {
	origin, words, err := ReadImage(image)
	if err != nil {
		return err
	}

	if vm.Verbose {
		log.Printf("image: origin=0x%04x words=%d size=%0.2f KB", uint16(origin), len(words), float32(len(image))/1024)
	}

	vm.Memory.load(origin, words)
	vm.CPU.Registers.Set(PC, origin)
	return nil
}

// LoadImageFrom reads an entire image from r and loads it.
func (vm *VM) LoadImageFrom(r io.Reader) error {
	image, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return vm.LoadImage(image)
}

// LoadImageFile loads the image stored at path.
func (vm *VM) LoadImageFile(path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := vm.LoadImage(image); err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}
	return nil
}
