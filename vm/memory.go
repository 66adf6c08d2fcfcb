package vm

const MemorySize = 1 << 16

const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// memory mapped register addresses
const (
	KBSR Word = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR Word = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

// KBSR_READY is set in KBSR while KBDR holds an unread key.
const KBSR_READY Word = 1 << 15

// Memory is the machine's 64K words of RAM with the keyboard registers
// mapped at KBSR and KBDR.
type Memory struct {
	ram      [MemorySize]Word
	keyboard Keyboard
}

// NewMemory returns zeroed memory polling keyboard through KBSR.
// A nil keyboard never has a key ready.
func NewMemory(keyboard Keyboard) *Memory {
	return &Memory{keyboard: keyboard}
}

// Read returns the word at addr. Reading KBSR polls the keyboard first: a
// ready key is latched into KBDR and sets KBSR_READY, otherwise KBSR is
// cleared.
func (mem *Memory) Read(addr Word) Word {
	if addr == KBSR {
		mem.pollKeyboard()
	}
	return mem.ram[addr]
}

func (mem *Memory) pollKeyboard() {
	if mem.keyboard != nil && mem.keyboard.Ready() {
		key, err := mem.keyboard.ReadKey()
		if err == nil {
			mem.ram[KBSR] = KBSR_READY
			mem.ram[KBDR] = Word(key)
			return
		}
	}
	mem.ram[KBSR] = 0
}

// Write stores value at addr. The mapped registers are plain storage for
// writes.
func (mem *Memory) Write(addr, value Word) {
	mem.ram[addr] = value
}

// load copies words into memory starting at origin. The caller has already
// checked that they fit.
func (mem *Memory) load(origin Word, words []Word) {
	copy(mem.ram[origin:], words)
}
