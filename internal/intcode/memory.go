package intcode

// maxCells limits the memory size a program can grow to.
const maxCells = 1 << 26

// Memory is the flat, growable memory of a machine. Every access beyond the
// current length grows the memory with zero cells up to and including the
// accessed address.
type Memory struct {
	cells []int64
}

// NewMemory returns a memory initialized with a copy of the given cells.
func NewMemory(cells []int64) Memory {
	c := make([]int64, len(cells))
	copy(c, cells)
	return Memory{cells: c}
}

// Len returns the current number of cells.
func (mem *Memory) Len() int {
	return len(mem.cells)
}

// Cells returns a copy of all cells.
func (mem *Memory) Cells() []int64 {
	c := make([]int64, len(mem.cells))
	copy(c, mem.cells)
	return c
}

// grow extends the memory with zero cells so that addr is a valid index.
func (mem *Memory) grow(addr int) error {
	if addr < 0 {
		return ErrNegativeAddress
	}
	if addr >= maxCells {
		return ErrAddressOutOfRange
	}
	if addr < len(mem.cells) {
		return nil
	}

	size := addr + 1
	if size <= cap(mem.cells) {
		mem.cells = mem.cells[:size]
		return nil
	}

	cells := make([]int64, size, min(max(size, 2*cap(mem.cells)), maxCells))
	copy(cells, mem.cells)
	mem.cells = cells
	return nil
}

func (mem *Memory) read(addr int) (int64, error) {
	if err := mem.grow(addr); err != nil {
		return 0, err
	}
	return mem.cells[addr], nil
}

func (mem *Memory) write(addr int, value int64) error {
	if err := mem.grow(addr); err != nil {
		return err
	}
	mem.cells[addr] = value
	return nil
}

func (mem Memory) clone() Memory {
	return NewMemory(mem.cells)
}
