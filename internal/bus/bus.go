// Package bus implements the CPU-visible 16-bit address space: 2KB of work
// RAM mirrored across the bottom 8KB, and cartridge PRG ROM mapped into the
// top 32KB.
package bus

import "nescore/internal/cartridge"

const (
	ramSize = 0x0800
	ramEnd  = 0x1FFF
	ramMask = 0x07FF

	prgStart = 0x8000
)

// Bus routes every CPU read and write to exactly one backing region. Both
// operations are infallible: unmapped addresses read as 0 and swallow
// writes, matching what real hardware does with nothing on the bus.
type Bus struct {
	ram  [ramSize]uint8
	cart *cartridge.Cartridge
	prg  []uint8
}

// New creates a bus over the given cartridge. The PRG image is captured at
// construction; the cartridge is never written back to.
func New(cart *cartridge.Cartridge) *Bus {
	return &Bus{
		cart: cart,
		prg:  cart.PRG(),
	}
}

// Read returns the byte at the given address.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= ramEnd:
		return b.ram[address&ramMask]
	case address >= prgStart:
		// A single 16KB bank mirrors across the 32KB window (mapper 0).
		return b.prg[int(address-prgStart)%len(b.prg)]
	default:
		// I/O register space is out of scope for this core.
		return 0
	}
}

// Write stores a byte at the given address. Writes into the ROM window and
// unmapped space are discarded.
func (b *Bus) Write(address uint16, value uint8) {
	if address <= ramEnd {
		b.ram[address&ramMask] = value
	}
}

// Read16 reads a little-endian word. Used for the reset vector and by
// callers inspecting pointers in RAM.
func (b *Bus) Read16(address uint16) uint16 {
	lo := uint16(b.Read(address))
	hi := uint16(b.Read(address + 1))
	return hi<<8 | lo
}

// Cartridge returns the cartridge this bus was built over.
func (b *Bus) Cartridge() *cartridge.Cartridge {
	return b.cart
}
