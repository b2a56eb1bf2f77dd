// Package cartridge implements parsing of iNES ROM images.
package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	// PRGBankSize is the unit size of program ROM banks.
	PRGBankSize = 16384
	// CHRBankSize is the unit size of character ROM banks.
	CHRBankSize = 8192

	trainerSize = 512
)

// inesMagic is the 4-byte signature at the start of every iNES image.
var inesMagic = [4]uint8{'N', 'E', 'S', 0x1A}

// FormatError reports a malformed iNES container. It is permanent: a buffer
// that fails to parse will never parse on retry.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "cartridge: invalid iNES image: " + e.Reason
}

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// MirrorMode is the nametable mirroring arrangement declared by the header.
// The CPU core does not consume it; it is parsed here and passed through to
// whatever renders the character data.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorFourScreen
)

func (m MirrorMode) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorFourScreen:
		return "four-screen"
	}
	return fmt.Sprintf("MirrorMode(%d)", uint8(m))
}

// header is the fixed 16-byte iNES file header.
type header struct {
	Magic      [4]uint8
	PRGBanks   uint8 // 16KB units
	CHRBanks   uint8 // 8KB units
	Flags6     uint8 // mapper low nibble, mirroring, battery, trainer
	Flags7     uint8 // mapper high nibble, container version
	PRGRAMSize uint8
	TVSystem1  uint8
	TVSystem2  uint8
	Padding    [5]uint8
}

// Cartridge is a parsed, immutable ROM image.
type Cartridge struct {
	prg        []uint8
	chr        []uint8
	mapper     uint8
	mirror     MirrorMode
	hasBattery bool
	hasCHRRAM  bool
}

// Load parses a cartridge from a raw iNES byte buffer.
func Load(data []byte) (*Cartridge, error) {
	return LoadFromReader(bytes.NewReader(data))
}

// LoadFromFile parses a cartridge from an iNES file on disk.
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader parses a cartridge from an io.Reader positioned at the
// start of an iNES image.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, formatErrorf("short header: %v", err)
	}

	if h.Magic != inesMagic {
		return nil, formatErrorf("bad magic %q", h.Magic[:])
	}

	// NES 2.0 uses the same magic but a different layout past byte 7.
	if (h.Flags7>>2)&0x03 == 2 {
		return nil, formatErrorf("NES 2.0 images are not supported")
	}

	if h.PRGBanks == 0 {
		return nil, formatErrorf("zero PRG ROM banks")
	}

	cart := &Cartridge{
		mapper:     (h.Flags6 >> 4) | (h.Flags7 & 0xF0),
		hasBattery: h.Flags6&0x02 != 0,
	}

	switch {
	case h.Flags6&0x08 != 0:
		cart.mirror = MirrorFourScreen
	case h.Flags6&0x01 != 0:
		cart.mirror = MirrorVertical
	default:
		cart.mirror = MirrorHorizontal
	}

	// A trainer, if present, sits between the header and the PRG banks.
	if h.Flags6&0x04 != 0 {
		if _, err := io.CopyN(io.Discard, r, trainerSize); err != nil {
			return nil, formatErrorf("short trainer: %v", err)
		}
	}

	cart.prg = make([]uint8, int(h.PRGBanks)*PRGBankSize)
	if _, err := io.ReadFull(r, cart.prg); err != nil {
		return nil, formatErrorf("PRG ROM truncated: declared %d banks: %v", h.PRGBanks, err)
	}

	if h.CHRBanks > 0 {
		cart.chr = make([]uint8, int(h.CHRBanks)*CHRBankSize)
		if _, err := io.ReadFull(r, cart.chr); err != nil {
			return nil, formatErrorf("CHR ROM truncated: declared %d banks: %v", h.CHRBanks, err)
		}
	} else {
		// No CHR banks means the board carries 8KB of CHR RAM instead.
		cart.chr = make([]uint8, CHRBankSize)
		cart.hasCHRRAM = true
	}

	return cart, nil
}

// PRG returns a copy of the program ROM bytes.
func (c *Cartridge) PRG() []uint8 {
	prg := make([]uint8, len(c.prg))
	copy(prg, c.prg)
	return prg
}

// CHR returns a copy of the character ROM bytes. The CPU core treats this
// data as opaque.
func (c *Cartridge) CHR() []uint8 {
	chr := make([]uint8, len(c.chr))
	copy(chr, c.chr)
	return chr
}

// PRGSize returns the program ROM size in bytes.
func (c *Cartridge) PRGSize() int {
	return len(c.prg)
}

// Mapper returns the mapper identifier assembled from both header nibbles.
func (c *Cartridge) Mapper() uint8 {
	return c.mapper
}

// Mirroring returns the declared nametable mirroring mode.
func (c *Cartridge) Mirroring() MirrorMode {
	return c.mirror
}

// HasBattery reports whether the header declares battery-backed RAM.
func (c *Cartridge) HasBattery() bool {
	return c.hasBattery
}

// HasCHRRAM reports whether the board uses CHR RAM in place of CHR ROM.
func (c *Cartridge) HasCHRRAM() bool {
	return c.hasCHRRAM
}
