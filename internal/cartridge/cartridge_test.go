package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// romImage assembles an iNES byte buffer for tests.
type romImage struct {
	prgBanks uint8
	chrBanks uint8
	flags6   uint8
	flags7   uint8
	trainer  []byte
	prgFill  uint8
	chrFill  uint8
	truncate int // bytes to cut from the end
}

func (r romImage) build() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{'N', 'E', 'S', 0x1A})
	buf.WriteByte(r.prgBanks)
	buf.WriteByte(r.chrBanks)
	buf.WriteByte(r.flags6)
	buf.WriteByte(r.flags7)
	buf.Write(make([]byte, 8)) // bytes 8..15

	buf.Write(r.trainer)
	buf.Write(bytes.Repeat([]byte{r.prgFill}, int(r.prgBanks)*PRGBankSize))
	buf.Write(bytes.Repeat([]byte{r.chrFill}, int(r.chrBanks)*CHRBankSize))

	data := buf.Bytes()
	return data[:len(data)-r.truncate]
}

func TestLoadParsesBankSizes(t *testing.T) {
	cart, err := Load(romImage{prgBanks: 2, chrBanks: 1, prgFill: 0xAA, chrFill: 0xBB}.build())
	require.NoError(t, err)

	assert.Equal(t, 2*PRGBankSize, cart.PRGSize())
	assert.Len(t, cart.CHR(), CHRBankSize)
	assert.Equal(t, uint8(0xAA), cart.PRG()[0])
	assert.Equal(t, uint8(0xBB), cart.CHR()[0])
	assert.False(t, cart.HasCHRRAM())
}

func TestLoadPreservesPRGContent(t *testing.T) {
	image := romImage{prgBanks: 1, chrBanks: 1}.build()
	// Stamp recognizable bytes into the PRG region (after the header).
	image[16] = 0x01
	image[16+PRGBankSize-1] = 0xFF

	cart, err := Load(image)
	require.NoError(t, err)

	prg := cart.PRG()
	assert.Equal(t, uint8(0x01), prg[0])
	assert.Equal(t, uint8(0xFF), prg[PRGBankSize-1])
}

func TestLoadRejectsBadMagic(t *testing.T) {
	image := romImage{prgBanks: 1, chrBanks: 1}.build()
	image[0] = 'X'

	_, err := Load(image)

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Reason, "magic")
}

func TestLoadRejectsNES2(t *testing.T) {
	_, err := Load(romImage{prgBanks: 1, chrBanks: 1, flags7: 0x08}.build())

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Reason, "NES 2.0")
}

func TestLoadRejectsZeroPRGBanks(t *testing.T) {
	_, err := Load(romImage{prgBanks: 0, chrBanks: 1}.build())

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestLoadRejectsShortHeader(t *testing.T) {
	_, err := Load([]byte{'N', 'E', 'S', 0x1A, 1})

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestLoadRejectsTruncatedPRG(t *testing.T) {
	_, err := Load(romImage{prgBanks: 2, chrBanks: 0, truncate: 100}.build())

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Reason, "PRG")
}

func TestLoadRejectsTruncatedCHR(t *testing.T) {
	_, err := Load(romImage{prgBanks: 1, chrBanks: 1, truncate: 100}.build())

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Reason, "CHR")
}

func TestLoadSkipsTrainer(t *testing.T) {
	trainer := bytes.Repeat([]byte{0xEE}, 512)
	cart, err := Load(romImage{prgBanks: 1, chrBanks: 1, flags6: 0x04, trainer: trainer, prgFill: 0x42}.build())
	require.NoError(t, err)

	// The PRG region must start after the trainer, not inside it.
	assert.Equal(t, uint8(0x42), cart.PRG()[0])
}

func TestLoadAssemblesMapperFromBothNibbles(t *testing.T) {
	tests := []struct {
		name   string
		flags6 uint8
		flags7 uint8
		want   uint8
	}{
		{"mapper 0", 0x00, 0x00, 0},
		{"mapper 1", 0x10, 0x00, 1},
		{"mapper 4", 0x40, 0x00, 4},
		{"mapper 66", 0x20, 0x40, 66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := Load(romImage{prgBanks: 1, chrBanks: 1, flags6: tt.flags6, flags7: tt.flags7}.build())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cart.Mapper())
		})
	}
}

func TestLoadMirroringModes(t *testing.T) {
	tests := []struct {
		name   string
		flags6 uint8
		want   MirrorMode
	}{
		{"horizontal", 0x00, MirrorHorizontal},
		{"vertical", 0x01, MirrorVertical},
		{"four screen", 0x08, MirrorFourScreen},
		{"four screen wins over vertical", 0x09, MirrorFourScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := Load(romImage{prgBanks: 1, chrBanks: 1, flags6: tt.flags6}.build())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cart.Mirroring())
		})
	}
}

func TestLoadBatteryFlag(t *testing.T) {
	cart, err := Load(romImage{prgBanks: 1, chrBanks: 1, flags6: 0x02}.build())
	require.NoError(t, err)
	assert.True(t, cart.HasBattery())

	cart, err = Load(romImage{prgBanks: 1, chrBanks: 1}.build())
	require.NoError(t, err)
	assert.False(t, cart.HasBattery())
}

func TestLoadAllocatesCHRRAMWhenNoBanks(t *testing.T) {
	cart, err := Load(romImage{prgBanks: 1, chrBanks: 0}.build())
	require.NoError(t, err)

	assert.True(t, cart.HasCHRRAM())
	assert.Len(t, cart.CHR(), CHRBankSize)
}

func TestAccessorsReturnCopies(t *testing.T) {
	cart, err := Load(romImage{prgBanks: 1, chrBanks: 1, prgFill: 0x11}.build())
	require.NoError(t, err)

	prg := cart.PRG()
	prg[0] = 0x99

	assert.Equal(t, uint8(0x11), cart.PRG()[0], "mutating the returned slice must not affect the cartridge")
}

func TestMirrorModeString(t *testing.T) {
	assert.Equal(t, "horizontal", MirrorHorizontal.String())
	assert.Equal(t, "vertical", MirrorVertical.String())
	assert.Equal(t, "four-screen", MirrorFourScreen.String())
}

func TestFormatErrorMessage(t *testing.T) {
	err := &FormatError{Reason: "bad magic"}
	assert.Equal(t, "cartridge: invalid iNES image: bad magic", err.Error())
}
