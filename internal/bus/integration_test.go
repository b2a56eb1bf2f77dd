package bus

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nescore/internal/cartridge"
	"nescore/internal/cpu"
)

// buildROM assembles a one-bank image with the program at the start of PRG
// and the reset vector pointing at 0x8000. With a single 16KB bank the vector
// at 0xFFFC lands at PRG offset 0x3FFC.
func buildROM(t *testing.T, program ...uint8) *cartridge.Cartridge {
	t.Helper()

	bank := make([]uint8, cartridge.PRGBankSize)
	copy(bank, program)
	bank[0x3FFC] = 0x00
	bank[0x3FFD] = 0x80

	var buf bytes.Buffer
	buf.Write([]byte{'N', 'E', 'S', 0x1A, 1, 1})
	buf.Write(make([]byte, 10))
	buf.Write(bank)
	buf.Write(make([]byte, cartridge.CHRBankSize))

	cart, err := cartridge.Load(buf.Bytes())
	require.NoError(t, err)
	return cart
}

func TestProcessorBootsFromCartridgeResetVector(t *testing.T) {
	b := New(buildROM(t))
	c := cpu.New(b)

	assert.Equal(t, uint16(0x8000), c.PC())
}

func TestProgramRunsAgainstTheBus(t *testing.T) {
	// Sum 1..5 into A, store the result in RAM at $0200.
	b := New(buildROM(t,
		0xA9, 0x00, // LDA #$00
		0xA2, 0x05, // LDX #$05
		0x18,       // CLC        (loop)
		0x8A,       // TXA
		0x65, 0x10, // ADC $10
		0x85, 0x10, // STA $10
		0xCA,       // DEX
		0xD0, 0xF8, // BNE loop
		0xA5, 0x10, // LDA $10
		0x8D, 0x00, 0x02, // STA $0200
	))
	c := cpu.New(b)

	_, err := c.RunUntil(func(c *cpu.CPU) bool { return c.PC() == 0x8012 })
	require.NoError(t, err)

	assert.Equal(t, uint8(15), b.Read(0x0200))
	assert.Equal(t, uint8(15), c.A())
}

func TestProgramSeesRAMThroughMirrors(t *testing.T) {
	// Store through a mirror address, read back through the base address.
	b := New(buildROM(t,
		0xA9, 0x5A, // LDA #$5A
		0x8D, 0x50, 0x08, // STA $0850 (mirror of $0050)
	))
	c := cpu.New(b)

	_, err := c.RunUntil(func(c *cpu.CPU) bool { return c.PC() == 0x8005 })
	require.NoError(t, err)

	assert.Equal(t, uint8(0x5A), b.Read(0x0050))
}

func TestIllegalOpcodeStopsProgramRun(t *testing.T) {
	b := New(buildROM(t,
		0xE8, // INX
		0x02, // JAM
	))
	c := cpu.New(b)

	_, err := c.RunUntil(func(c *cpu.CPU) bool { return false })

	var ill *cpu.IllegalOpcodeError
	require.ErrorAs(t, err, &ill)
	assert.Equal(t, uint8(0x02), ill.Opcode)
	assert.Equal(t, uint16(0x8001), ill.Address)
	assert.Equal(t, uint8(1), c.X())
}

func TestSubroutineUsesStackInRAM(t *testing.T) {
	b := New(buildSubroutineROM(t))
	c := cpu.New(b)

	_, err := c.RunUntil(func(c *cpu.CPU) bool { return c.PC() == 0x8005 })
	require.NoError(t, err)

	assert.Equal(t, uint8(0x07), c.A())
	assert.Equal(t, uint8(0x42), c.X())
	assert.Equal(t, uint8(0xFD), c.SP(), "stack should be balanced after RTS")
}

func buildSubroutineROM(t *testing.T) *cartridge.Cartridge {
	t.Helper()

	bank := make([]uint8, cartridge.PRGBankSize)
	copy(bank, []uint8{
		0x20, 0x10, 0x80, // JSR $8010
		0xA2, 0x42, // LDX #$42
	})
	copy(bank[0x10:], []uint8{
		0xA9, 0x07, // LDA #$07
		0x60, // RTS
	})
	bank[0x3FFC] = 0x00
	bank[0x3FFD] = 0x80

	var buf bytes.Buffer
	buf.Write([]byte{'N', 'E', 'S', 0x1A, 1, 1})
	buf.Write(make([]byte, 10))
	buf.Write(bank)
	buf.Write(make([]byte, cartridge.CHRBankSize))

	cart, err := cartridge.Load(buf.Bytes())
	require.NoError(t, err)
	return cart
}
