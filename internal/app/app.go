package app

import (
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
)

// Display buffer convention used by simple NROM programs: a 32x32 grid of
// color codes in RAM at $0200, one byte per pixel, with $FE read as a random
// byte and $FF holding the last pressed key.
const (
	DisplayWidth  = 32
	DisplayHeight = 32

	displayBase  = 0x0200
	randRegister = 0x00FE
	keyRegister  = 0x00FF
)

// App runs a loaded cartridge inside an ebiten frame loop. It is the
// frame-loop collaborator the core exposes its read surface to.
type App struct {
	cfg *Config
	bus *bus.Bus
	cpu *cpu.CPU

	pixels []byte // RGBA, DisplayWidth x DisplayHeight
	frame  *ebiten.Image
	rng    *rand.Rand

	frames uint64
	halted bool
	runErr error
}

// New wires a cartridge into a fresh bus and processor.
func New(cfg *Config, cart *cartridge.Cartridge) *App {
	b := bus.New(cart)
	return &App{
		cfg:    cfg,
		bus:    b,
		cpu:    cpu.New(b),
		pixels: make([]byte, DisplayWidth*DisplayHeight*4),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CPU exposes the processor's read surface.
func (a *App) CPU() *cpu.CPU { return a.cpu }

// Bus exposes the memory inspection passthrough.
func (a *App) Bus() *bus.Bus { return a.bus }

// FrameCount returns the number of completed frames.
func (a *App) FrameCount() uint64 { return a.frames }

// Halted reports whether the program ran to completion (reached a BRK).
func (a *App) Halted() bool { return a.halted }

// Err returns the execution error that stopped the program, if any.
func (a *App) Err() error { return a.runErr }

// Pixels returns a copy of the current RGBA display buffer.
func (a *App) Pixels() []byte {
	p := make([]byte, len(a.pixels))
	copy(p, a.pixels)
	return p
}

// Run opens the window and runs the frame loop until the window is closed
// or execution fails.
func (a *App) Run() error {
	ebiten.SetWindowSize(DisplayWidth*a.cfg.Window.Scale, DisplayHeight*a.cfg.Window.Scale)
	ebiten.SetWindowTitle(a.cfg.Window.Title)

	err := ebiten.RunGame(a)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// StepFrame executes one frame's instruction budget and refreshes the
// display buffer. It is also the headless entry point, so it must not touch
// any ebiten state.
func (a *App) StepFrame() error {
	for i := 0; i < a.cfg.Emulation.StepsPerFrame && !a.halted; i++ {
		a.bus.Write(randRegister, uint8(a.rng.Intn(15)+1))

		// Programs written for this convention end on BRK; stop there
		// instead of running the interrupt sequence into unmapped vectors.
		if a.bus.Read(a.cpu.PC()) == 0x00 {
			a.halted = true
			break
		}

		if a.cfg.Debug.Trace {
			text, _ := cpu.Disassemble(a.bus, a.cpu.PC())
			log.Printf("%-14s %s", text, a.cpu)
		}

		if _, err := a.cpu.Step(); err != nil {
			a.runErr = err
			return err
		}
	}

	a.renderDisplay()
	a.frames++
	return nil
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	a.pollInput()
	if a.halted {
		// Keep the final frame on screen.
		return nil
	}
	return a.StepFrame()
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	if a.frame == nil {
		a.frame = ebiten.NewImage(DisplayWidth, DisplayHeight)
	}
	a.frame.WritePixels(a.pixels)
	screen.DrawImage(a.frame, nil)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return DisplayWidth, DisplayHeight
}

// pollInput stores the last pressed direction key as an ASCII code at $FF,
// the input convention matching the display buffer.
func (a *App) pollInput() {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW), ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		a.bus.Write(keyRegister, 'w')
	case ebiten.IsKeyPressed(ebiten.KeyS), ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		a.bus.Write(keyRegister, 's')
	case ebiten.IsKeyPressed(ebiten.KeyA), ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		a.bus.Write(keyRegister, 'a')
	case ebiten.IsKeyPressed(ebiten.KeyD), ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		a.bus.Write(keyRegister, 'd')
	}
}

func (a *App) renderDisplay() {
	for i := 0; i < DisplayWidth*DisplayHeight; i++ {
		c := displayColor(a.bus.Read(displayBase + uint16(i)))
		a.pixels[i*4+0] = c.R
		a.pixels[i*4+1] = c.G
		a.pixels[i*4+2] = c.B
		a.pixels[i*4+3] = 0xFF
	}
}

// displayColor maps a display buffer byte to the conventional 16-color
// palette.
func displayColor(value uint8) color.RGBA {
	switch value & 0x0F {
	case 0:
		return color.RGBA{0x00, 0x00, 0x00, 0xFF} // black
	case 1:
		return color.RGBA{0xFF, 0xFF, 0xFF, 0xFF} // white
	case 2, 9:
		return color.RGBA{0x80, 0x80, 0x80, 0xFF} // grey
	case 3, 10:
		return color.RGBA{0xFF, 0x00, 0x00, 0xFF} // red
	case 4, 11:
		return color.RGBA{0x00, 0xFF, 0x00, 0xFF} // green
	case 5, 12:
		return color.RGBA{0x00, 0x00, 0xFF, 0xFF} // blue
	case 6, 13:
		return color.RGBA{0xFF, 0x00, 0xFF, 0xFF} // magenta
	case 7, 14:
		return color.RGBA{0xFF, 0xFF, 0x00, 0xFF} // yellow
	default:
		return color.RGBA{0x00, 0xFF, 0xFF, 0xFF} // cyan
	}
}
