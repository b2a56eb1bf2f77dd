// Command nescore loads an iNES ROM image and drives the emulation core,
// either in a window or headless.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nescore/internal/app"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "path to iNES ROM image (required)")
		configFile  = flag.String("config", "", "path to JSON configuration file")
		headless    = flag.Bool("headless", false, "run without a window")
		frames      = flag.Int("frames", 120, "frames to run in headless mode")
		outFile     = flag.String("out", "", "write the final display buffer as a PPM image (headless)")
		trace       = flag.Bool("trace", false, "log each executed instruction")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "nescore: -rom is required")
		flag.Usage()
		os.Exit(2)
	}

	configPath := *configFile
	if configPath == "" {
		configPath = app.DefaultConfigPath()
	}
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *trace {
		cfg.Debug.Trace = true
	}

	cart, err := cartridge.LoadFromFile(*romFile)
	if err != nil {
		var ferr *cartridge.FormatError
		if errors.As(err, &ferr) {
			log.Fatalf("%s is not a usable ROM: %v", *romFile, ferr)
		}
		log.Fatalf("load ROM: %v", err)
	}
	log.Printf("loaded %s: %d bytes PRG, mapper %d, %s mirroring",
		*romFile, cart.PRGSize(), cart.Mapper(), cart.Mirroring())

	application := app.New(cfg, cart)

	if *headless {
		runHeadless(application, *frames, *outFile)
		return
	}

	setupGracefulShutdown()
	if err := application.Run(); err != nil {
		reportRunError(err)
	}
}

// runHeadless executes a fixed number of frames without a window, then
// optionally dumps the display buffer for inspection.
func runHeadless(application *app.App, frames int, outFile string) {
	for i := 0; i < frames; i++ {
		if err := application.StepFrame(); err != nil {
			reportRunError(err)
		}
		if application.Halted() {
			log.Printf("program halted after %d frames", application.FrameCount())
			break
		}
	}

	log.Printf("headless run complete: %d frames, %s",
		application.FrameCount(), application.CPU())

	if outFile != "" {
		if err := writePPM(outFile, application.Pixels()); err != nil {
			log.Fatalf("write %s: %v", outFile, err)
		}
		log.Printf("display buffer written to %s", outFile)
	}
}

// writePPM saves an RGBA display buffer as a plain-text PPM image.
func writePPM(filename string, pixels []byte) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "P3\n%d %d\n255\n", app.DisplayWidth, app.DisplayHeight)
	for y := 0; y < app.DisplayHeight; y++ {
		for x := 0; x < app.DisplayWidth; x++ {
			i := (y*app.DisplayWidth + x) * 4
			fmt.Fprintf(file, "%d %d %d ", pixels[i], pixels[i+1], pixels[i+2])
		}
		fmt.Fprintln(file)
	}
	return nil
}

func reportRunError(err error) {
	var ill *cpu.IllegalOpcodeError
	if errors.As(err, &ill) {
		log.Fatalf("execution stopped: %v", ill)
	}
	log.Fatalf("emulation failed: %v", err)
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("interrupt received, shutting down")
		os.Exit(0)
	}()
}
