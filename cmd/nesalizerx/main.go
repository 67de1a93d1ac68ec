// Package main provides the nesalizerx CLI application.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/usrshare/nesalizerX/internal/audio"
	"github.com/usrshare/nesalizerX/internal/emulator"
	"github.com/usrshare/nesalizerX/internal/input"
	"github.com/usrshare/nesalizerX/internal/overlay"
	"github.com/usrshare/nesalizerX/internal/pace"
	"github.com/usrshare/nesalizerX/internal/pattern"
	"github.com/usrshare/nesalizerX/internal/present"
	"github.com/usrshare/nesalizerX/internal/video"
)

const (
	// defaultWindowW and defaultWindowH set the logical canvas; the
	// frame is letterboxed inside it.
	defaultWindowW = 640
	defaultWindowH = 480
)

// ErrInvalidScale indicates the scale factor is out of valid range.
var ErrInvalidScale = errors.New("scale must be between 1 and 8")

// CLI represents the command-line interface structure.
type CLI struct {
	Run  RunCmd  `cmd:"" default:"withargs" help:"Open the display and run the demo pattern source."`
	Keys KeysCmd `cmd:"" help:"Print the UI hotkey reference."`
}

// RunCmd opens the window and runs the frame producer against it.
type RunCmd struct {
	Scale   int     `default:"2" help:"Window scale factor (1-8)."`
	FPS     float64 `default:"60" help:"Producer frame rate."`
	Overlay bool    `help:"Start with the debug console visible."`
	Mute    bool    `help:"Disable the audio test tone."`
}

// Run executes the run command.
func (c *RunCmd) Run() error {
	if c.Scale < 1 || c.Scale > 8 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, c.Scale)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %v", c.FPS)
	}

	buf := video.New(video.ScreenWidth, video.ScreenHeight)
	snapshot := input.New(int(ebiten.KeyMax) + 1)
	console := overlay.New()
	if c.Overlay {
		console.Toggle()
	}

	source := pattern.New()
	if c.Mute {
		source.ToneHz = 0
	}

	ring := audio.NewRing(sampleRate / 4) // ~250ms of buffered audio
	player, err := NewAudioPlayer(ring)
	if err != nil {
		// Audio is optional; keep running silently like the display-only
		// environments the original supported.
		log.Printf("audio unavailable: %v", err)
		player = nil
	}

	game := NewGame(buf, snapshot, console)

	driver, err := emulator.New(emulator.Config{
		Video:   buf,
		Input:   snapshot,
		Source:  source,
		Console: console,
		Audio:   ring,
		Limiter: pace.NewLimiter(c.FPS),
		Hotkeys: emulator.Hotkeys{
			Quit:            int(ebiten.KeyEscape),
			OverlayModifier: int(ebiten.KeyAltLeft),
			OverlayToggle:   int(ebiten.KeyD),
			Reset:           int(ebiten.KeyF1),
		},
		OnQuit: game.RequestExit,
	})
	if err != nil {
		return fmt.Errorf("failed to create emulation driver: %w", err)
	}

	loop, err := present.NewLoop(present.Config{
		Buffer:  buf,
		Surface: game.Surface(),
	})
	if err != nil {
		return fmt.Errorf("failed to create presentation loop: %w", err)
	}

	presentErr := make(chan error, 1)
	go func() { presentErr <- loop.Run() }()

	if player != nil {
		player.Start()
		defer player.Stop()
	}
	driver.Start()

	ebiten.SetWindowTitle("nesalizerX")
	ebiten.SetWindowSize(defaultWindowW/2*c.Scale, defaultWindowH/2*c.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(c.FPS))

	runErr := ebiten.RunGame(game)

	// Tear down producer first, which also wakes the presentation loop.
	driver.Stop()
	if err := <-presentErr; err != nil {
		return fmt.Errorf("presentation loop failed: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("display error: %w", runErr)
	}
	return nil
}

// KeysCmd prints the hotkey reference.
type KeysCmd struct{}

// Run executes the keys command.
func (c *KeysCmd) Run() error {
	fmt.Println("Hotkeys:")
	fmt.Println("  Escape      quit")
	fmt.Println("  LAlt+D      toggle debug console")
	fmt.Println("  F1          soft reset the frame source")
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("nesalizerx"),
		kong.Description("Frame pacing backend with a demo pattern source."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
