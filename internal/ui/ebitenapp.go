// Package ui hosts the machine in an ebiten window: one emulated frame per
// ebiten tick, keyboard mapped onto the button matrix.
package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dmgemu/internal/emu"
	"dmgemu/internal/ppu"
)

// App implements ebiten.Game around a Machine.
type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	paused bool
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()

	title := cfg.Title
	if t := m.Title(); t != "" {
		title = cfg.Title + " - [" + t + "]"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)

	return &App{
		cfg: cfg,
		m:   m,
		tex: ebiten.NewImage(ppu.Width, ppu.Height),
	}
}

// Run enters the ebiten main loop; it returns when the window closes.
func (a *App) Run() error {
	return ebiten.RunGame(a)
}

var keymap = map[ebiten.Key]emu.Button{
	ebiten.KeyZ:          emu.ButtonA,
	ebiten.KeyX:          emu.ButtonB,
	ebiten.KeyBackspace:  emu.ButtonSelect,
	ebiten.KeyEnter:      emu.ButtonStart,
	ebiten.KeyArrowUp:    emu.ButtonUp,
	ebiten.KeyArrowDown:  emu.ButtonDown,
	ebiten.KeyArrowLeft:  emu.ButtonLeft,
	ebiten.KeyArrowRight: emu.ButtonRight,
}

func (a *App) Update() error {
	for key, btn := range keymap {
		a.m.SetButton(btn, ebiten.IsKeyPressed(key))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	if !a.paused {
		a.m.StepFrame()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	a.tex.WritePixels(a.m.Framebuffer())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(a.cfg.Scale), float64(a.cfg.Scale))
	screen.DrawImage(a.tex, op)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width * a.cfg.Scale, ppu.Height * a.cfg.Scale
}
