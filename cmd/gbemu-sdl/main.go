// gbemu-sdl is an alternative SDL2 front-end for the machine: a streaming
// texture updated from the framebuffer once per emulated frame.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"dmgemu/internal/emu"
	"dmgemu/internal/ppu"
)

var keymap = map[sdl.Keycode]emu.Button{
	sdl.K_z:         emu.ButtonA,
	sdl.K_x:         emu.ButtonB,
	sdl.K_BACKSPACE: emu.ButtonSelect,
	sdl.K_RETURN:    emu.ButtonStart,
	sdl.K_UP:        emu.ButtonUp,
	sdl.K_DOWN:      emu.ButtonDown,
	sdl.K_LEFT:      emu.ButtonLeft,
	sdl.K_RIGHT:     emu.ButtonRight,
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	scale := flag.Int("scale", 3, "window scale")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read %s: %v", *romPath, err)
	}

	m, err := emu.New(rom, emu.Config{})
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("sdl init: %v", err)
	}
	defer sdl.Quit()

	title := "dmgemu"
	if t := m.Title(); t != "" {
		title = "dmgemu - [" + t + "]"
	}
	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(ppu.Width**scale), int32(ppu.Height**scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING), int32(ppu.Width), int32(ppu.Height))
	if err != nil {
		log.Fatalf("create texture: %v", err)
	}
	defer texture.Destroy()

	running := true
	for running {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch e := ev.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if btn, ok := keymap[e.Keysym.Sym]; ok {
					m.SetButton(btn, e.Type == sdl.KEYDOWN)
				}
			}
		}

		m.StepFrame()

		if err := texture.Update(nil, m.Framebuffer(), ppu.Width*4); err != nil {
			log.Fatalf("texture update: %v", err)
		}
		if err := renderer.Copy(texture, nil, nil); err != nil {
			log.Fatalf("render copy: %v", err)
		}
		renderer.Present()
	}
}
