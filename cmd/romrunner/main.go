// romrunner drives a test ROM headlessly and watches the serial output for
// pass/fail markers, the way Blargg-style test ROMs report results.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"dmgemu/internal/cpu"
	"dmgemu/internal/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	trace := flag.Bool("trace", false, "print decoded instructions and registers")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	auto := flag.Bool("auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	listing := flag.Int("disasm", 0, "disassemble N instructions from the entry point and exit")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	m, err := emu.New(rom, emu.Config{Trace: *trace})
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}
	log.Printf("ROM: %q", m.Title())

	if *listing > 0 {
		addr := m.CPU().PC
		for _, in := range cpu.Disassemble(m.Memory(), addr, *listing) {
			fmt.Printf("%04X  %v\n", addr, in.Op)
			addr += in.Size()
		}
		return
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}

	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)

	for i := 0; i < *steps; i++ {
		m.Step()

		serial := strings.ToLower(string(m.SerialBuffer()))
		if *auto {
			if strings.Contains(serial, "passed") {
				fmt.Printf("\nDetected PASS in serial output.\n")
				fmt.Printf("Done: steps=%d elapsed=%s\n", i+1, time.Since(start).Truncate(time.Millisecond))
				os.Exit(0)
			}
			if mm := failRe.FindString(serial); mm != "" {
				fmt.Printf("\nDetected %q in serial output.\n", mm)
				fmt.Printf("Done: steps=%d elapsed=%s\n", i+1, time.Since(start).Truncate(time.Millisecond))
				os.Exit(1)
			}
		} else if *until != "" && strings.Contains(serial, strings.ToLower(*until)) {
			fmt.Printf("\nDetected %q in serial output.\n", *until)
			fmt.Printf("Done: steps=%d elapsed=%s\n", i+1, time.Since(start).Truncate(time.Millisecond))
			return
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			os.Exit(2)
		}
	}
	fmt.Printf("\nDone: steps=%d elapsed=%s\n", *steps, time.Since(start).Truncate(time.Millisecond))
}
