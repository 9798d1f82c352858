package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logging"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/rom"
)

type traceEntry struct {
	op    byte
	cyc   int
	state string
}

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 when the step budget is used up,
// 1 on a machine fault, 2 on timeout.
func run() int {
	romPath := flag.String("rom", "", "path to ROM (.gb, .gz, .zip, .7z)")
	bootPath := flag.String("bootrom", "dmg_boot.bin", "DMG boot ROM run from 0x0000 until FF50 disables it")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	trace := flag.Bool("trace", false, "print registers after every instruction")
	traceWindow := flag.Int("traceWindow", 200, "recent instructions to dump when the machine faults")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	prof := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	level := flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flag.Parse()

	log := logging.New(*level)
	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	data, err := rom.Load(*romPath)
	if err != nil {
		log.WithError(err).Fatal("load rom")
	}
	boot, err := rom.LoadBoot(*bootPath)
	if err != nil {
		log.WithError(err).Fatal("load boot rom")
	}

	m, err := emu.New(data, boot, emu.Config{UndefinedWarn: true}, emu.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("create machine")
	}

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		log.Fatalf("unknown -profile %q (want cpu or mem)", *prof)
	}

	window := *traceWindow
	if window < 1 {
		window = 1
	}
	ring := make([]traceEntry, window)
	ringIdx, ringFill := 0, 0

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}

	code := 0
	n := 0
	for ; n < *steps; n++ {
		op := m.Bus().Read(m.CPU().PC)
		cyc, err := m.Step()
		if err != nil {
			log.WithError(err).Error("machine faulted")
			fmt.Printf("\n--- recent trace (last %d instructions) ---\n", ringFill)
			first := (ringIdx - ringFill + window) % window
			for j := 0; j < ringFill; j++ {
				te := ring[(first+j)%window]
				fmt.Printf("OP=%02X cyc=%d %s\n", te.op, te.cyc, te.state)
			}
			fmt.Printf("--- end trace ---\n")
			code = 1
			break
		}
		te := traceEntry{op: op, cyc: cyc, state: m.CPU().Trace()}
		if *trace {
			fmt.Printf("OP=%02X cyc=%d %s\n", te.op, te.cyc, te.state)
		}
		ring[ringIdx] = te
		ringIdx = (ringIdx + 1) % window
		if ringFill < window {
			ringFill++
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			code = 2
			break
		}
	}

	fmt.Printf("\nDone: steps=%d cycles=%d frames=%d elapsed=%s\n",
		n, m.Cycles(), m.PPU().Frame(), time.Since(start).Truncate(time.Millisecond))
	return code
}
