package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logging"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/rom"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui"
)

type CLIFlags struct {
	Config   string
	ROMPath  string
	BootROM  string
	Scale    int
	Title    string
	Trace    bool
	LogLevel string

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	OutScale int
	Expect   string
}

func parseFlags() (CLIFlags, map[string]bool) {
	var f CLIFlags
	flag.StringVar(&f.Config, "config", "", "optional YAML config file")
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb, .gz, .zip, .7z)")
	flag.StringVar(&f.BootROM, "bootrom", "dmg_boot.bin", "DMG boot ROM (256 bytes)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "log every instruction at trace level")
	flag.StringVar(&f.LogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.IntVar(&f.OutScale, "outscale", 1, "integer upscale for -outpng")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer xxhash64 (hex)")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set
}

// merge applies explicitly set flags over the file configuration.
func merge(fc *fileConfig, f CLIFlags, set map[string]bool) {
	if set["rom"] {
		fc.ROM = f.ROMPath
	}
	if set["bootrom"] {
		fc.BootROM = f.BootROM
	}
	if set["log-level"] {
		fc.LogLevel = f.LogLevel
	}
	if set["scale"] {
		fc.UI.Scale = f.Scale
	}
	if set["title"] {
		fc.UI.Title = f.Title
	}
	if set["trace"] {
		fc.Emu.Trace = f.Trace
	}
}

func main() {
	f, set := parseFlags()

	fc, err := loadConfig(f.Config)
	if err != nil {
		logrus.Fatal(err)
	}
	merge(&fc, f, set)

	log := logging.New(fc.LogLevel)
	if fc.ROM == "" {
		log.Fatal("-rom is required")
	}

	data, err := rom.Load(fc.ROM)
	if err != nil {
		log.WithError(err).Fatal("load rom")
	}
	boot, err := rom.LoadBoot(fc.BootROM)
	if err != nil {
		log.WithError(err).Fatal("load boot rom")
	}
	if sum := rom.Checksum(boot); sum != rom.DMGBootMD5 {
		log.WithField("md5", sum).Warn("boot rom is not the known DMG image")
	}

	if h, err := cart.ParseHeader(data); err == nil {
		log.WithFields(logrus.Fields{
			"title": h.Title,
			"type":  h.CartTypeStr,
			"banks": h.ROMBanks,
			"ram":   h.RAMSizeBytes,
		}).Info("cartridge")
	}

	m, err := emu.New(data, boot, fc.Emu, emu.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("create machine")
	}

	if f.Headless {
		o := headlessOpts{Frames: f.Frames, PNGOut: f.PNGOut, OutScale: f.OutScale, Expect: f.Expect}
		if err := runHeadless(m, o, log); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(fc.UI, m, log)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
