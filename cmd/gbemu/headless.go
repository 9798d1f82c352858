package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
)

type headlessOpts struct {
	Frames   int
	PNGOut   string
	OutScale int
	Expect   string // xxhash64 of the framebuffer, hex
}

func runHeadless(m *emu.Machine, o headlessOpts, log logrus.FieldLogger) error {
	if o.Frames <= 0 {
		o.Frames = 1
	}

	start := time.Now()
	for i := 0; i < o.Frames; i++ {
		if err := m.StepFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	dur := time.Since(start)

	sum := xxhash.Sum64(m.Framebuffer())
	log.WithFields(logrus.Fields{
		"frames":  o.Frames,
		"elapsed": dur.Truncate(time.Millisecond),
		"fps":     fmt.Sprintf("%.2f", float64(o.Frames)/dur.Seconds()),
		"cycles":  m.Cycles(),
		"fb_hash": fmt.Sprintf("%016x", sum),
	}).Info("headless run finished")

	if o.PNGOut != "" {
		if err := saveFramePNG(m.PPU().Snapshot(), o.OutScale, o.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.WithField("path", o.PNGOut).Info("wrote frame")
	}

	if o.Expect != "" {
		want, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(o.Expect), "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("bad -expect %q: %w", o.Expect, err)
		}
		if sum != want {
			return fmt.Errorf("framebuffer hash mismatch: got %016x, want %016x", sum, want)
		}
	}
	return nil
}

// saveFramePNG writes img to path, upscaled by an integer factor with
// nearest-neighbour sampling so pixels stay sharp.
func saveFramePNG(img *image.RGBA, scale int, path string) error {
	var out image.Image = img
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		out = dst
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
