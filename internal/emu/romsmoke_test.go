package emu

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/rom"
)

// findROMs recursively collects .gb files under dir.
func findROMs(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".gb") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// TestROMSmoke runs every ROM under GBCORE_ROM_DIR for a number of frames
// and fails on any machine fault. Opt-in: it needs real ROMs and a boot ROM.
func TestROMSmoke(t *testing.T) {
	dir := os.Getenv("GBCORE_ROM_DIR")
	bootPath := os.Getenv("GBCORE_BOOT_ROM")
	if dir == "" || bootPath == "" {
		t.Skip("set GBCORE_ROM_DIR and GBCORE_BOOT_ROM to run")
	}
	boot, err := rom.LoadBoot(bootPath)
	require.NoError(t, err)

	roms, err := findROMs(dir)
	require.NoError(t, err)
	if len(roms) == 0 {
		t.Skipf("no ROMs found in %s", dir)
	}

	frames := 600
	if v := os.Getenv("GBCORE_SMOKE_FRAMES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			frames = n
		}
	}

	for _, path := range roms {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) {
			image, err := rom.Load(path)
			require.NoError(t, err)
			m, err := New(image, boot, Defaults())
			require.NoError(t, err)
			for i := 0; i < frames; i++ {
				require.NoError(t, m.StepFrame(), "frame %d", i)
			}
		})
	}
}
