// Package rom loads cartridge and boot ROM images from disk. Cartridge
// images may be stored raw or inside a .gz, .zip or .7z archive.
package rom

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

var (
	// ErrEmptyArchive is returned for an archive without a file entry.
	ErrEmptyArchive = errors.New("rom: archive has no files")
	// ErrImageTooLarge is returned when an archive entry inflates past MaxImageSize.
	ErrImageTooLarge = errors.New("rom: decompressed image too large")
)

// MaxImageSize bounds a decompressed cartridge image. The largest DMG
// cartridges are 8 MiB.
const MaxImageSize = 8 << 20

// DMGBootMD5 is the checksum of the original DMG boot ROM.
const DMGBootMD5 = "32fbbd84168d3482956eb3c5051637f5"

// Load reads the file at path and decompresses it based on its extension.
// Archives yield their first .gb entry, or their first file if none match.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rom: %w", err)
	}

	var out []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		out, err = gunzip(data)
	case ".zip":
		out, err = unzip(data)
	case ".7z":
		out, err = un7z(data)
	default:
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rom: %s: %w", path, err)
	}
	return out, nil
}

// LoadBoot reads a boot ROM. Images shorter than 256 bytes are rejected.
func LoadBoot(path string) ([]byte, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	if len(data) < bus.BootROMSize {
		return nil, fmt.Errorf("rom: %s is %d bytes: %w", path, len(data), bus.ErrBootROMTooShort)
	}
	return data, nil
}

// Checksum returns the hex MD5 of an image, for identifying boot ROMs.
func Checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readLimited(zr)
}

func unzip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var files []*zip.File
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, ErrEmptyArchive
	}
	pick := files[0]
	for _, f := range files {
		if isROMName(f.Name) {
			pick = f
			break
		}
	}
	rc, err := pick.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readLimited(rc)
}

func un7z(data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var files []*sevenzip.File
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, ErrEmptyArchive
	}
	pick := files[0]
	for _, f := range files {
		if isROMName(f.Name) {
			pick = f
			break
		}
	}
	rc, err := pick.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readLimited(rc)
}

// readLimited reads r to the end, failing once more than MaxImageSize bytes
// come out of it.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

func isROMName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".gb")
}
