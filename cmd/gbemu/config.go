package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui"
)

// fileConfig is the layout of the optional -config YAML file.
//
//	rom: tetris.gb
//	bootrom: dmg_boot.bin
//	log_level: debug
//	ui:
//	  scale: 4
//	emu:
//	  undefined_warn: true
type fileConfig struct {
	ROM      string     `yaml:"rom"`
	BootROM  string     `yaml:"bootrom"`
	LogLevel string     `yaml:"log_level"`
	UI       ui.Config  `yaml:"ui"`
	Emu      emu.Config `yaml:"emu"`
}

func defaultConfig() fileConfig {
	fc := fileConfig{
		BootROM:  "dmg_boot.bin",
		LogLevel: "info",
		Emu:      emu.Defaults(),
	}
	fc.UI.Defaults()
	return fc
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (fileConfig, error) {
	fc := defaultConfig()
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	fc.UI.Defaults()
	return fc, nil
}
