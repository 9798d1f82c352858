package emu

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace         bool `yaml:"trace"`          // log every instruction at trace level
	UndefinedWarn bool `yaml:"undefined_warn"` // report undefined opcodes at warn level
}

// Defaults returns the configuration used when no file or flag overrides it.
func Defaults() Config {
	return Config{}
}
