package ui

// Config contains window related settings.
type Config struct {
	Title         string `yaml:"title"`          // window title
	Scale         int    `yaml:"scale"`          // integer upscaling factor
	ScreenshotDir string `yaml:"screenshot_dir"` // where F12 writes PNGs
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
}
