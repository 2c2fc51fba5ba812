package ui

// Config holds window settings for the ebiten host.
type Config struct {
	Title string
	Scale int
}

// Defaults fills unset fields with usable values.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "dmgemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
