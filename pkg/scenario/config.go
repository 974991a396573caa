package scenario

// Config points the loader at scenario definition files.
type Config struct {
	Paths []string `yaml:"paths"`
}

// Validate sets defaults for the scenario discovery configuration.
func (c *Config) Validate() error {
	c.SetDefaults()
	return nil
}

// SetDefaults applies the default scenario search path.
func (c *Config) SetDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{"scenarios"}
	}
}
