package noise

// Config defines the analysis parameters.
type Config struct {
	// Bins is the number of radial rings between DC and Nyquist.
	Bins int
	// Window enables the separable Hann window.
	Window bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a Hann-windowed analysis with 32 radial bins.
func DefaultConfig() Config {
	return Config{
		Bins:   32,
		Window: true,
	}
}

// WithBins sets the number of radial bins. Non-positive values are ignored.
func WithBins(bins int) Option {
	return func(cfg *Config) {
		if bins > 0 {
			cfg.Bins = bins
		}
	}
}

// WithWindow enables or disables the Hann window.
func WithWindow(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Window = enabled
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
