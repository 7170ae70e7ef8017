package config

// CheckoutConfig controls how the source tree is acquired.
// With an empty URL the workspace is expected to hold a checkout
// already (the surrounding CI system did it).
type CheckoutConfig struct {
	URL   string `yaml:"url" toml:"url"`
	Ref   string `yaml:"ref" toml:"ref"`
	Depth int    `yaml:"depth" toml:"depth"`
}

// DefaultCheckoutConfig returns checkout defaults.
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{}
}
