package config

// CoverageConfig lists the coverage upload targets. All targets run
// when the test stage succeeded; none run otherwise.
type CoverageConfig struct {
	Targets []CoverageTarget `yaml:"targets" toml:"targets"`
}

// CoverageTarget is one external uploader invocation.
type CoverageTarget struct {
	Name    string   `yaml:"name" toml:"name"`
	Command []string `yaml:"command" toml:"command"`
}

// DefaultCoverageConfig returns a single codecov uploader target.
func DefaultCoverageConfig() CoverageConfig {
	return CoverageConfig{
		Targets: []CoverageTarget{
			{Name: "codecov", Command: []string{"codecov"}},
		},
	}
}
