package config

// ReportConfig holds branding and output settings for generated PDF reports
type ReportConfig struct {
	Title        string
	Organization string
	OutputDir    string
	KeepFiles    int
}

// SimulationConfig holds service-level bounds for Monte Carlo runs
type SimulationConfig struct {
	DefaultIterations int
	MaxIterations     int
}

// AppConfig holds all application configuration
type AppConfig struct {
	Report     ReportConfig
	Simulation SimulationConfig
}

// Default returns the built-in application configuration
func Default() *AppConfig {
	return &AppConfig{
		Report: ReportConfig{
			Title:     "Cybersecurity Risk Assessment Report",
			OutputDir: "reports",
			KeepFiles: 100,
		},
		Simulation: SimulationConfig{
			DefaultIterations: 10000,
			MaxIterations:     1000000,
		},
	}
}
