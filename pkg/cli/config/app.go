package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/tyche/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// App holds CLI flags for the optional application configuration file
type App struct {
	path string
}

// Flags returns CLI flags for app configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to an optional TOML configuration file",
			Sources:     cli.EnvVars("TYCHE_CONFIG"),
			Destination: &a.path,
		},
	}
}

type appConfigFile struct {
	Report struct {
		Title        string `toml:"title"`
		Organization string `toml:"organization"`
		OutputDir    string `toml:"output_dir"`
		KeepFiles    int    `toml:"keep_files"`
	} `toml:"report"`
	Simulation struct {
		DefaultIterations int `toml:"default_iterations"`
		MaxIterations     int `toml:"max_iterations"`
	} `toml:"simulation"`
}

// Configure loads the application configuration, overlaying the file values
// (when a file is given) onto the built-in defaults.
func (a *App) Configure() (*domainConfig.AppConfig, error) {
	cfg := domainConfig.Default()
	if a.path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(a.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", a.path))
	}

	var file appConfigFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", a.path))
	}

	if file.Report.Title != "" {
		cfg.Report.Title = file.Report.Title
	}
	if file.Report.Organization != "" {
		cfg.Report.Organization = file.Report.Organization
	}
	if file.Report.OutputDir != "" {
		cfg.Report.OutputDir = file.Report.OutputDir
	}
	if file.Report.KeepFiles != 0 {
		cfg.Report.KeepFiles = file.Report.KeepFiles
	}
	if file.Simulation.DefaultIterations != 0 {
		cfg.Simulation.DefaultIterations = file.Simulation.DefaultIterations
	}
	if file.Simulation.MaxIterations != 0 {
		cfg.Simulation.MaxIterations = file.Simulation.MaxIterations
	}

	if err := validateAppConfig(cfg); err != nil {
		return nil, goerr.Wrap(err, "invalid config file", goerr.V("path", a.path))
	}

	return cfg, nil
}

func validateAppConfig(cfg *domainConfig.AppConfig) error {
	if cfg.Simulation.DefaultIterations < 1 {
		return goerr.New("simulation.default_iterations must be at least 1",
			goerr.V("default_iterations", cfg.Simulation.DefaultIterations))
	}
	if cfg.Simulation.MaxIterations > 0 && cfg.Simulation.MaxIterations < cfg.Simulation.DefaultIterations {
		return goerr.New("simulation.max_iterations must not be below default_iterations",
			goerr.V("default_iterations", cfg.Simulation.DefaultIterations),
			goerr.V("max_iterations", cfg.Simulation.MaxIterations))
	}
	if cfg.Report.KeepFiles < 0 {
		return goerr.New("report.keep_files must not be negative",
			goerr.V("keep_files", cfg.Report.KeepFiles))
	}
	return nil
}
