package config

// ResolveOptions carries the inputs of Resolve.
type ResolveOptions struct {
	// CLI holds values from flags the user set explicitly.
	CLI Partial
	// ConfigPath is the --config flag value; a missing file there is an error.
	ConfigPath string
	// ProjectRoot is the git top-level directory, empty outside a repository.
	ProjectRoot string
	// GlobalPath overrides GlobalConfigPath, mainly for tests.
	GlobalPath string
	// SkipGlobal disables the global lookup.
	SkipGlobal bool
}

// Resolve builds the effective configuration.
// Precedence per field: CLI, then file, then environment, then defaults.
func Resolve(opts ResolveOptions) (*Config, error) {
	globalPath := opts.GlobalPath
	if globalPath == "" && !opts.SkipGlobal {
		// No home directory just means no global file.
		globalPath, _ = GlobalConfigPath()
	}

	path, filePartial, err := Discover(opts.ConfigPath, opts.ProjectRoot, globalPath)
	if err != nil {
		return nil, err
	}

	envPartial, err := LoadEnv(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	cfg := Merge(
		Tier{Source: SourceCLI, Partial: opts.CLI},
		Tier{Source: SourceFile, Partial: filePartial},
		Tier{Source: SourceEnv, Partial: envPartial},
		Tier{Source: SourceDefault, Partial: Defaults()},
	)
	cfg.ConfigFile = path
	return cfg, nil
}
