package app

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Locations overrides the default config.location search list.
	Locations []string
	// Profiles are additional profiles activated on top of the bound ones.
	Profiles []string

	// RegistryPath points at the candidates registry; selection is skipped
	// when empty.
	RegistryPath string
	// MetadataPath points at the precomputed metadata index.
	MetadataPath string
	// TypesPath points at the present-types manifest for the classifier.
	TypesPath string
	// EntryPointKey selects the candidate list in the registry.
	EntryPointKey string

	LogFormat      string
	LogLevel       string
	IgnoreNotFound bool
}

// DefaultEntryPointKey is the registry key used when none is configured.
const DefaultEntryPointKey = "confboot.EnableAutoConfiguration"

// NewConfig validates and normalizes a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.EntryPointKey == "" {
		cfg.EntryPointKey = DefaultEntryPointKey
	}
	return &cfg, nil
}
