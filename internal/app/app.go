package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/vk/confboot/internal/condition"
	"github.com/vk/confboot/internal/metadata"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	fs         afero.Fs
	config     *Config
	registry   *metadata.Registry
	index      *metadata.Index
	classifier condition.TypeClassifier
	environ    func() []string
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger. A failure to
// load any of the configured registries is a fatal startup error.
func NewApp(outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	fs := afero.NewOsFs()

	var registry *metadata.Registry
	if config.RegistryPath != "" {
		loaded, err := metadata.LoadRegistry(fs, config.RegistryPath)
		if err != nil {
			panic(fmt.Errorf("failed to load candidates registry: %w", err))
		}
		registry = loaded
		logger.Debug("Candidates registry loaded.", "path", config.RegistryPath)
	}

	index := metadata.EmptyIndex()
	if config.MetadataPath != "" {
		loaded, err := metadata.LoadIndex(fs, config.MetadataPath)
		if err != nil {
			panic(fmt.Errorf("failed to load metadata index: %w", err))
		}
		index = loaded
		logger.Debug("Metadata index loaded.", "path", config.MetadataPath)
	}

	var classifier condition.TypeClassifier = condition.NewManifestClassifier(nil, false)
	if config.TypesPath != "" {
		names, err := loadTypesManifest(fs, config.TypesPath)
		if err != nil {
			panic(fmt.Errorf("failed to load types manifest: %w", err))
		}
		classifier = condition.NewManifestClassifier(names, true)
		logger.Debug("Types manifest loaded.", "path", config.TypesPath, "types", len(names))
	}

	return &App{
		outW:       outW,
		logger:     logger,
		fs:         fs,
		config:     config,
		registry:   registry,
		index:      index,
		classifier: classifier,
		environ:    os.Environ,
	}
}
