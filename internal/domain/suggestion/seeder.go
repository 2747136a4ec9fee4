package suggestion

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// Seeder loads a suggestion catalog from disk at boot.
type Seeder struct {
	registry *Registry
	dir      string
	logger   *zap.Logger
}

// NewSeeder creates a catalog seeder reading from dir.
func NewSeeder(registry *Registry, dir string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		registry: registry,
		dir:      dir,
		logger:   logger,
	}
}

type catalogFile struct {
	Suggestions []Suggestion `yaml:"suggestions"`
}

// Seed walks the catalog directory and registers every suggestion found
// in .yaml/.yml files. A missing directory is not an error; individual
// bad files are logged and skipped.
func (s *Seeder) Seed() error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Warn("Suggestion catalog directory not found", zap.String("dir", s.dir))
		return nil
	}

	var loaded, failed int
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCatalogFile(d.Name()) {
			return nil
		}

		n, err := s.loadFile(path)
		if err != nil {
			s.logger.Warn("Failed to load catalog file",
				zap.String("file", d.Name()),
				zap.Error(err))
			failed++
			return nil
		}
		loaded += n
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk catalog dir: %w", err)
	}

	s.logger.Info("Suggestion catalog seeded",
		zap.String("dir", s.dir),
		zap.Int("loaded", loaded),
		zap.Int("failed_files", failed))
	return nil
}

func (s *Seeder) loadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return 0, fmt.Errorf("failed to parse catalog: %w", err)
	}

	var n int
	for _, entry := range catalog.Suggestions {
		if _, err := s.registry.Register(entry); err != nil {
			s.logger.Warn("Skipping invalid catalog entry",
				zap.String("file", filepath.Base(path)),
				zap.String("title", entry.Title),
				zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

func isCatalogFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
