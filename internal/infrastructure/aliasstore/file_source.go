// Package aliasstore supplies per-domain alias dictionaries to the
// resolution core, either from JSON files on disk or from PostgreSQL, and
// invalidates memoized indices when a dictionary file changes.
package aliasstore

import (
	"context"
	"encoding/json"
	"os"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// Config holds the file-backed dictionary settings.
type Config struct {
	DrugDictPath string `mapstructure:"drug_dict_path"`
	GeneDictPath string `mapstructure:"gene_dict_path"`
	Watch        bool   `mapstructure:"watch"`
}

// FileSource loads alias dictionaries from JSON files. The on-disk format is
// an ordered array of {"canonical": ..., "aliases": [...]} objects; order
// matters because index construction resolves alias collisions by it.
type FileSource struct {
	paths  map[entity.Domain]string
	logger logging.Logger
}

// NewFileSource creates a source reading the configured dictionary files.
func NewFileSource(cfg Config, log logging.Logger) *FileSource {
	return &FileSource{
		paths: map[entity.Domain]string{
			entity.DomainDrug: cfg.DrugDictPath,
			entity.DomainGene: cfg.GeneDictPath,
		},
		logger: log,
	}
}

// LoadTable implements entity.TableSource. Each call re-reads the file, so an
// invalidated index picks up dictionary edits on its next build.
func (s *FileSource) LoadTable(_ context.Context, domain entity.Domain) (entity.AliasTable, error) {
	path, ok := s.paths[domain]
	if !ok || path == "" {
		return nil, errors.New(errors.ErrCodeDictionaryNotFound,
			"no dictionary file configured for domain "+domain.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDictionaryNotFound,
			"reading dictionary file "+path)
	}

	var table entity.AliasTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDictionaryParseError,
			"parsing dictionary file "+path)
	}

	if len(table) == 0 {
		return nil, errors.New(errors.ErrCodeDictionaryEmpty,
			"dictionary file "+path+" contains no entries")
	}

	s.logger.Debug("Alias dictionary loaded",
		logging.String("domain", domain.String()),
		logging.String("path", path),
		logging.Int("entries", len(table)),
	)

	return table, nil
}

// Paths returns the configured dictionary file per domain. The watcher uses
// it to know which files to monitor.
func (s *FileSource) Paths() map[entity.Domain]string {
	paths := make(map[entity.Domain]string, len(s.paths))
	for domain, path := range s.paths {
		if path != "" {
			paths[domain] = path
		}
	}
	return paths
}

//Personal.AI order the ending
