package storage

import (
	"fmt"

	"github.com/existflow/lifelist/internal/config"
	"github.com/existflow/lifelist/internal/logger"
	"github.com/spf13/afero"
)

// Open builds the adapter chain described by cfg: the SQL store backed by a file
// fallback. When the SQL store cannot be opened at all, the fallback serves alone.
func Open(cfg *config.Config, log *logger.Logger) (Adapter, error) {
	fallback, err := NewFileAdapter(afero.NewOsFs(), cfg.FallbackDir, cfg.FallbackMaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open fallback store: %w", err)
	}

	primary, err := OpenSQL(cfg.StorageDriver, cfg.StorageDSN, cfg.StorageQuota)
	if err != nil {
		log.Error("Primary storage unavailable, using fallback only",
			logger.F("driver", cfg.StorageDriver), logger.F("error", err))
		return fallback, nil
	}

	log.Debug("Storage opened", logger.F("driver", cfg.StorageDriver), logger.F("quota", cfg.StorageQuota))
	return NewFallbackAdapter(primary, fallback, log), nil
}
