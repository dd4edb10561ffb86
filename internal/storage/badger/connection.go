package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB manages the Badger database connection
type BadgerDB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
	config *common.BadgerConfig
	gcDone chan struct{}
}

// NewBadgerDB creates a new Badger database connection
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	// If reset_on_startup is enabled, delete the existing database
	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			logger.Debug().Str("path", config.Path).Msg("Deleting existing database (reset_on_startup=true)")
			if err := os.RemoveAll(config.Path); err != nil {
				logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to delete database directory")
			}
		}
	}

	// Ensure the directory exists
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Opening Badger database connection")

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // Disable default badger logger to use arbor

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Badger database initialized")

	return &BadgerDB{
		store:  store,
		logger: logger,
		config: config,
	}, nil
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// StartGC launches periodic value-log garbage collection. Badger only
// reclaims value-log space when the application drives GC.
func (b *BadgerDB) StartGC(interval time.Duration) {
	if b.gcDone != nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	b.gcDone = make(chan struct{})
	done := b.gcDone

	common.SafeGo(b.logger, "badger-gc", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// One GC call rewrites at most one value-log file;
				// keep going while it reports progress
				for {
					err := b.store.Badger().RunValueLogGC(0.5)
					if err == nil {
						continue
					}
					if err != badgerdb.ErrNoRewrite {
						b.logger.Warn().Err(err).Msg("Badger value log GC failed")
					}
					break
				}
			}
		}
	})
}

// StopGC stops the value-log GC goroutine
func (b *BadgerDB) StopGC() {
	if b.gcDone != nil {
		close(b.gcDone)
		b.gcDone = nil
	}
}

// Close closes the database connection
func (b *BadgerDB) Close() error {
	b.StopGC()
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
