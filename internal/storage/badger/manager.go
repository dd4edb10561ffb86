package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// gcInterval is how often the value-log garbage collector runs
const gcInterval = 10 * time.Minute

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	course interfaces.CourseStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}
	db.StartGC(gcInterval)

	manager := &Manager{
		db:     db,
		course: NewCourseStorage(db, logger),
		logger: logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// CourseStorage returns the course storage interface
func (m *Manager) CourseStorage() interfaces.CourseStorage {
	return m.course
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
