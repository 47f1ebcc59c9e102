package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"critable/internal/logging"
)

// ErrLocked reports that another critable process holds the data directory.
var ErrLocked = errors.New("another critable process is using the data directory")

// acquire takes the data directory lock and returns its release function.
func (m *Manager) acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(m.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(m.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, m.lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release lock", slog.String("lock", m.lockPath), logging.Error(err))
		}
	}, nil
}
