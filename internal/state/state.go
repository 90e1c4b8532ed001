// Package state persists per-file resume positions and the volume level in a
// small sqlite database.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/llehouerou/ripple/internal/db"
	"github.com/llehouerou/ripple/internal/errmsg"
)

const (
	appName    = "ripple"
	dbFileName = "ripple.db"

	// saveInterval bounds how long a position waits before it is written.
	// Positions arrive on every tick, so the timer is not restarted by them.
	saveInterval = 2 * time.Second

	// maxResumeEntries bounds the resume table; the least recently updated
	// rows are pruned first.
	maxResumeEntries = 200
)

type Manager struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time

	saveMu       sync.Mutex
	saveInterval time.Duration
	saveTimer    *time.Timer
	pending      map[string]float64
}

// Open opens the database under the XDG data directory, creating it if needed.
func Open(log zerolog.Logger) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, errors.Wrap(err, "resolve database path")
	}
	return OpenPath(dbPath, log)
}

// OpenPath opens the database at dbPath. ":memory:" gives a private
// in-memory database.
func OpenPath(dbPath string, log zerolog.Logger) (*Manager, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, errors.Wrap(err, "create data directory")
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dbPath)
	}
	// One connection: an in-memory database exists per connection, and the
	// debounced writer never needs more.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{
		db:           db,
		log:          log,
		now:          time.Now,
		saveInterval: saveInterval,
		pending:      make(map[string]float64),
	}, nil
}

// Close flushes pending saves and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	pending := m.takePendingLocked()
	m.saveMu.Unlock()

	m.flush(pending)
	return m.db.Close()
}

// SavePosition records the playback position of path. Writes are batched:
// the first pending position starts a timer and everything recorded until it
// fires is written together. Close flushes whatever is still pending.
func (m *Manager) SavePosition(path string, seconds float64) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending[path] = seconds
	if m.saveTimer != nil {
		return
	}

	m.saveTimer = time.AfterFunc(m.saveInterval, func() {
		m.saveMu.Lock()
		m.saveTimer = nil
		pending := m.takePendingLocked()
		m.saveMu.Unlock()

		m.flush(pending)
	})
}

// GetPosition returns the saved position of path. ok is false when the file
// has never been saved.
func (m *Manager) GetPosition(path string) (float64, bool, error) {
	var seconds float64
	err := m.db.QueryRow(`SELECT seconds FROM resume_positions WHERE path = ?`, path).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "get position of %s", path)
	}
	return seconds, true, nil
}

// ClearPosition forgets the saved position of path, including a pending one.
func (m *Manager) ClearPosition(path string) error {
	m.saveMu.Lock()
	delete(m.pending, path)
	m.saveMu.Unlock()

	_, err := m.db.Exec(`DELETE FROM resume_positions WHERE path = ?`, path)
	return errors.Wrapf(err, "clear position of %s", path)
}

// GetVolume returns the saved volume level. ok is false before the first save.
func (m *Manager) GetVolume() (float64, bool, error) {
	var volume sql.NullFloat64
	err := m.db.QueryRow(`SELECT volume FROM player_settings WHERE id = 1`).Scan(&volume)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "get volume")
	}
	return dbutil.NullFloat64Value(volume), volume.Valid, nil
}

// SaveVolume persists the volume level.
func (m *Manager) SaveVolume(level float64) error {
	_, err := m.db.Exec(`
		INSERT INTO player_settings (id, volume)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET volume = excluded.volume
	`, level)
	return errors.Wrap(err, "save volume")
}

func (m *Manager) takePendingLocked() map[string]float64 {
	if len(m.pending) == 0 {
		return nil
	}
	pending := m.pending
	m.pending = make(map[string]float64)
	return pending
}

func (m *Manager) flush(pending map[string]float64) {
	if len(pending) == 0 {
		return
	}
	if err := m.savePositions(pending); err != nil {
		m.log.Warn().Err(err).Int("count", len(pending)).Msg(errmsg.Format(errmsg.OpPositionSave, err))
	}
}

func (m *Manager) savePositions(positions map[string]float64) error {
	updatedAt := m.now().UnixNano()
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		for path, seconds := range positions {
			_, err := tx.Exec(`
				INSERT INTO resume_positions (path, seconds, updated_at)
				VALUES (?, ?, ?)
				ON CONFLICT(path) DO UPDATE SET
					seconds = excluded.seconds,
					updated_at = excluded.updated_at
			`, path, seconds, updatedAt)
			if err != nil {
				return errors.Wrapf(err, "save position of %s", path)
			}
		}

		_, err := tx.Exec(`
			DELETE FROM resume_positions WHERE path NOT IN (
				SELECT path FROM resume_positions ORDER BY updated_at DESC, path LIMIT ?
			)
		`, maxResumeEntries)
		return errors.Wrap(err, "prune resume positions")
	})
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
