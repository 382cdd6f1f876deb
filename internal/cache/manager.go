package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/internal/conn"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
)

// ResolveDirectory ensures the configured directory exists (creating it
// recursively if missing) and returns its canonical path, resolving
// symlinks and "..".
func ResolveDirectory(path string) (string, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", errcode.New(errcode.InvalidArgument, errors.Errorf("cache: %q exists and is not a directory", path))
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(path, 0o755); mkErr != nil {
			return "", errcode.New(errcode.IoError, errors.Trace(mkErr))
		}
	default:
		return "", errcode.New(errcode.IoError, errors.Trace(err))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errcode.New(errcode.IoError, errors.Trace(err))
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errcode.New(errcode.IoError, errors.Trace(err))
	}
	return canon, nil
}

// Manager hands out Connections keyed by canonical directory path,
// backed by the weak-value cache in cache.go.
type Manager struct {
	weak *Weak[conn.Connection]
	log  logging.Logger
}

// NewManager constructs a Manager whose opened Connections log through
// log (logging.NoOp{} if nil).
func NewManager(log logging.Logger) *Manager {
	if log == nil {
		log = logging.NoOp{}
	}
	return &Manager{weak: NewWeak[conn.Connection](), log: log}
}

// OpenConnection resolves dir and returns the shared Connection for its
// canonical path, constructing one on first use. The caller must invoke
// release once done using the returned Connection.
func (m *Manager) OpenConnection(dir string) (c *conn.Connection, release func(), err error) {
	canon, err := ResolveDirectory(dir)
	if err != nil {
		return nil, nil, err
	}

	return m.weak.Open(canon,
		func(key string) (*conn.Connection, error) {
			return conn.New(key, m.log), nil
		},
		func(lost *conn.Connection) {
			lost.Close()
		},
	)
}

// SweepLoop periodically removes dead cache entries until ctx is
// cancelled. Entries are normally removed deterministically on release;
// this loop is the backstop for release funcs a caller never ran.
// Matches the func(ctx) error shape cmd/tdbhdf5 supervises through
// errgroup.
func (m *Manager) SweepLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.weak.Sweep(); n > 0 {
				m.log.FullDebugf("cache: swept %d dead entries", n)
			}
		}
	}
}
