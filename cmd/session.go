package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/config"
	"github.com/twiced-technology-gmbh/projtrack/internal/filelock"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
	"github.com/twiced-technology-gmbh/projtrack/internal/store"
	"github.com/twiced-technology-gmbh/projtrack/internal/store/filestore"
	"github.com/twiced-technology-gmbh/projtrack/internal/store/sqlstore"
	"github.com/twiced-technology-gmbh/projtrack/internal/store/xlsxstore"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

// openStore builds the backend selected in cfg.
func openStore(cfg *config.Config, log lgr.L) (store.Store, error) {
	path := cfg.StoragePath()
	switch cfg.Storage.Backend {
	case store.BackendFiles:
		return filestore.New(path, log), nil
	case store.BackendSQLite:
		s, err := sqlstore.Open(path, log)
		if err != nil {
			return nil, clierr.Newf(clierr.StorageUnavailable, "opening database %s: %v", path, err).WithCause(err)
		}
		return s, nil
	case store.BackendXLSX:
		return xlsxstore.New(path, log), nil
	default:
		return nil, clierr.Newf(clierr.ValidationFailed, "unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openSettings returns the settings store. Workbook trackers keep settings
// in their Settings sheet; the others use settings.yml.
func openSettings(cfg *config.Config, s store.Store) settings.Store {
	if xs, ok := s.(*xlsxstore.Store); ok {
		return xs.Settings()
	}
	return settings.NewFileStore(cfg.Dir())
}

// session is one CLI invocation's view of the tracker: the loaded config,
// the guarded store, and an engine seeded from it. Every successful
// mutation is saved and appended to the activity log.
type session struct {
	cfg    *config.Config
	store  *store.Guard
	engine *tracker.Engine
	unlock func() error

	saved   bool
	saveErr error
}

// openSession loads the tracker. A mutating session holds the tracker lock
// until close so that concurrent invocations cannot interleave.
func openSession(mutating bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, unlock: func() error { return nil }}
	if mutating {
		unlock, err := filelock.Lock(cfg.LockPath())
		if err != nil {
			return nil, fmt.Errorf("acquiring lock: %w", err)
		}
		s.unlock = unlock
	}

	backend, err := openStore(cfg, logger)
	if err != nil {
		_ = s.unlock()
		return nil, err
	}
	s.store = store.NewGuard(backend, logger)

	projects, loadErr := s.store.Load()
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read %s, showing an empty tracker: %v\n",
			s.store.Location(), loadErr)
	}
	printWarnings(s.store.Warnings())

	s.engine = tracker.New(
		tracker.WithLogger(logger),
		tracker.WithObserver(s.persist),
	)
	// The engine stays empty when seeding fails; the guard keeps the
	// unusable data on disk from being overwritten.
	if err := s.engine.Seed(projects); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s holds unusable data, showing an empty tracker: %v\n",
			s.store.Location(), err)
		s.store.Reject(err)
	}
	return s, nil
}

// persist is the engine observer: save the new snapshot, then record the
// mutation. A failed save is reported, never rolled back.
func (s *session) persist(res tracker.Result) {
	if err := s.store.Save(res.Snapshot); err != nil {
		s.saveErr = err
		fmt.Fprintf(os.Stderr, "Warning: changes not saved: %v\n", err)
		return
	}
	s.saved = true
	board.LogMutation(s.cfg.Dir(), string(res.Op), res.ProjectID, res.TaskID, res.Detail)
}

func (s *session) settings() settings.Store {
	return openSettings(s.cfg, s.store.Store)
}

func (s *session) close() error {
	return errors.Join(s.store.Close(), s.unlock())
}

// printWarnings writes skipped-record warnings to stderr.
func printWarnings(warnings []store.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed record %s: %v\n", w.Source, w.Err)
	}
}
