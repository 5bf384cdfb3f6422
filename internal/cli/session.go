package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/typelayout/internal/registry"
	"github.com/mesh-intelligence/typelayout/internal/sqlite"
	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// session pairs the in-memory registry with the optional catalog that
// persists its definition log between invocations.
type session struct {
	reg     *registry.Registry
	catalog *sqlite.Backend // nil for the memory backend
	cfg     settings
	logger  *zap.Logger
}

// openSession builds the registry and, for the sqlite backend, attaches the
// catalog and replays its definitions.
func openSession(cfg settings, logger *zap.Logger) (*session, error) {
	s := &session{
		reg:    registry.New(registry.WithPackedAlignment(cfg.Policy())),
		cfg:    cfg,
		logger: logger,
	}
	if cfg.Backend != types.BackendSQLite {
		return s, nil
	}

	catalog := sqlite.NewBackend()
	if err := catalog.Attach(cfg.Config); err != nil {
		return nil, fmt.Errorf("attach catalog: %w", err)
	}
	defs, err := catalog.Definitions()
	if err != nil {
		catalog.Detach()
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := registry.Replay(s.reg, defs); err != nil {
		catalog.Detach()
		return nil, fmt.Errorf("replay catalog: %w", err)
	}
	s.catalog = catalog
	logger.Debug("session opened",
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("types", s.reg.Len()))
	return s, nil
}

// define registers def and, when a catalog is attached, appends it to the log.
func (s *session) define(def types.Definition) error {
	if err := s.reg.Define(def); err != nil {
		return err
	}
	if s.catalog == nil {
		return nil
	}
	if _, err := s.catalog.Append(def); err != nil {
		return &systemError{fmt.Errorf("persist %q: %w", def.Name, err)}
	}
	return nil
}

// defineAll applies defs in order and stops at the first failure. It returns
// the number of definitions applied.
func (s *session) defineAll(defs []types.Definition) (int, error) {
	for i, def := range defs {
		if err := s.define(def); err != nil {
			return i, err
		}
	}
	return len(defs), nil
}

// definitions returns the definition log, from the catalog when attached so
// stored IDs and timestamps are included.
func (s *session) definitions() ([]types.Definition, error) {
	if s.catalog != nil {
		return s.catalog.Definitions()
	}
	return s.reg.Definitions(), nil
}

// reset clears the catalog and starts a fresh registry.
func (s *session) reset() error {
	if s.catalog != nil {
		if err := s.catalog.Reset(); err != nil {
			return &systemError{err}
		}
	}
	s.reg = registry.New(registry.WithPackedAlignment(s.cfg.Policy()))
	return nil
}

func (s *session) close() error {
	if s == nil || s.catalog == nil {
		return nil
	}
	return s.catalog.Detach()
}
