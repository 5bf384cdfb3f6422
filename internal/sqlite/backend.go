// Package sqlite implements the SQLite catalog backend for typelayout.
// SQLite serves queries; definitions.jsonl in DataDir is the source of truth
// and is reloaded into a fresh database on every Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// Backend implements types.Catalog using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

var _ types.Catalog = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, rebuilds the SQLite database, and
// loads definitions.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is a cache of the JSONL log; start from a fresh schema.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	logPath := filepath.Join(dataDir, definitionsFileName)
	if err := ensureFile(logPath); err != nil {
		db.Close()
		return err
	}
	loaded, err := loadDefinitionsJSONL(db, logPath)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.attached = true

	Logger().Debug("catalog attached",
		zap.String("data_dir", dataDir),
		zap.Int("definitions", loaded))
	return nil
}

// Detach releases all resources held by the backend.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Append stores def at the end of the log. When ID is empty a UUID v7 is
// generated; when DefinedAt is zero the current time is used.
func (b *Backend) Append(def types.Definition) (types.Definition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Definition{}, types.ErrCatalogDetached
	}
	if err := def.Validate(); err != nil {
		return types.Definition{}, err
	}
	if def.ID == "" {
		def.ID = generateUUID()
	}
	if def.DefinedAt.IsZero() {
		def.DefinedAt = time.Now().UTC()
	}

	tx, err := b.db.Begin()
	if err != nil {
		return types.Definition{}, err
	}
	defer tx.Rollback()

	if err := insertDefinition(tx, def); err != nil {
		return types.Definition{}, err
	}
	// definitions.jsonl is written before commit so a failed write leaves
	// neither store holding def.
	defs, err := queryDefinitions(tx)
	if err != nil {
		return types.Definition{}, err
	}
	if err := WriteJSONL(filepath.Join(b.config.DataDir, definitionsFileName), defs); err != nil {
		return types.Definition{}, fmt.Errorf("persist definitions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		if perr := b.persistLocked(); perr != nil {
			Logger().Warn("restore definitions log", zap.Error(perr))
		}
		return types.Definition{}, err
	}
	return def, nil
}

// Definitions returns the log in append order.
func (b *Backend) Definitions() ([]types.Definition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrCatalogDetached
	}
	return queryDefinitions(b.db)
}

// Reset deletes every stored definition and truncates the JSONL log.
func (b *Backend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrCatalogDetached
	}
	if _, err := b.db.Exec("DELETE FROM definitions"); err != nil {
		return err
	}
	return b.persistLocked()
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// persistLocked rewrites definitions.jsonl from the database.
// The caller must hold b.mu write lock.
func (b *Backend) persistLocked() error {
	defs, err := queryDefinitions(b.db)
	if err != nil {
		return err
	}
	return WriteJSONL(filepath.Join(b.config.DataDir, definitionsFileName), defs)
}

// generateUUID generates a new UUID v7 for definition IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertDefinition(ex execer, def types.Definition) error {
	size, err := safecast.Conv[int64](def.Size)
	if err != nil {
		return fmt.Errorf("definition %q size: %w", def.Name, err)
	}
	align, err := safecast.Conv[int64](def.Alignment)
	if err != nil {
		return fmt.Errorf("definition %q alignment: %w", def.Name, err)
	}
	members := def.Members
	if members == nil {
		members = []string{}
	}
	membersJSON, err := json.Marshal(members)
	if err != nil {
		return err
	}
	_, err = ex.Exec(
		"INSERT INTO definitions ("+definitionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		def.ID, string(def.Kind), def.Name, size, align, string(membersJSON),
		def.DefinedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert definition %q: %w", def.Name, err)
	}
	return nil
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func queryDefinitions(q queryer) ([]types.Definition, error) {
	rows, err := q.Query("SELECT " + definitionColumns + " FROM definitions ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []types.Definition
	for rows.Next() {
		var (
			def          types.Definition
			kind         string
			size, align  int64
			members      string
			definedAtStr string
		)
		if err := rows.Scan(&def.ID, &kind, &def.Name, &size, &align, &members, &definedAtStr); err != nil {
			return nil, err
		}
		def.Kind = types.Kind(kind)
		if def.Size, err = safecast.Conv[uint64](size); err != nil {
			return nil, fmt.Errorf("definition %q size: %w", def.Name, err)
		}
		if def.Alignment, err = safecast.Conv[uint64](align); err != nil {
			return nil, fmt.Errorf("definition %q alignment: %w", def.Name, err)
		}
		if err := json.Unmarshal([]byte(members), &def.Members); err != nil {
			return nil, fmt.Errorf("definition %q members: %w", def.Name, err)
		}
		if len(def.Members) == 0 {
			def.Members = nil
		}
		if def.DefinedAt, err = time.Parse(time.RFC3339Nano, definedAtStr); err != nil {
			return nil, fmt.Errorf("definition %q defined_at: %w", def.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}
