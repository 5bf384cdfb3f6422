package sqlite

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// loadDefinitionsJSONL reads definitions.jsonl and inserts its records into
// the definitions table in file order. Loading is transactional: all
// records load or the table stays empty. Records that fail validation or
// violate constraints (for example a repeated name) are skipped. Unknown
// JSON fields are ignored. Returns the number of records loaded.
func loadDefinitionsJSONL(db *sql.DB, path string) (int, error) {
	defs, err := ReadJSONL(path)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	loaded := 0
	for _, def := range defs {
		if def.ID == "" {
			def.ID = generateUUID()
		}
		if err := def.Validate(); err != nil {
			Logger().Warn("skipping invalid definition",
				zap.String("name", def.Name),
				zap.Error(err))
			continue
		}
		if err := insertDefinition(tx, def); err != nil {
			Logger().Warn("skipping definition",
				zap.String("name", def.Name),
				zap.Error(err))
			continue
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}
