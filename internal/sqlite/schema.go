package sqlite

// Schema DDL for the definition log. seq preserves append order, which is the
// only valid replay order.
const (
	createDefinitions = `CREATE TABLE IF NOT EXISTS definitions (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    definition_id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    name TEXT NOT NULL UNIQUE,
    size INTEGER NOT NULL DEFAULT 0,
    alignment INTEGER NOT NULL DEFAULT 0,
    members TEXT NOT NULL DEFAULT '[]',
    defined_at TEXT NOT NULL
);`

	idxDefinitionsKind = `CREATE INDEX IF NOT EXISTS idx_definitions_kind ON definitions(kind);`
)

// schemaDDL lists all statements executed on Attach, in order.
var schemaDDL = []string{
	createDefinitions,
	idxDefinitionsKind,
}

// Column list shared by inserts and selects.
const definitionColumns = "definition_id, kind, name, size, alignment, members, defined_at"

// Files inside DataDir.
const (
	dbFileName          = "typelayout.db"
	definitionsFileName = "definitions.jsonl"
)
