// ABOUTME: Schema manager: DDL, versioned forward-only migrations, and seeding.
// ABOUTME: Migration history is append-only; each step commits or leaves the prior version intact.
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// schemaVersion is the version a freshly initialized database ends up at.
const schemaVersion = 2

type migration struct {
	version     int
	description string
	stmts       []string
}

// migrations is applied in ascending version order. Entries are never edited
// after release; schema changes get a new version.
var migrations = []migration{
	{
		version:     1,
		description: "core tables: sessions, daily_stats, streak_state, achievements",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				preset TEXT NOT NULL,
				started_at TEXT NOT NULL,
				ends_at TEXT NOT NULL,
				completed_at TEXT,
				was_completed INTEGER NOT NULL DEFAULT 0,
				total_minutes INTEGER NOT NULL DEFAULT 0,
				date_key TEXT NOT NULL,
				week_key TEXT NOT NULL,
				month_key TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date_key)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_week ON sessions(week_key)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_month ON sessions(month_key)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_preset ON sessions(preset)`,
			`CREATE TABLE IF NOT EXISTS daily_stats (
				date_key TEXT PRIMARY KEY,
				total_sessions INTEGER NOT NULL DEFAULT 0,
				completed_sessions INTEGER NOT NULL DEFAULT 0,
				total_minutes INTEGER NOT NULL DEFAULT 0,
				quick_sessions INTEGER NOT NULL DEFAULT 0,
				standard_sessions INTEGER NOT NULL DEFAULT 0,
				deep_sessions INTEGER NOT NULL DEFAULT 0,
				met_goal INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS streak_state (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				current_streak INTEGER NOT NULL DEFAULT 0,
				best_streak INTEGER NOT NULL DEFAULT 0,
				last_active_date TEXT NOT NULL DEFAULT '',
				streak_start_date TEXT NOT NULL DEFAULT '',
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS achievement_definitions (
				id TEXT PRIMARY KEY,
				category TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				icon TEXT NOT NULL DEFAULT '',
				criteria_type TEXT NOT NULL,
				criteria_value INTEGER NOT NULL,
				criteria_unit TEXT NOT NULL DEFAULT '',
				sort_order INTEGER NOT NULL DEFAULT 0,
				hidden INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS achievement_progress (
				achievement_id TEXT PRIMARY KEY REFERENCES achievement_definitions(id),
				current_progress INTEGER NOT NULL DEFAULT 0,
				unlocked INTEGER NOT NULL DEFAULT 0,
				unlocked_at TEXT,
				progress_updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version:     2,
		description: "read views for weekly, monthly, and preset statistics",
		stmts: []string{
			`CREATE VIEW IF NOT EXISTS weekly_stats AS
				SELECT week_key AS key,
				       COUNT(*) AS total_sessions,
				       COALESCE(SUM(was_completed), 0) AS completed_sessions,
				       COALESCE(SUM(total_minutes), 0) AS total_minutes
				FROM sessions GROUP BY week_key`,
			`CREATE VIEW IF NOT EXISTS monthly_stats AS
				SELECT month_key AS key,
				       COUNT(*) AS total_sessions,
				       COALESCE(SUM(was_completed), 0) AS completed_sessions,
				       COALESCE(SUM(total_minutes), 0) AS total_minutes
				FROM sessions GROUP BY month_key`,
			`CREATE VIEW IF NOT EXISTS preset_stats AS
				SELECT preset,
				       COUNT(*) AS total_sessions,
				       COALESCE(SUM(was_completed), 0) AS completed_sessions,
				       COALESCE(SUM(total_minutes), 0) AS total_minutes
				FROM sessions GROUP BY preset`,
		},
	},
}

// initialize brings the schema to the current version, seeds the achievement
// catalog, and creates the singleton streak row. Idempotent; any failure is a
// SchemaError and the database stays at the last fully applied version.
func (s *Store) initialize() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return &SchemaError{Op: "create version table", Err: err}
	}

	current, err := s.currentVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return err
		}
	}

	if err := s.seedDefinitions(); err != nil {
		return err
	}
	if err := s.initStreakRow(); err != nil {
		return err
	}
	return nil
}

// currentVersion reads the highest applied version, 0 for a fresh database.
func (s *Store) currentVersion() (int, error) {
	var v sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, &SchemaError{Op: "read version", Err: err}
	}
	return int(v.Int64), nil
}

// SchemaVersion returns the database's recorded schema version.
func (s *Store) SchemaVersion() (int, error) {
	return s.currentVersion()
}

// MigrationHistory returns the applied migrations in version order.
func (s *Store) MigrationHistory() ([]string, error) {
	rows, err := s.db.Query(`SELECT version, description FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, storageErr("migration history", err)
	}
	defer rows.Close()

	var history []string
	for rows.Next() {
		var v int
		var desc string
		if err := rows.Scan(&v, &desc); err != nil {
			return nil, storageErr("migration history", err)
		}
		history = append(history, fmt.Sprintf("v%d: %s", v, desc))
	}
	return history, rows.Err()
}

// applyMigration runs one migration step in its own transaction, recording it
// in the history table on success. A failure rolls the whole step back.
func (s *Store) applyMigration(m migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &SchemaError{Op: fmt.Sprintf("begin migration v%d", m.version), Err: err}
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return &SchemaError{Op: fmt.Sprintf("migrate v%d", m.version), Err: err}
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
		m.version, m.description, time.Now().Format(time.RFC3339),
	); err != nil {
		return &SchemaError{Op: fmt.Sprintf("record v%d", m.version), Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &SchemaError{Op: fmt.Sprintf("commit v%d", m.version), Err: err}
	}
	return nil
}

// seedDefinitions upserts the achievement catalog by id. Display fields follow
// the catalog across versions; existing progress rows are never touched.
func (s *Store) seedDefinitions() error {
	tx, err := s.db.Begin()
	if err != nil {
		return &SchemaError{Op: "begin seed", Err: err}
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)
	for _, d := range s.defs {
		if _, err := tx.Exec(`
			INSERT INTO achievement_definitions
				(id, category, name, description, icon, criteria_type, criteria_value, criteria_unit, sort_order, hidden)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				category = excluded.category,
				name = excluded.name,
				description = excluded.description,
				icon = excluded.icon,
				criteria_type = excluded.criteria_type,
				criteria_value = excluded.criteria_value,
				criteria_unit = excluded.criteria_unit,
				sort_order = excluded.sort_order,
				hidden = excluded.hidden`,
			d.ID, string(d.Category), d.Name, d.Description, d.Icon,
			string(d.CriteriaType), d.CriteriaValue, d.CriteriaUnit, d.SortOrder, boolToInt(d.Hidden),
		); err != nil {
			return &SchemaError{Op: "seed definition " + d.ID, Err: err}
		}
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO achievement_progress (achievement_id, current_progress, unlocked, progress_updated_at)
			VALUES (?, 0, 0, ?)`,
			d.ID, now,
		); err != nil {
			return &SchemaError{Op: "seed progress " + d.ID, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &SchemaError{Op: "commit seed", Err: err}
	}
	return nil
}

// initStreakRow creates the singleton streak row if absent.
func (s *Store) initStreakRow() error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO streak_state (id, current_streak, best_streak, last_active_date, streak_start_date, updated_at)
		VALUES (1, 0, 0, '', '', ?)`,
		time.Now().Format(time.RFC3339))
	if err != nil {
		return &SchemaError{Op: "init streak row", Err: err}
	}
	return nil
}

// Reset destroys all core state and re-initializes from empty. Development and
// test flows only; never part of the production data path.
func (s *Store) Reset() error {
	drops := []string{
		`DROP VIEW IF EXISTS weekly_stats`,
		`DROP VIEW IF EXISTS monthly_stats`,
		`DROP VIEW IF EXISTS preset_stats`,
		`DROP TABLE IF EXISTS achievement_progress`,
		`DROP TABLE IF EXISTS achievement_definitions`,
		`DROP TABLE IF EXISTS streak_state`,
		`DROP TABLE IF EXISTS daily_stats`,
		`DROP TABLE IF EXISTS sessions`,
		`DROP TABLE IF EXISTS schema_migrations`,
	}
	for _, stmt := range drops {
		if _, err := s.db.Exec(stmt); err != nil {
			return &SchemaError{Op: "reset", Err: err}
		}
	}
	return s.initialize()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
