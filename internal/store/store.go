// Package store is the persistence layer for role folders, reaction roles,
// join roles and reaction panel messages. All records are scoped by guild id;
// platform-assigned ids (guilds, roles, emoji, messages, channels) are kept
// as opaque strings throughout.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rolebot/internal/logging"

	_ "modernc.org/sqlite"
)

// Store owns the SQLite handle for all four record families. A single Store
// is opened at process start and shared for the process lifetime; no second
// writer may be opened against the same file.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Folder groups reaction roles under an admin-chosen label. Labels are not
// unique; callers address folders by id.
type Folder struct {
	ID      int64
	GuildID string
	Label   string
}

// ReactionRole binds an emoji reaction to a grantable role. FolderID is nil
// for unfiled roles. The (EmojiID, RoleID) pair is unique.
type ReactionRole struct {
	FolderID *int64
	GuildID  string
	EmojiID  string
	RoleID   string
	RoleName string
}

// JoinRole is granted automatically when a member joins the guild.
type JoinRole struct {
	ID       string
	RoleName string
	RoleID   string
	GuildID  string
}

// ReactMessage marks a message as a reaction-role panel.
type ReactMessage struct {
	MessageID string
	ChannelID string
	GuildID   string
}

// FolderView is a folder together with its current members. Roles is empty
// for a folder with no bound roles.
type FolderView struct {
	Folder
	Roles []ReactionRole
}

// New opens (or creates) the database at path and ensures the schema exists.
func New(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "New")
	defer timer.Stop()

	logging.Store("Opening role store at %s", path)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single-writer model: everything shares one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		logging.StoreError("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Schema ready")

	return s, nil
}

// initialize creates the four record-family tables. Idempotent; uniqueness
// constraints live in the schema, not in application pre-checks.
func (s *Store) initialize() error {
	folderTable := `
	CREATE TABLE IF NOT EXISTS folder (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		label TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_folder_guild ON folder(guild_id);
	`

	reactionRoleTable := `
	CREATE TABLE IF NOT EXISTS reaction_role (
		folder_id INTEGER,
		guild_id TEXT NOT NULL,
		emoji_id TEXT NOT NULL,
		role_id TEXT NOT NULL,
		role_name TEXT NOT NULL,
		PRIMARY KEY (emoji_id, role_id)
	);
	CREATE INDEX IF NOT EXISTS idx_reaction_role_guild ON reaction_role(guild_id);
	CREATE INDEX IF NOT EXISTS idx_reaction_role_folder ON reaction_role(folder_id);
	`

	joinRolesTable := `
	CREATE TABLE IF NOT EXISTS join_roles (
		id TEXT PRIMARY KEY,
		role_name TEXT NOT NULL,
		role_id TEXT NOT NULL,
		guild_id TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_join_roles_id ON join_roles(id);
	CREATE INDEX IF NOT EXISTS idx_join_roles_guild ON join_roles(guild_id);
	`

	reactMessageTable := `
	CREATE TABLE IF NOT EXISTS react_message (
		message_id TEXT PRIMARY KEY,
		channel_id TEXT NOT NULL,
		guild_id TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_react_message_guild ON react_message(guild_id);
	`

	for _, table := range []string{
		folderTable,
		reactionRoleTable,
		joinRolesTable,
		reactMessageTable,
	} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	logging.Store("Closing role store")
	return s.db.Close()
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Stats returns per-table row counts.
func (s *Store) Stats() (map[string]int64, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Stats")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int64)
	for _, table := range []string{"folder", "reaction_role", "join_roles", "react_message"} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}
