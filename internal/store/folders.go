package store

import (
	"database/sql"
	"fmt"

	"rolebot/internal/logging"
)

// CreateFolder inserts a new folder and returns it with its assigned id.
// Labels are advisory only; duplicates within a guild are permitted.
func (s *Store) CreateFolder(guildID, label string) (*Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Creating folder guild=%s label=%q", guildID, label)

	res, err := s.db.Exec(
		`INSERT INTO folder (guild_id, label) VALUES (?, ?)`,
		guildID, label,
	)
	if err != nil {
		logging.StoreError("Failed to create folder %q in guild %s: %v", label, guildID, err)
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read folder id: %w", err)
	}
	return &Folder{ID: id, GuildID: guildID, Label: label}, nil
}

// RenameFolder updates a folder's label. Renaming a folder that does not
// exist in the guild affects zero rows and is not an error.
func (s *Store) RenameFolder(guildID string, id int64, newLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`UPDATE folder SET label = ? WHERE id = ? AND guild_id = ?`,
		newLabel, id, guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}
	return nil
}

// ListFolders returns all folders for a guild in insertion order. Callers
// display a derived positional index; the order carries no other meaning.
func (s *Store) ListFolders(guildID string) ([]Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, guild_id, label FROM folder WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.GuildID, &f.Label); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// FoldersByLabel returns every folder in the guild carrying the label.
// Duplicate labels are allowed, so the result is a slice.
func (s *Store) FoldersByLabel(guildID, label string) ([]Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, guild_id, label FROM folder WHERE guild_id = ? AND label = ?`,
		guildID, label,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders by label: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.GuildID, &f.Label); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// FolderContents left-joins a folder with its reaction roles. The folder
// metadata is returned even when it has no members, which is how callers
// validate a folder exists. A missing folder yields (nil, nil).
func (s *Store) FolderContents(id int64) (*FolderView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT folder.id, folder.guild_id, folder.label,
		       reaction_role.emoji_id, reaction_role.role_id, reaction_role.role_name
		FROM folder
		LEFT JOIN reaction_role ON folder.id = reaction_role.folder_id
		WHERE folder.id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query folder contents: %w", err)
	}
	defer rows.Close()

	var view *FolderView
	for rows.Next() {
		var f Folder
		var emojiID, roleID, roleName sql.NullString
		if err := rows.Scan(&f.ID, &f.GuildID, &f.Label, &emojiID, &roleID, &roleName); err != nil {
			return nil, fmt.Errorf("failed to scan folder contents: %w", err)
		}
		if view == nil {
			view = &FolderView{Folder: f}
		}
		if roleID.Valid {
			fid := f.ID
			view.Roles = append(view.Roles, ReactionRole{
				FolderID: &fid,
				GuildID:  f.GuildID,
				EmojiID:  emojiID.String,
				RoleID:   roleID.String,
				RoleName: roleName.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteFolder removes the folder and moves every member back to unfiled.
// Both steps run in one transaction so no reaction role is ever left
// pointing at a deleted folder.
func (s *Store) DeleteFolder(id int64) error {
	timer := logging.StartTimer(logging.CategoryStore, "DeleteFolder")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		logging.StoreError("Failed to start folder delete transaction: %v", err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM folder WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	if _, err := tx.Exec(`UPDATE reaction_role SET folder_id = NULL WHERE folder_id = ?`, id); err != nil {
		return fmt.Errorf("failed to unfile folder members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit folder delete: %w", err)
	}
	logging.StoreDebug("Deleted folder %d, members moved to unfiled", id)
	return nil
}
