package store

import (
	"fmt"

	"rolebot/internal/logging"
)

// UpdateRoleNames propagates a platform role rename to every reaction role
// and join role referencing the role id. Both tables update in one
// transaction so listings never show a mix of old and new names.
func (s *Store) UpdateRoleNames(roleID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE reaction_role SET role_name = ? WHERE role_id = ?`, newName, roleID); err != nil {
		return fmt.Errorf("failed to update reaction role names: %w", err)
	}
	if _, err := tx.Exec(`UPDATE join_roles SET role_name = ? WHERE role_id = ?`, newName, roleID); err != nil {
		return fmt.Errorf("failed to update join role names: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit role rename: %w", err)
	}
	return nil
}

// DeleteRole drops a platform-deleted role from both role tables.
func (s *Store) DeleteRole(roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reaction_role WHERE role_id = ?`, roleID); err != nil {
		return fmt.Errorf("failed to delete reaction roles: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM join_roles WHERE role_id = ?`, roleID); err != nil {
		return fmt.Errorf("failed to delete join roles: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit role delete: %w", err)
	}
	return nil
}

// PurgeGuild deletes all four record families for a guild after the bot is
// kicked or the guild is deleted. All-or-nothing: a half-purged guild could
// leave reaction roles pointing at deleted folders.
func (s *Store) PurgeGuild(guildID string) error {
	timer := logging.StartTimer(logging.CategoryStore, "PurgeGuild")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	logging.Store("Purging all records for guild %s", guildID)

	tx, err := s.db.Begin()
	if err != nil {
		logging.StoreError("Failed to start purge transaction for guild %s: %v", guildID, err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM join_roles WHERE guild_id = ?`,
		`DELETE FROM reaction_role WHERE guild_id = ?`,
		`DELETE FROM react_message WHERE guild_id = ?`,
		`DELETE FROM folder WHERE guild_id = ?`,
	} {
		if _, err := tx.Exec(stmt, guildID); err != nil {
			return fmt.Errorf("failed to purge guild %s: %w", guildID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit guild purge: %w", err)
	}
	return nil
}
