package store

import (
	"database/sql"
	"errors"
	"fmt"

	"rolebot/internal/logging"
)

// AddReactionRole binds an emoji to a role, optionally inside a folder.
// A nil folderID files the role as unfiled. Returns ErrDuplicate when the
// (emoji, role) pair is already bound; the existing binding is untouched.
func (s *Store) AddReactionRole(emojiID, roleID, roleName, guildID string, folderID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Binding emoji=%s role=%s guild=%s", emojiID, roleID, guildID)

	_, err := s.db.Exec(
		`INSERT INTO reaction_role (emoji_id, role_id, role_name, guild_id, folder_id) VALUES (?, ?, ?, ?, ?)`,
		emojiID, roleID, roleName, guildID, folderID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reaction role %s/%s: %w", emojiID, roleID, ErrDuplicate)
		}
		logging.StoreError("Failed to bind emoji %s to role %s: %v", emojiID, roleID, err)
		return fmt.Errorf("failed to add reaction role: %w", err)
	}
	return nil
}

// RemoveReactionRole deletes every binding for the role. A role may be bound
// by several emoji; this is a role-level unbind, not an emoji-level one.
func (s *Store) RemoveReactionRole(roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM reaction_role WHERE role_id = ?`, roleID); err != nil {
		return fmt.Errorf("failed to remove reaction role: %w", err)
	}
	return nil
}

// RolesByFolder returns the guild's reaction roles in the given folder.
// A nil folderID selects the unfiled bucket.
func (s *Store) RolesByFolder(guildID string, folderID *int64) ([]ReactionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rows *sql.Rows
		err  error
	)
	if folderID == nil {
		rows, err = s.db.Query(
			`SELECT folder_id, guild_id, emoji_id, role_id, role_name FROM reaction_role
			 WHERE folder_id IS NULL AND guild_id = ?`,
			guildID,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT folder_id, guild_id, emoji_id, role_id, role_name FROM reaction_role
			 WHERE folder_id = ? AND guild_id = ?`,
			*folderID, guildID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query roles by folder: %w", err)
	}
	defer rows.Close()

	return scanReactionRoles(rows)
}

// GiveFolder reassigns the folder membership of every binding for the role.
// A nil folderID moves the role back to unfiled. Used both by the
// add-to-folder flow and by the folder delete cascade.
func (s *Store) GiveFolder(roleID string, folderID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`UPDATE reaction_role SET folder_id = ? WHERE role_id = ?`,
		folderID, roleID,
	); err != nil {
		return fmt.Errorf("failed to set folder: %w", err)
	}
	return nil
}

// RoleByReaction resolves which role, if any, the emoji grants in the guild.
// This is the hot path, hit on every reaction event; an unknown emoji
// returns (nil, nil) and is not an error.
func (s *Store) RoleByReaction(emojiID, guildID string) (*ReactionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.scanOneReactionRole(
		`SELECT folder_id, guild_id, emoji_id, role_id, role_name FROM reaction_role
		 WHERE emoji_id = ? AND guild_id = ?`,
		emojiID, guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reaction: %w", err)
	}
	return r, nil
}

// RoleByName finds a reaction role by its display name within a guild.
func (s *Store) RoleByName(roleName, guildID string) (*ReactionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.scanOneReactionRole(
		`SELECT folder_id, guild_id, emoji_id, role_id, role_name FROM reaction_role
		 WHERE role_name = ? AND guild_id = ?`,
		roleName, guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up role by name: %w", err)
	}
	return r, nil
}

// ReactionsByRole returns all bindings for a role id.
func (s *Store) ReactionsByRole(roleID string) ([]ReactionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT folder_id, guild_id, emoji_id, role_id, role_name FROM reaction_role WHERE role_id = ?`,
		roleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions by role: %w", err)
	}
	defer rows.Close()

	return scanReactionRoles(rows)
}

// GuildReactions returns every reaction role in the guild, filed or not.
func (s *Store) GuildReactions(guildID string) ([]ReactionRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT folder_id, guild_id, emoji_id, role_id, role_name FROM reaction_role WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query guild reactions: %w", err)
	}
	defer rows.Close()

	return scanReactionRoles(rows)
}

// RemoveUnfiled bulk-deletes all unfiled bindings for a guild (admin reset).
func (s *Store) RemoveUnfiled(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.Store("Removing unfiled reaction roles for guild %s", guildID)
	if _, err := s.db.Exec(
		`DELETE FROM reaction_role WHERE folder_id IS NULL AND guild_id = ?`,
		guildID,
	); err != nil {
		return fmt.Errorf("failed to remove unfiled roles: %w", err)
	}
	return nil
}

func (s *Store) scanOneReactionRole(query string, args ...any) (*ReactionRole, error) {
	var r ReactionRole
	var folderID sql.NullInt64
	err := s.db.QueryRow(query, args...).
		Scan(&folderID, &r.GuildID, &r.EmojiID, &r.RoleID, &r.RoleName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if folderID.Valid {
		r.FolderID = &folderID.Int64
	}
	return &r, nil
}

func scanReactionRoles(rows *sql.Rows) ([]ReactionRole, error) {
	var roles []ReactionRole
	for rows.Next() {
		var r ReactionRole
		var folderID sql.NullInt64
		if err := rows.Scan(&folderID, &r.GuildID, &r.EmojiID, &r.RoleID, &r.RoleName); err != nil {
			return nil, fmt.Errorf("failed to scan reaction role: %w", err)
		}
		if folderID.Valid {
			r.FolderID = &folderID.Int64
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
