package store

import "fmt"

// AddJoinRole registers a role to auto-grant on member join. The id is
// caller-supplied and unique; inserting a duplicate returns ErrDuplicate.
func (s *Store) AddJoinRole(id, roleName, roleID, guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO join_roles (id, role_name, role_id, guild_id) VALUES (?, ?, ?, ?)`,
		id, roleName, roleID, guildID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("join role %s: %w", id, ErrDuplicate)
		}
		return fmt.Errorf("failed to add join role: %w", err)
	}
	return nil
}

// JoinRoles returns the guild's auto-granted roles.
func (s *Store) JoinRoles(guildID string) ([]JoinRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, role_name, role_id, guild_id FROM join_roles WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query join roles: %w", err)
	}
	defer rows.Close()

	var roles []JoinRole
	for rows.Next() {
		var r JoinRole
		if err := rows.Scan(&r.ID, &r.RoleName, &r.RoleID, &r.GuildID); err != nil {
			return nil, fmt.Errorf("failed to scan join role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// RemoveJoinRole unregisters a join role. Removing an unknown role is a no-op.
func (s *Store) RemoveJoinRole(guildID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`DELETE FROM join_roles WHERE guild_id = ? AND role_id = ?`,
		guildID, roleID,
	); err != nil {
		return fmt.Errorf("failed to remove join role: %w", err)
	}
	return nil
}
