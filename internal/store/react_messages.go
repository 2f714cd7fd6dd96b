package store

import "fmt"

// AddReactMessage marks a message as a reaction-role panel. Upsert: marking
// the same message again refreshes its channel and guild.
func (s *Store) AddReactMessage(messageID, channelID, guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO react_message (message_id, channel_id, guild_id) VALUES (?, ?, ?)`,
		messageID, channelID, guildID,
	); err != nil {
		return fmt.Errorf("failed to add react message: %w", err)
	}
	return nil
}

// ReactMessages returns every known panel message across all guilds. Called
// once at startup to re-register reaction listeners.
func (s *Store) ReactMessages() ([]ReactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT message_id, channel_id, guild_id FROM react_message`)
	if err != nil {
		return nil, fmt.Errorf("failed to query react messages: %w", err)
	}
	defer rows.Close()

	var msgs []ReactMessage
	for rows.Next() {
		var m ReactMessage
		if err := rows.Scan(&m.MessageID, &m.ChannelID, &m.GuildID); err != nil {
			return nil, fmt.Errorf("failed to scan react message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// RemoveReactMessage unmarks a panel message.
func (s *Store) RemoveReactMessage(messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`DELETE FROM react_message WHERE message_id = ?`,
		messageID,
	); err != nil {
		return fmt.Errorf("failed to remove react message: %w", err)
	}
	return nil
}
