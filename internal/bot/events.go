package bot

import (
	"rolebot/internal/logging"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// emojiKey returns the stored identifier for a reaction emoji: the snowflake
// for custom emoji, the literal for unicode emoji.
func emojiKey(emoji discord.PartialEmoji) string {
	if emoji.ID != nil {
		return emoji.ID.String()
	}
	if emoji.Name != nil {
		return *emoji.Name
	}
	return ""
}

// onReactionAdd resolves a reaction on a panel message to a role grant.
// Reactions that do not resolve are ignored; most reactions are unrelated
// to role panels.
func (b *Bot) onReactionAdd(event *events.GuildMessageReactionAdd) {
	if event.UserID == b.selfID {
		return
	}
	if !b.isPanel(event.MessageID.String()) {
		return
	}

	reqID := uuid.NewString()[:8]
	rlog := logging.WithRequestID(logging.CategoryEvents, reqID).
		WithField("guild", event.GuildID.String()).
		WithField("user", event.UserID.String())

	key := emojiKey(event.Emoji)
	rr, err := b.store.RoleByReaction(key, event.GuildID.String())
	if err != nil {
		b.log.Error("reaction lookup failed", zap.Error(err))
		rlog.Error("Reaction lookup failed: %v", err)
		return
	}
	if rr == nil {
		rlog.Debug("Emoji %s not bound, ignoring", key)
		return
	}

	roleID, err := snowflake.Parse(rr.RoleID)
	if err != nil {
		rlog.Error("Stored role id %q is not a snowflake: %v", rr.RoleID, err)
		return
	}
	if err := b.client.Rest.AddMemberRole(event.GuildID, event.UserID, roleID); err != nil {
		b.log.Error("failed to grant role",
			zap.String("role_id", rr.RoleID),
			zap.String("user_id", event.UserID.String()),
			zap.Error(err))
		logging.DiscordError("AddMemberRole %s -> %s failed: %v", rr.RoleID, event.UserID, err)
		return
	}
	rlog.Info("Granted role %s (%s) via emoji %s", rr.RoleName, rr.RoleID, key)
}

// onReactionRemove revokes the role granted by the matching reaction.
func (b *Bot) onReactionRemove(event *events.GuildMessageReactionRemove) {
	if event.UserID == b.selfID {
		return
	}
	if !b.isPanel(event.MessageID.String()) {
		return
	}

	key := emojiKey(event.Emoji)
	rr, err := b.store.RoleByReaction(key, event.GuildID.String())
	if err != nil {
		b.log.Error("reaction lookup failed", zap.Error(err))
		return
	}
	if rr == nil {
		return
	}

	roleID, err := snowflake.Parse(rr.RoleID)
	if err != nil {
		logging.EventsError("Stored role id %q is not a snowflake: %v", rr.RoleID, err)
		return
	}
	if err := b.client.Rest.RemoveMemberRole(event.GuildID, event.UserID, roleID); err != nil {
		logging.DiscordError("RemoveMemberRole %s from %s failed: %v", rr.RoleID, event.UserID, err)
		return
	}
	logging.Events("Revoked role %s (%s) from %s", rr.RoleName, rr.RoleID, event.UserID)
}

// onMemberJoin grants every configured join role to the new member.
func (b *Bot) onMemberJoin(event *events.GuildMemberJoin) {
	roles, err := b.store.JoinRoles(event.GuildID.String())
	if err != nil {
		b.log.Error("failed to load join roles", zap.Error(err))
		return
	}
	if len(roles) == 0 {
		return
	}

	userID := event.Member.User.ID
	for _, jr := range roles {
		roleID, err := snowflake.Parse(jr.RoleID)
		if err != nil {
			logging.EventsError("Stored join role id %q is not a snowflake: %v", jr.RoleID, err)
			continue
		}
		if err := b.client.Rest.AddMemberRole(event.GuildID, userID, roleID); err != nil {
			logging.DiscordError("Join role %s for %s failed: %v", jr.RoleID, userID, err)
			continue
		}
	}
	logging.Events("Applied %d join roles to %s in guild %s", len(roles), userID, event.GuildID)
}

// onGuildLeave purges everything the bot stored for the guild. Fired both
// when the bot is kicked and when the guild is deleted.
func (b *Bot) onGuildLeave(event *events.GuildLeave) {
	guildID := event.GuildID.String()
	b.log.Info("left guild, purging records", zap.String("guild_id", guildID))

	if err := b.store.PurgeGuild(guildID); err != nil {
		b.log.Error("guild purge failed", zap.String("guild_id", guildID), zap.Error(err))
		logging.EventsError("Purge of guild %s failed: %v", guildID, err)
		return
	}

	// Forget any panels that lived in this guild.
	msgs, err := b.store.ReactMessages()
	if err != nil {
		return
	}
	known := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		known[m.MessageID] = struct{}{}
	}
	b.panelMu.Lock()
	for id := range b.panels {
		if _, ok := known[id]; !ok {
			delete(b.panels, id)
		}
	}
	b.panelMu.Unlock()
}

// onRoleUpdate keeps stored display names in sync with the platform so
// listings never need to re-query the role.
func (b *Bot) onRoleUpdate(event *events.RoleUpdate) {
	if err := b.store.UpdateRoleNames(event.RoleID.String(), event.Role.Name); err != nil {
		b.log.Error("role rename propagation failed",
			zap.String("role_id", event.RoleID.String()),
			zap.Error(err))
	}
}

// onRoleDelete drops a platform-deleted role from both role tables.
func (b *Bot) onRoleDelete(event *events.RoleDelete) {
	if err := b.store.DeleteRole(event.RoleID.String()); err != nil {
		b.log.Error("role delete propagation failed",
			zap.String("role_id", event.RoleID.String()),
			zap.Error(err))
	}
}
