package bot

import (
	"errors"
	"fmt"
	"strings"

	"rolebot/internal/logging"
	"rolebot/internal/store"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// cmdReaction routes the reaction-role subcommands: add, remove, list.
func (b *Bot) cmdReaction(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) == 0 {
		b.transient(channelID, "Usage: `reaction add|remove|list ...`")
		return
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		b.cmdReactionAdd(event, rest)
	case "remove":
		b.cmdReactionRemove(event, rest)
	case "list":
		b.cmdReactionList(event)
	default:
		b.transient(channelID, "Unknown reaction subcommand `"+sub+"`.")
	}
}

// cmdReactionAdd binds an emoji to a role, optionally filing it into a
// folder by position. Each emoji+role pair can only be bound once.
func (b *Bot) cmdReactionAdd(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) < 2 || len(args) > 3 {
		b.transient(channelID, "Usage: `reaction add <emoji> <@role> [folder]`")
		return
	}

	emojiID := parseEmojiRef(args[0])
	if emojiID == "" {
		b.transient(channelID, "That does not look like an emoji.")
		return
	}
	roleID, ok := parseRoleRef(args[1])
	if !ok {
		b.transient(channelID, "Mention the role or pass its id.")
		return
	}
	roleName := b.roleName(event.GuildID, roleID)
	if roleName == "" {
		b.transient(channelID, "That role does not exist in this server.")
		return
	}

	var folderID *int64
	var folderLabel string
	if len(args) == 3 {
		folder, ok := b.folderAt(event, args[2])
		if !ok {
			return
		}
		folderID = &folder.ID
		folderLabel = folder.Label
	}

	guildID := event.GuildID.String()
	err := b.store.AddReactionRole(emojiID, roleID.String(), roleName, guildID, folderID)
	if errors.Is(err, store.ErrDuplicate) {
		b.transient(channelID, "That emoji and role are already bound.")
		return
	}
	if err != nil {
		b.log.Error("reaction role create failed",
			zap.String("guild_id", guildID),
			zap.String("role_id", roleID.String()),
			zap.Error(err))
		b.transient(channelID, "Could not save the reaction role.")
		return
	}

	logging.Commands("Bound emoji %s to role %s (%s) in guild %s", emojiID, roleID, roleName, guildID)
	if folderLabel != "" {
		b.reply(channelID, fmt.Sprintf("Bound %s to **%s** in folder **%s**.", args[0], roleName, folderLabel))
		return
	}
	b.reply(channelID, fmt.Sprintf("Bound %s to **%s**.", args[0], roleName))
}

func (b *Bot) cmdReactionRemove(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) != 1 {
		b.transient(channelID, "Usage: `reaction remove <@role>`")
		return
	}

	roleID, ok := parseRoleRef(args[0])
	if !ok {
		b.transient(channelID, "Mention the role or pass its id.")
		return
	}
	if err := b.store.RemoveReactionRole(roleID.String()); err != nil {
		b.log.Error("reaction role remove failed", zap.String("role_id", roleID.String()), zap.Error(err))
		b.transient(channelID, "Could not remove the reaction role.")
		return
	}
	b.reply(channelID, "Removed all reaction bindings for that role.")
}

// cmdReactionList prints the guild's reaction roles grouped by folder, with
// the unfiled pool last. Unfiled indexes are what `folder add` accepts.
func (b *Bot) cmdReactionList(event *events.GuildMessageCreate) {
	channelID := event.Message.ChannelID
	guildID := event.GuildID.String()

	folders, err := b.store.ListFolders(guildID)
	if err != nil {
		b.log.Error("folder listing failed", zap.Error(err))
		b.transient(channelID, "Could not load the reaction roles.")
		return
	}

	var sb strings.Builder
	total := 0
	for _, f := range folders {
		fid := f.ID
		roles, err := b.store.RolesByFolder(guildID, &fid)
		if err != nil {
			b.log.Error("folder role listing failed", zap.Int64("folder_id", fid), zap.Error(err))
			continue
		}
		if len(roles) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "**%s**\n", f.Label)
		for _, r := range roles {
			fmt.Fprintf(&sb, "  %s\n", r.RoleName)
			total++
		}
	}

	unfiled, err := b.store.RolesByFolder(guildID, nil)
	if err != nil {
		b.log.Error("unfiled listing failed", zap.Error(err))
		b.transient(channelID, "Could not load the reaction roles.")
		return
	}
	if len(unfiled) > 0 {
		sb.WriteString("**Unfiled**\n")
		for i, r := range unfiled {
			fmt.Fprintf(&sb, "`%d` %s\n", i, r.RoleName)
			total++
		}
	}

	if total == 0 {
		b.transient(channelID, "No reaction roles yet. Add one with `"+b.cfg.Discord.Prefix+"reaction add`.")
		return
	}
	b.reply(channelID, sb.String())
}

// cmdJoin routes the join-role subcommands: add, remove, list.
func (b *Bot) cmdJoin(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) == 0 {
		b.transient(channelID, "Usage: `join add|remove|list ...`")
		return
	}

	guildID := event.GuildID.String()
	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		if len(rest) != 1 {
			b.transient(channelID, "Usage: `join add <@role>`")
			return
		}
		roleID, ok := parseRoleRef(rest[0])
		if !ok {
			b.transient(channelID, "Mention the role or pass its id.")
			return
		}
		roleName := b.roleName(event.GuildID, roleID)
		if roleName == "" {
			b.transient(channelID, "That role does not exist in this server.")
			return
		}
		err := b.store.AddJoinRole(roleID.String(), roleName, roleID.String(), guildID)
		if errors.Is(err, store.ErrDuplicate) {
			b.transient(channelID, "That role is already a join role.")
			return
		}
		if err != nil {
			b.log.Error("join role create failed", zap.String("role_id", roleID.String()), zap.Error(err))
			b.transient(channelID, "Could not save the join role.")
			return
		}
		b.reply(channelID, fmt.Sprintf("New members will now receive **%s**.", roleName))

	case "remove":
		if len(rest) != 1 {
			b.transient(channelID, "Usage: `join remove <@role>`")
			return
		}
		roleID, ok := parseRoleRef(rest[0])
		if !ok {
			b.transient(channelID, "Mention the role or pass its id.")
			return
		}
		if err := b.store.RemoveJoinRole(guildID, roleID.String()); err != nil {
			b.log.Error("join role remove failed", zap.String("role_id", roleID.String()), zap.Error(err))
			b.transient(channelID, "Could not remove the join role.")
			return
		}
		b.reply(channelID, "Removed the join role.")

	case "list":
		roles, err := b.store.JoinRoles(guildID)
		if err != nil {
			b.log.Error("join role listing failed", zap.Error(err))
			b.transient(channelID, "Could not load the join roles.")
			return
		}
		if len(roles) == 0 {
			b.transient(channelID, "No join roles configured.")
			return
		}
		var sb strings.Builder
		sb.WriteString("**Join roles**\n")
		for _, r := range roles {
			fmt.Fprintf(&sb, "  %s\n", r.RoleName)
		}
		b.reply(channelID, sb.String())

	default:
		b.transient(channelID, "Unknown join subcommand `"+sub+"`.")
	}
}

// cmdPanel marks or unmarks a message as a reaction-role panel. Only
// reactions on marked messages resolve to role grants.
func (b *Bot) cmdPanel(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	guildID := event.GuildID.String()

	switch {
	case len(args) == 1:
		msgID, err := snowflake.Parse(args[0])
		if err != nil {
			b.transient(channelID, "Pass the message id to mark as a panel.")
			return
		}
		if err := b.store.AddReactMessage(msgID.String(), channelID.String(), guildID); err != nil {
			b.log.Error("panel registration failed", zap.String("message_id", msgID.String()), zap.Error(err))
			b.transient(channelID, "Could not register the panel.")
			return
		}
		b.trackPanel(msgID.String())
		logging.Commands("Registered panel %s in channel %s", msgID, channelID)
		b.reply(channelID, "Reactions on that message now grant roles.")

	case len(args) == 2 && args[0] == "remove":
		msgID, err := snowflake.Parse(args[1])
		if err != nil {
			b.transient(channelID, "Pass the message id of the panel to remove.")
			return
		}
		if err := b.store.RemoveReactMessage(msgID.String()); err != nil {
			b.log.Error("panel removal failed", zap.String("message_id", msgID.String()), zap.Error(err))
			b.transient(channelID, "Could not remove the panel.")
			return
		}
		b.untrackPanel(msgID.String())
		b.reply(channelID, "That message is no longer a panel.")

	default:
		b.transient(channelID, "Usage: `panel <message id>` or `panel remove <message id>`")
	}
}

// roleName resolves a role's display name from the cache, falling back to a
// REST lookup. Empty means the role does not exist.
func (b *Bot) roleName(guildID, roleID snowflake.ID) string {
	if role, ok := b.client.Caches.Role(guildID, roleID); ok {
		return role.Name
	}
	roles, err := b.client.Rest.GetRoles(guildID)
	if err != nil {
		logging.DiscordError("GetRoles for guild %s failed: %v", guildID, err)
		return ""
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r.Name
		}
	}
	return ""
}
