package bot

import (
	"strings"

	"rolebot/internal/logging"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"go.uber.org/zap"
)

const helpText = "**rolebot commands** (requires Manage Roles)\n" +
	"`folders` list folders\n" +
	"`folder new <label>` / `folder rename <n> <label>` / `folder delete <n>` / `folder show <n>`\n" +
	"`folder add <n> <i,j,...>` move unfiled roles into folder n\n" +
	"`folder remove <n> <i,j,...>` move roles back to unfiled\n" +
	"`reaction add <emoji> <@role> [folder]` / `reaction remove <@role>` / `reaction list`\n" +
	"`join add <@role>` / `join remove <@role>` / `join list`\n" +
	"`panel <message id> ` / `panel remove <message id>`\n" +
	"`reset` delete all unfiled reaction roles"

// onMessageCreate dispatches prefixed admin commands. Handler panics are
// recovered here so a bad command never takes the process down.
func (b *Bot) onMessageCreate(event *events.GuildMessageCreate) {
	msg := event.Message
	if msg.Author.Bot {
		return
	}
	content := strings.TrimSpace(msg.Content)
	prefix := b.cfg.Discord.Prefix
	if !strings.HasPrefix(content, prefix) {
		return
	}

	args := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(args) == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("command handler panicked",
				zap.Any("panic", r),
				zap.String("content", content))
			logging.CommandsError("Handler panic on %q: %v", content, r)
			b.transient(msg.ChannelID, "Something went wrong running that command.")
		}
	}()

	if !b.hasManageRoles(event) {
		b.transient(msg.ChannelID, "You need the Manage Roles permission for that.")
		return
	}

	cmd, rest := args[0], args[1:]
	logging.Commands("Dispatching %q for user %s in guild %s", content, msg.Author.ID, event.GuildID)

	switch cmd {
	case "help":
		b.reply(msg.ChannelID, helpText)
	case "folders":
		b.cmdFolderList(event)
	case "folder":
		b.cmdFolder(event, rest)
	case "reaction":
		b.cmdReaction(event, rest)
	case "join":
		b.cmdJoin(event, rest)
	case "panel":
		b.cmdPanel(event, rest)
	case "reset":
		b.cmdReset(event)
	default:
		b.transient(msg.ChannelID, "Unknown command. Try `"+prefix+"help`.")
	}
}

// hasManageRoles checks the invoking member for the Manage Roles permission
// against the role cache, fetching the member when the gateway payload did
// not include it.
func (b *Bot) hasManageRoles(event *events.GuildMessageCreate) bool {
	member := event.Message.Member
	if member == nil {
		m, err := b.client.Rest.GetMember(event.GuildID, event.Message.Author.ID)
		if err != nil {
			logging.DiscordError("GetMember %s failed: %v", event.Message.Author.ID, err)
			return false
		}
		member = m
	}
	perms := b.client.Caches.MemberPermissions(*member)
	return perms.Has(discord.PermissionManageRoles) || perms.Has(discord.PermissionAdministrator)
}

// cmdReset wipes all unfiled reaction roles for the guild.
func (b *Bot) cmdReset(event *events.GuildMessageCreate) {
	guildID := event.GuildID.String()
	if err := b.store.RemoveUnfiled(guildID); err != nil {
		b.log.Error("reset failed", zap.String("guild_id", guildID), zap.Error(err))
		b.transient(event.Message.ChannelID, "Reset failed.")
		return
	}
	b.reply(event.Message.ChannelID, "Removed all unfiled reaction roles.")
}
