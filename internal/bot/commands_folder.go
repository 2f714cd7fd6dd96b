package bot

import (
	"fmt"
	"strings"

	"rolebot/internal/logging"
	"rolebot/internal/store"

	"github.com/disgoorg/disgo/events"
	"go.uber.org/zap"
)

// cmdFolderList prints every folder with its positional index. Indexes are
// what the other folder subcommands accept, so the listing is the source of
// truth for them.
func (b *Bot) cmdFolderList(event *events.GuildMessageCreate) {
	guildID := event.GuildID.String()
	folders, err := b.store.ListFolders(guildID)
	if err != nil {
		b.log.Error("folder listing failed", zap.String("guild_id", guildID), zap.Error(err))
		b.transient(event.Message.ChannelID, "Could not load folders.")
		return
	}
	if len(folders) == 0 {
		b.transient(event.Message.ChannelID, "No folders yet. Create one with `"+b.cfg.Discord.Prefix+"folder new <label>`.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Folders**\n")
	for i, f := range folders {
		fmt.Fprintf(&sb, "`%d` %s\n", i, f.Label)
	}
	b.reply(event.Message.ChannelID, sb.String())
}

// cmdFolder routes the folder subcommands: new, rename, delete, show, add,
// remove.
func (b *Bot) cmdFolder(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) == 0 {
		b.transient(channelID, "Usage: `folder new|rename|delete|show|add|remove ...`")
		return
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "new":
		b.cmdFolderNew(event, rest)
	case "rename":
		b.cmdFolderRename(event, rest)
	case "delete":
		b.cmdFolderDelete(event, rest)
	case "show":
		b.cmdFolderShow(event, rest)
	case "add":
		b.cmdFolderAdd(event, rest)
	case "remove":
		b.cmdFolderRemove(event, rest)
	default:
		b.transient(channelID, "Unknown folder subcommand `"+sub+"`.")
	}
}

func (b *Bot) cmdFolderNew(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	label := strings.TrimSpace(strings.Join(args, " "))
	if label == "" {
		b.transient(channelID, "Usage: `folder new <label>`")
		return
	}

	guildID := event.GuildID.String()
	f, err := b.store.CreateFolder(guildID, label)
	if err != nil {
		b.log.Error("folder create failed", zap.String("guild_id", guildID), zap.Error(err))
		b.transient(channelID, "Could not create the folder.")
		return
	}
	logging.Commands("Created folder %d (%q) in guild %s", f.ID, f.Label, guildID)
	b.reply(channelID, fmt.Sprintf("Created folder **%s**.", f.Label))
}

func (b *Bot) cmdFolderRename(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) < 2 {
		b.transient(channelID, "Usage: `folder rename <n> <new label>`")
		return
	}

	folder, ok := b.folderAt(event, args[0])
	if !ok {
		return
	}
	newLabel := strings.TrimSpace(strings.Join(args[1:], " "))
	if newLabel == "" {
		b.transient(channelID, "The new label cannot be empty.")
		return
	}

	if err := b.store.RenameFolder(event.GuildID.String(), folder.ID, newLabel); err != nil {
		b.log.Error("folder rename failed", zap.Int64("folder_id", folder.ID), zap.Error(err))
		b.transient(channelID, "Could not rename the folder.")
		return
	}
	b.reply(channelID, fmt.Sprintf("Renamed **%s** to **%s**.", folder.Label, newLabel))
}

func (b *Bot) cmdFolderDelete(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) != 1 {
		b.transient(channelID, "Usage: `folder delete <n>`")
		return
	}

	folder, ok := b.folderAt(event, args[0])
	if !ok {
		return
	}
	if err := b.store.DeleteFolder(folder.ID); err != nil {
		b.log.Error("folder delete failed", zap.Int64("folder_id", folder.ID), zap.Error(err))
		b.transient(channelID, "Could not delete the folder.")
		return
	}
	logging.Commands("Deleted folder %d (%q); its roles are now unfiled", folder.ID, folder.Label)
	b.reply(channelID, fmt.Sprintf("Deleted **%s**. Its roles are back in the unfiled pool.", folder.Label))
}

func (b *Bot) cmdFolderShow(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) != 1 {
		b.transient(channelID, "Usage: `folder show <n>`")
		return
	}

	folder, ok := b.folderAt(event, args[0])
	if !ok {
		return
	}
	view, err := b.store.FolderContents(folder.ID)
	if err != nil {
		b.log.Error("folder contents failed", zap.Int64("folder_id", folder.ID), zap.Error(err))
		b.transient(channelID, "Could not load the folder.")
		return
	}
	if view == nil {
		b.transient(channelID, "That folder no longer exists.")
		return
	}
	if len(view.Roles) == 0 {
		b.reply(channelID, fmt.Sprintf("**%s** is empty.", view.Label))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", view.Label)
	for i, r := range view.Roles {
		fmt.Fprintf(&sb, "`%d` %s\n", i, r.RoleName)
	}
	b.reply(channelID, sb.String())
}

// cmdFolderAdd moves unfiled reaction roles into a folder by their positions
// in the unfiled listing. Bad or duplicate positions are dropped silently.
func (b *Bot) cmdFolderAdd(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) < 2 {
		b.transient(channelID, "Usage: `folder add <n> <i,j,...>`")
		return
	}

	folder, ok := b.folderAt(event, args[0])
	if !ok {
		return
	}
	unfiled, err := b.store.RolesByFolder(event.GuildID.String(), nil)
	if err != nil {
		b.log.Error("unfiled listing failed", zap.Error(err))
		b.transient(channelID, "Could not load the unfiled roles.")
		return
	}

	picks := parseIndexList(args[1:], len(unfiled))
	if len(picks) == 0 {
		b.transient(channelID, "No valid role positions. Check `reaction list` for the unfiled indexes.")
		return
	}

	var moved []string
	fid := folder.ID
	for _, i := range picks {
		rr := unfiled[i]
		if err := b.store.GiveFolder(rr.RoleID, &fid); err != nil {
			b.log.Error("folder assignment failed",
				zap.String("role_id", rr.RoleID),
				zap.Int64("folder_id", fid),
				zap.Error(err))
			continue
		}
		moved = append(moved, rr.RoleName)
	}
	if len(moved) == 0 {
		b.transient(channelID, "Nothing was moved.")
		return
	}
	b.reply(channelID, fmt.Sprintf("Moved %s into **%s**.", strings.Join(moved, ", "), folder.Label))
}

// cmdFolderRemove moves roles out of a folder back into the unfiled pool.
func (b *Bot) cmdFolderRemove(event *events.GuildMessageCreate, args []string) {
	channelID := event.Message.ChannelID
	if len(args) < 2 {
		b.transient(channelID, "Usage: `folder remove <n> <i,j,...>`")
		return
	}

	folder, ok := b.folderAt(event, args[0])
	if !ok {
		return
	}
	fid := folder.ID
	filed, err := b.store.RolesByFolder(event.GuildID.String(), &fid)
	if err != nil {
		b.log.Error("folder role listing failed", zap.Int64("folder_id", fid), zap.Error(err))
		b.transient(channelID, "Could not load the folder's roles.")
		return
	}

	picks := parseIndexList(args[1:], len(filed))
	if len(picks) == 0 {
		b.transient(channelID, "No valid role positions. Check `folder show` for the indexes.")
		return
	}

	var moved []string
	for _, i := range picks {
		rr := filed[i]
		if err := b.store.GiveFolder(rr.RoleID, nil); err != nil {
			b.log.Error("unfile failed", zap.String("role_id", rr.RoleID), zap.Error(err))
			continue
		}
		moved = append(moved, rr.RoleName)
	}
	if len(moved) == 0 {
		b.transient(channelID, "Nothing was moved.")
		return
	}
	b.reply(channelID, fmt.Sprintf("Moved %s out of **%s**.", strings.Join(moved, ", "), folder.Label))
}

// folderAt resolves a positional index argument against the guild's folder
// listing, replying with a transient error when it does not resolve.
func (b *Bot) folderAt(event *events.GuildMessageCreate, arg string) (*store.Folder, bool) {
	channelID := event.Message.ChannelID
	folders, err := b.store.ListFolders(event.GuildID.String())
	if err != nil {
		b.log.Error("folder listing failed", zap.Error(err))
		b.transient(channelID, "Could not load folders.")
		return nil, false
	}

	n, ok := parseIndex(arg, len(folders))
	if !ok {
		b.transient(channelID, fmt.Sprintf("`%s` is not a folder position. Run `%sfolders` to see them.", arg, b.cfg.Discord.Prefix))
		return nil, false
	}
	return &folders[n], true
}
