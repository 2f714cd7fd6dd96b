// Package bot wires the role store to the Discord gateway: admin message
// commands, reaction-role grants, join roles and guild lifecycle cleanup.
package bot

import (
	"context"
	"fmt"
	"sync"

	"rolebot/internal/config"
	"rolebot/internal/logging"
	"rolebot/internal/store"

	"github.com/disgoorg/disgo"
	disbot "github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// RoleStore is the slice of the persistence layer the bot consumes. It is
// satisfied by *store.Store and by test doubles.
type RoleStore interface {
	CreateFolder(guildID, label string) (*store.Folder, error)
	RenameFolder(guildID string, id int64, newLabel string) error
	ListFolders(guildID string) ([]store.Folder, error)
	FoldersByLabel(guildID, label string) ([]store.Folder, error)
	FolderContents(id int64) (*store.FolderView, error)
	DeleteFolder(id int64) error

	AddReactionRole(emojiID, roleID, roleName, guildID string, folderID *int64) error
	RemoveReactionRole(roleID string) error
	RolesByFolder(guildID string, folderID *int64) ([]store.ReactionRole, error)
	GiveFolder(roleID string, folderID *int64) error
	RoleByReaction(emojiID, guildID string) (*store.ReactionRole, error)
	RoleByName(roleName, guildID string) (*store.ReactionRole, error)
	GuildReactions(guildID string) ([]store.ReactionRole, error)
	RemoveUnfiled(guildID string) error

	AddJoinRole(id, roleName, roleID, guildID string) error
	JoinRoles(guildID string) ([]store.JoinRole, error)
	RemoveJoinRole(guildID, roleID string) error

	AddReactMessage(messageID, channelID, guildID string) error
	ReactMessages() ([]store.ReactMessage, error)
	RemoveReactMessage(messageID string) error

	UpdateRoleNames(roleID, newName string) error
	DeleteRole(roleID string) error
	PurgeGuild(guildID string) error
}

// Bot is the long-running gateway consumer. One instance per process.
type Bot struct {
	cfg    *config.Config
	store  RoleStore
	log    *zap.Logger
	client *disbot.Client

	selfID snowflake.ID

	// Panel message ids, seeded from the store on Ready so reaction events
	// can be filtered without a store hit per event.
	panelMu sync.RWMutex
	panels  map[string]struct{}
}

// New builds the disgo client and registers all event listeners. The
// gateway is not opened until Run.
func New(cfg *config.Config, st RoleStore, log *zap.Logger) (*Bot, error) {
	b := &Bot{
		cfg:    cfg,
		store:  st,
		log:    log,
		panels: make(map[string]struct{}),
	}

	client, err := disgo.New(cfg.Discord.Token,
		disbot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentGuildMembers,
				gateway.IntentMessageContent,
				gateway.IntentGuildMessageReactions,
			),
			gateway.WithPresenceOpts(
				gateway.WithWatchingActivity(cfg.Discord.Activity),
				gateway.WithOnlineStatus(discord.OnlineStatusOnline),
			),
		),
		disbot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles, cache.FlagChannels),
		),
		disbot.WithEventListenerFunc(b.onReady),
		disbot.WithEventListenerFunc(b.onMessageCreate),
		disbot.WithEventListenerFunc(b.onReactionAdd),
		disbot.WithEventListenerFunc(b.onReactionRemove),
		disbot.WithEventListenerFunc(b.onMemberJoin),
		disbot.WithEventListenerFunc(b.onGuildLeave),
		disbot.WithEventListenerFunc(b.onRoleUpdate),
		disbot.WithEventListenerFunc(b.onRoleDelete),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	b.client = client

	return b, nil
}

// Run opens the gateway and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	logging.Boot("Opening gateway connection")
	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	b.log.Info("gateway connected")

	<-ctx.Done()

	b.log.Info("shutting down")
	b.client.Close(context.Background())
	return ctx.Err()
}

// onReady seeds the in-memory panel set from the store so previously
// configured panels keep working across restarts.
func (b *Bot) onReady(event *events.Ready) {
	b.selfID = event.User.ID
	b.log.Info("ready", zap.String("user_id", event.User.ID.String()))
	logging.Boot("Ready as %s", event.User.ID)

	msgs, err := b.store.ReactMessages()
	if err != nil {
		b.log.Error("failed to load react messages", zap.Error(err))
		logging.EventsError("Failed to load react messages at startup: %v", err)
		return
	}

	b.panelMu.Lock()
	for _, m := range msgs {
		b.panels[m.MessageID] = struct{}{}
	}
	b.panelMu.Unlock()

	logging.Boot("Re-registered %d reaction panels", len(msgs))
}

// isPanel reports whether a message id is a known reaction-role panel.
func (b *Bot) isPanel(messageID string) bool {
	b.panelMu.RLock()
	defer b.panelMu.RUnlock()
	_, ok := b.panels[messageID]
	return ok
}

func (b *Bot) trackPanel(messageID string) {
	b.panelMu.Lock()
	b.panels[messageID] = struct{}{}
	b.panelMu.Unlock()
}

func (b *Bot) untrackPanel(messageID string) {
	b.panelMu.Lock()
	delete(b.panels, messageID)
	b.panelMu.Unlock()
}
