package bot

import (
	"time"

	"rolebot/internal/logging"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// transientTTL is how long validation/error replies stay before deletion.
const transientTTL = 5 * time.Second

// reply sends a permanent message to the channel.
func (b *Bot) reply(channelID snowflake.ID, content string) {
	if _, err := b.client.Rest.CreateMessage(channelID, discord.MessageCreate{Content: content}); err != nil {
		logging.DiscordError("CreateMessage in %s failed: %v", channelID, err)
	}
}

// transient sends a reply that deletes itself shortly after, keeping
// channels clear of validation noise.
func (b *Bot) transient(channelID snowflake.ID, content string) {
	msg, err := b.client.Rest.CreateMessage(channelID, discord.MessageCreate{Content: content})
	if err != nil {
		logging.DiscordError("CreateMessage in %s failed: %v", channelID, err)
		return
	}
	msgID := msg.ID
	time.AfterFunc(transientTTL, func() {
		if err := b.client.Rest.DeleteMessage(channelID, msgID); err != nil {
			logging.DiscordDebug("Failed to delete transient message %s: %v", msgID, err)
		}
	})
}
