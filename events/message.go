package events

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
)

type MessageCreate struct {
	discord.Message
}

func (MessageCreate) EventType() gateway.EventType { return gateway.EventTypeMessageCreate }

type MessageUpdate struct {
	discord.Message
}

func (MessageUpdate) EventType() gateway.EventType { return gateway.EventTypeMessageUpdate }

type MessageDelete struct {
	ID        snowflake.ID  `json:"id"`
	ChannelID snowflake.ID  `json:"channel_id"`
	GuildID   *snowflake.ID `json:"guild_id"`
}

func (MessageDelete) EventType() gateway.EventType { return gateway.EventTypeMessageDelete }

type MessageDeleteBulk struct {
	IDs       []snowflake.ID `json:"ids"`
	ChannelID snowflake.ID   `json:"channel_id"`
	GuildID   *snowflake.ID  `json:"guild_id"`
}

func (MessageDeleteBulk) EventType() gateway.EventType { return gateway.EventTypeMessageDeleteBulk }

type MessageReactionAdd struct {
	UserID    snowflake.ID         `json:"user_id"`
	ChannelID snowflake.ID         `json:"channel_id"`
	MessageID snowflake.ID         `json:"message_id"`
	GuildID   *snowflake.ID        `json:"guild_id"`
	Member    *discord.Member      `json:"member"`
	Emoji     discord.PartialEmoji `json:"emoji"`
}

func (MessageReactionAdd) EventType() gateway.EventType { return gateway.EventTypeMessageReactionAdd }

type MessageReactionRemove struct {
	UserID    snowflake.ID         `json:"user_id"`
	ChannelID snowflake.ID         `json:"channel_id"`
	MessageID snowflake.ID         `json:"message_id"`
	GuildID   *snowflake.ID        `json:"guild_id"`
	Emoji     discord.PartialEmoji `json:"emoji"`
}

func (MessageReactionRemove) EventType() gateway.EventType {
	return gateway.EventTypeMessageReactionRemove
}

type MessageReactionRemoveAll struct {
	ChannelID snowflake.ID  `json:"channel_id"`
	MessageID snowflake.ID  `json:"message_id"`
	GuildID   *snowflake.ID `json:"guild_id"`
}

func (MessageReactionRemoveAll) EventType() gateway.EventType {
	return gateway.EventTypeMessageReactionRemoveAll
}

type MessageReactionRemoveEmoji struct {
	ChannelID snowflake.ID         `json:"channel_id"`
	MessageID snowflake.ID         `json:"message_id"`
	GuildID   *snowflake.ID        `json:"guild_id"`
	Emoji     discord.PartialEmoji `json:"emoji"`
}

func (MessageReactionRemoveEmoji) EventType() gateway.EventType {
	return gateway.EventTypeMessageReactionRemoveEmoji
}
