package events

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

// ChannelCreate carries the created channel. Non-guild (DM) channels decode
// fine but are not mirrored, since the mirror scopes channels under a guild.
type ChannelCreate struct {
	discord.Channel
}

func (e *ChannelCreate) UnmarshalJSON(data []byte) error {
	var v discord.UnmarshalChannel
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	e.Channel = v.Channel
	return nil
}

func (ChannelCreate) EventType() gateway.EventType { return gateway.EventTypeChannelCreate }

type ChannelUpdate struct {
	discord.Channel
}

func (e *ChannelUpdate) UnmarshalJSON(data []byte) error {
	var v discord.UnmarshalChannel
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	e.Channel = v.Channel
	return nil
}

func (ChannelUpdate) EventType() gateway.EventType { return gateway.EventTypeChannelUpdate }

type ChannelDelete struct {
	discord.Channel
}

func (e *ChannelDelete) UnmarshalJSON(data []byte) error {
	var v discord.UnmarshalChannel
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	e.Channel = v.Channel
	return nil
}

func (ChannelDelete) EventType() gateway.EventType { return gateway.EventTypeChannelDelete }

type ChannelPinsUpdate struct {
	GuildID          *snowflake.ID `json:"guild_id"`
	ChannelID        snowflake.ID  `json:"channel_id"`
	LastPinTimestamp *time.Time    `json:"last_pin_timestamp"`
}

func (ChannelPinsUpdate) EventType() gateway.EventType { return gateway.EventTypeChannelPinsUpdate }

type InviteCreate struct {
	ChannelID snowflake.ID  `json:"channel_id"`
	GuildID   *snowflake.ID `json:"guild_id"`
	Code      string        `json:"code"`
	CreatedAt time.Time     `json:"created_at"`
	MaxAge    int           `json:"max_age"`
	MaxUses   int           `json:"max_uses"`
	Temporary bool          `json:"temporary"`
	Inviter   *discord.User `json:"inviter"`
}

func (InviteCreate) EventType() gateway.EventType { return gateway.EventTypeInviteCreate }

type InviteDelete struct {
	ChannelID snowflake.ID  `json:"channel_id"`
	GuildID   *snowflake.ID `json:"guild_id"`
	Code      string        `json:"code"`
}

func (InviteDelete) EventType() gateway.EventType { return gateway.EventTypeInviteDelete }

// guildChannels keeps the guild-scoped channels of a decoded channel list,
// dropping anything that cannot live under a guild.
func guildChannels(channels []discord.UnmarshalChannel) []discord.GuildChannel {
	out := make([]discord.GuildChannel, 0, len(channels))
	for _, ch := range channels {
		if guildChannel, ok := ch.Channel.(discord.GuildChannel); ok {
			out = append(out, guildChannel)
		}
	}
	return out
}
