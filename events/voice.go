package events

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
)

// VoiceStateUpdate carries the full replacement voice state for one user. A
// nil ChannelID means the user left voice entirely.
type VoiceStateUpdate struct {
	discord.VoiceState
	Member discord.Member `json:"member"`
}

func (VoiceStateUpdate) EventType() gateway.EventType { return gateway.EventTypeVoiceStateUpdate }

type VoiceServerUpdate struct {
	Token    string       `json:"token"`
	GuildID  snowflake.ID `json:"guild_id"`
	Endpoint *string      `json:"endpoint"`
}

func (VoiceServerUpdate) EventType() gateway.EventType { return gateway.EventTypeVoiceServerUpdate }
