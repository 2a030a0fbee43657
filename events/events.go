package events

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
)

// Event is one typed domain event produced by the synchronization core. The
// concrete type tells subscribers what happened; EventType ties it back to
// the gateway kind it was decoded from.
type Event interface {
	EventType() gateway.EventType
}

// Synthetic kinds produced by the transport itself, never decoded from a
// payload.
const (
	EventTypeConnected    gateway.EventType = "CONNECTED"
	EventTypeDisconnected gateway.EventType = "DISCONNECTED"
)

type Connected struct {
	ShardID int `json:"-"`
}

func (Connected) EventType() gateway.EventType { return EventTypeConnected }

type Disconnected struct {
	ShardID int `json:"-"`
}

func (Disconnected) EventType() gateway.EventType { return EventTypeDisconnected }

// Ready is the session-start snapshot: the connected user plus the set of
// guilds the service will deliver as separate guild-create payloads, all of
// them unavailable until then.
type Ready struct {
	ShardID   int                        `json:"-"`
	Version   int                        `json:"v"`
	User      discord.OAuth2User         `json:"user"`
	SessionID string                     `json:"session_id"`
	Guilds    []discord.UnavailableGuild `json:"guilds"`
}

func (Ready) EventType() gateway.EventType { return gateway.EventTypeReady }

type Resumed struct {
	ShardID int `json:"-"`
}

func (Resumed) EventType() gateway.EventType { return gateway.EventTypeResumed }

type UserUpdate struct {
	discord.OAuth2User
}

func (UserUpdate) EventType() gateway.EventType { return gateway.EventTypeUserUpdate }

type TypingStart struct {
	ChannelID snowflake.ID    `json:"channel_id"`
	GuildID   *snowflake.ID   `json:"guild_id"`
	UserID    snowflake.ID    `json:"user_id"`
	Timestamp int64           `json:"timestamp"`
	Member    *discord.Member `json:"member"`
}

func (TypingStart) EventType() gateway.EventType { return gateway.EventTypeTypingStart }
