package events

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

// GuildCreate is the full snapshot of one guild. Processing it replaces every
// cached child collection of the guild wholesale.
type GuildCreate struct {
	discord.Guild
	Channels    []discord.GuildChannel `json:"channels"`
	Emojis      []discord.Emoji        `json:"emojis"`
	Roles       []discord.Role         `json:"roles"`
	Members     []discord.Member       `json:"members"`
	Presences   []discord.Presence     `json:"presences"`
	VoiceStates []discord.VoiceState   `json:"voice_states"`
}

func (e *GuildCreate) UnmarshalJSON(data []byte) error {
	type guildCreate GuildCreate
	var v struct {
		guildCreate
		Channels []discord.UnmarshalChannel `json:"channels"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = GuildCreate(v.guildCreate)
	e.Channels = guildChannels(v.Channels)
	return nil
}

func (GuildCreate) EventType() gateway.EventType { return gateway.EventTypeGuildCreate }

// GuildUpdate carries updated guild fields plus replacement role and emoji
// collections. Channels, members, presences and voice states are not part of
// this payload and stay untouched in the mirror.
type GuildUpdate struct {
	discord.Guild
	Roles  []discord.Role  `json:"roles"`
	Emojis []discord.Emoji `json:"emojis"`
}

func (GuildUpdate) EventType() gateway.EventType { return gateway.EventTypeGuildUpdate }

// GuildDelete is the raw guild-delete payload. It is never dispatched as-is:
// the dispatcher branches on Unavailable and emits GuildUnavailable or
// GuildLeave.
type GuildDelete struct {
	ID          snowflake.ID `json:"id"`
	Unavailable bool         `json:"unavailable"`
}

func (GuildDelete) EventType() gateway.EventType { return gateway.EventTypeGuildDelete }

// GuildUnavailable means the guild dropped out temporarily; its cached
// children are retained until the service resends a snapshot.
type GuildUnavailable struct {
	GuildID snowflake.ID `json:"id"`
}

func (GuildUnavailable) EventType() gateway.EventType { return gateway.EventTypeGuildDelete }

// GuildLeave means the client left or was removed; the guild and all its
// children are gone from the mirror.
type GuildLeave struct {
	GuildID snowflake.ID `json:"id"`
}

func (GuildLeave) EventType() gateway.EventType { return gateway.EventTypeGuildDelete }

type GuildBanAdd struct {
	GuildID snowflake.ID `json:"guild_id"`
	User    discord.User `json:"user"`
}

func (GuildBanAdd) EventType() gateway.EventType { return gateway.EventTypeGuildBanAdd }

type GuildBanRemove struct {
	GuildID snowflake.ID `json:"guild_id"`
	User    discord.User `json:"user"`
}

func (GuildBanRemove) EventType() gateway.EventType { return gateway.EventTypeGuildBanRemove }

// GuildEmojisUpdate delivers the guild's full emoji list; the mirror replaces
// the cached collection wholesale.
type GuildEmojisUpdate struct {
	GuildID snowflake.ID    `json:"guild_id"`
	Emojis  []discord.Emoji `json:"emojis"`
}

func (GuildEmojisUpdate) EventType() gateway.EventType { return gateway.EventTypeGuildEmojisUpdate }

type GuildIntegrationsUpdate struct {
	GuildID snowflake.ID `json:"guild_id"`
}

func (GuildIntegrationsUpdate) EventType() gateway.EventType {
	return gateway.EventTypeGuildIntegrationsUpdate
}

type GuildMemberAdd struct {
	discord.Member
	GuildID snowflake.ID `json:"guild_id"`
}

func (GuildMemberAdd) EventType() gateway.EventType { return gateway.EventTypeGuildMemberAdd }

type GuildMemberUpdate struct {
	discord.Member
	GuildID snowflake.ID `json:"guild_id"`
}

func (GuildMemberUpdate) EventType() gateway.EventType { return gateway.EventTypeGuildMemberUpdate }

type GuildMemberRemove struct {
	GuildID snowflake.ID `json:"guild_id"`
	User    discord.User `json:"user"`
}

func (GuildMemberRemove) EventType() gateway.EventType { return gateway.EventTypeGuildMemberRemove }

type GuildRoleCreate struct {
	GuildID snowflake.ID `json:"guild_id"`
	Role    discord.Role `json:"role"`
}

func (GuildRoleCreate) EventType() gateway.EventType { return gateway.EventTypeGuildRoleCreate }

type GuildRoleUpdate struct {
	GuildID snowflake.ID `json:"guild_id"`
	Role    discord.Role `json:"role"`
}

func (GuildRoleUpdate) EventType() gateway.EventType { return gateway.EventTypeGuildRoleUpdate }

type GuildRoleDelete struct {
	GuildID snowflake.ID `json:"guild_id"`
	RoleID  snowflake.ID `json:"role_id"`
}

func (GuildRoleDelete) EventType() gateway.EventType { return gateway.EventTypeGuildRoleDelete }

type PresenceUpdate struct {
	discord.Presence
	GuildID snowflake.ID `json:"guild_id"`
}

func (PresenceUpdate) EventType() gateway.EventType { return gateway.EventTypePresenceUpdate }

type WebhooksUpdate struct {
	GuildID   snowflake.ID `json:"guild_id"`
	ChannelID snowflake.ID `json:"channel_id"`
}

func (WebhooksUpdate) EventType() gateway.EventType { return gateway.EventTypeWebhooksUpdate }
