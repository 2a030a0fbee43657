package platform

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-mirror/decoder"
	"github.com/fuad-daoud/discord-mirror/events"
	"github.com/fuad-daoud/discord-mirror/logger/dlog"
	"github.com/fuad-daoud/discord-mirror/state"
	"github.com/google/uuid"
)

// guildCreateOrder is the fixed replacement order a guild snapshot applies:
// for each kind, clear the stale collection in full, then set every decoded
// child. The whole loop runs inside one exclusive section.
var guildCreateOrder = []state.Kind{
	state.KindChannels,
	state.KindEmojis,
	state.KindRoles,
	state.KindMembers,
	state.KindPresences,
	state.KindVoiceStates,
}

// guildUpdateOrder is the subset a guild-update replaces. Channels, members,
// presences and voice states are never touched by that kind.
var guildUpdateOrder = []state.Kind{
	state.KindRoles,
	state.KindEmojis,
}

// emojiUpdateOrder: guild-emojis-update replaces exactly one collection.
var emojiUpdateOrder = []state.Kind{
	state.KindEmojis,
}

// Dispatcher applies the per-kind cache recipe for every incoming payload and
// hands the resulting domain event to the sink. Payloads of one connection
// must be fed in delivery order from a single goroutine; the mirror itself may
// be read concurrently from anywhere.
type Dispatcher struct {
	id      string
	caches  *state.Caches
	decoder decoder.Decoder
	sink    Sink
}

func NewDispatcher(caches *state.Caches, dec decoder.Decoder, sink Sink) *Dispatcher {
	return &Dispatcher{
		id:      uuid.NewString(),
		caches:  caches,
		decoder: dec,
		sink:    sink,
	}
}

// ID is this dispatcher instance's correlation id, present on its log lines.
func (d *Dispatcher) ID() string {
	return d.id
}

func (d *Dispatcher) Caches() *state.Caches {
	return d.caches
}

// OnConnected dispatches the synthetic connection event produced by the
// transport. No payload, no mirror mutation.
func (d *Dispatcher) OnConnected(shardID int) {
	d.sink.Dispatch(&events.Connected{ShardID: shardID})
}

func (d *Dispatcher) OnDisconnected(shardID int) {
	d.sink.Dispatch(&events.Disconnected{ShardID: shardID})
}

// HandleEvent runs the recipe for one payload: decode, mutate the mirror,
// dispatch. A decode failure drops the payload with the mirror untouched and
// nothing dispatched; the next payload is expected to self-heal the mirror.
func (d *Dispatcher) HandleEvent(shardID int, eventType gateway.EventType, data []byte) error {
	if eventType == gateway.EventTypeGuildMembersChunk {
		// Member pages are not modelled. Dropping before decode keeps a
		// malformed event from ever reaching the sink.
		dlog.Debug("dropping member chunk", "dispatcher", d.id, "shard", shardID)
		return nil
	}

	event, err := d.decoder.Decode(eventType, data)
	if err != nil {
		dlog.Error("dropping payload", "dispatcher", d.id, "eventType", eventType, "err", err)
		return err
	}

	switch e := event.(type) {
	case *events.Ready:
		e.ShardID = shardID
		return d.onReady(e)
	case *events.Resumed:
		e.ShardID = shardID
	case *events.GuildCreate:
		return d.onGuildCreate(e)
	case *events.GuildUpdate:
		return d.onGuildUpdate(e)
	case *events.GuildDelete:
		return d.onGuildDelete(e)
	case *events.GuildEmojisUpdate:
		d.caches.Atomically(func(tx state.Tx) {
			err = replaceCollections(tx, e.GuildID, emojiUpdateOrder, snapshot{emojis: e.Emojis})
		})
		if err != nil {
			return err
		}
	case *events.ChannelCreate:
		if channel, ok := e.Channel.(discord.GuildChannel); ok {
			d.caches.PutChannel(channel.GuildID(), channel)
		}
	case *events.ChannelUpdate:
		if channel, ok := e.Channel.(discord.GuildChannel); ok {
			d.caches.PutChannel(channel.GuildID(), channel)
		}
	case *events.ChannelDelete:
		if channel, ok := e.Channel.(discord.GuildChannel); ok {
			d.caches.DeleteChannel(channel.GuildID(), channel.ID())
		}
	case *events.GuildRoleCreate:
		d.caches.PutRole(e.GuildID, e.Role)
	case *events.GuildRoleUpdate:
		d.caches.PutRole(e.GuildID, e.Role)
	case *events.GuildRoleDelete:
		d.caches.DeleteRole(e.GuildID, e.RoleID)
	case *events.GuildMemberAdd:
		d.caches.PutMember(e.GuildID, e.Member)
	case *events.GuildMemberUpdate:
		d.caches.PutMember(e.GuildID, e.Member)
	case *events.GuildMemberRemove:
		d.caches.DeleteMember(e.GuildID, e.User.ID)
	case *events.PresenceUpdate:
		d.caches.PutPresence(e.GuildID, e.Presence)
	case *events.VoiceStateUpdate:
		if e.ChannelID == nil {
			d.caches.DeleteVoiceState(e.GuildID, e.UserID)
		} else {
			d.caches.PutVoiceState(e.GuildID, e.VoiceState)
		}
	case *events.UserUpdate:
		d.caches.SetSelfUser(e.OAuth2User)
	}

	d.sink.Dispatch(event)
	return nil
}

func (d *Dispatcher) onReady(e *events.Ready) error {
	unavailable := make([]snowflake.ID, 0, len(e.Guilds))
	for _, guild := range e.Guilds {
		unavailable = append(unavailable, guild.ID)
	}
	d.caches.Atomically(func(tx state.Tx) {
		tx.SetSelfUser(e.User)
		tx.SetInitialUnavailableGuilds(unavailable)
	})
	dlog.Info("session ready", "dispatcher", d.id, "user", e.User.ID, "session", e.SessionID, "unavailableGuilds", len(unavailable))
	d.sink.Dispatch(e)
	return nil
}

func (d *Dispatcher) onGuildCreate(e *events.GuildCreate) error {
	var err error
	d.caches.Atomically(func(tx state.Tx) {
		tx.PutGuild(e.Guild)
		tx.SetGuildAvailable(e.Guild.ID, true)
		err = replaceCollections(tx, e.Guild.ID, guildCreateOrder, snapshot{
			channels:    e.Channels,
			emojis:      e.Emojis,
			roles:       e.Roles,
			members:     e.Members,
			presences:   e.Presences,
			voiceStates: e.VoiceStates,
		})
	})
	if err != nil {
		return err
	}
	d.sink.Dispatch(e)
	return nil
}

func (d *Dispatcher) onGuildUpdate(e *events.GuildUpdate) error {
	var err error
	d.caches.Atomically(func(tx state.Tx) {
		tx.PutGuild(e.Guild)
		err = replaceCollections(tx, e.Guild.ID, guildUpdateOrder, snapshot{
			roles:  e.Roles,
			emojis: e.Emojis,
		})
	})
	if err != nil {
		return err
	}
	d.sink.Dispatch(e)
	return nil
}

func (d *Dispatcher) onGuildDelete(e *events.GuildDelete) error {
	if e.Unavailable {
		// The service will resend a full snapshot when the guild comes back;
		// its cached children stay valid until then.
		d.caches.SetGuildAvailable(e.ID, false)
		d.sink.Dispatch(&events.GuildUnavailable{GuildID: e.ID})
		return nil
	}
	d.caches.DeleteGuild(e.ID)
	d.sink.Dispatch(&events.GuildLeave{GuildID: e.ID})
	return nil
}

// snapshot is the decoded child collections a replacement draws from. Kinds
// absent from the replacement order are never read.
type snapshot struct {
	channels    []discord.GuildChannel
	emojis      []discord.Emoji
	roles       []discord.Role
	members     []discord.Member
	presences   []discord.Presence
	voiceStates []discord.VoiceState
}

// replaceCollections applies the clear-before-set contract: for each kind in
// order, drop the stale collection in full, then set every decoded child.
// Callers run it inside Caches.Atomically.
func replaceCollections(tx state.Tx, guildID snowflake.ID, order []state.Kind, snap snapshot) error {
	for _, kind := range order {
		if err := tx.Clear(guildID, kind); err != nil {
			return err
		}
		switch kind {
		case state.KindChannels:
			for _, channel := range snap.channels {
				tx.PutChannel(guildID, channel)
			}
		case state.KindEmojis:
			for _, emoji := range snap.emojis {
				tx.PutEmoji(guildID, emoji)
			}
		case state.KindRoles:
			for _, role := range snap.roles {
				tx.PutRole(guildID, role)
			}
		case state.KindMembers:
			for _, member := range snap.members {
				tx.PutMember(guildID, member)
			}
		case state.KindPresences:
			for _, presence := range snap.presences {
				tx.PutPresence(guildID, presence)
			}
		case state.KindVoiceStates:
			for _, voiceState := range snap.voiceStates {
				tx.PutVoiceState(guildID, voiceState)
			}
		}
	}
	return nil
}
