package decoder

import (
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/json"
	"github.com/fuad-daoud/discord-mirror/events"
)

// JSON decodes gateway payloads with disgo's json codec. Each registered kind
// maps to a fresh event value; kinds without an entry fail with
// ErrUnknownEventType before any bytes are looked at.
type JSON struct{}

var prototypes = map[gateway.EventType]func() events.Event{
	gateway.EventTypeReady:                      func() events.Event { return &events.Ready{} },
	gateway.EventTypeResumed:                    func() events.Event { return &events.Resumed{} },
	gateway.EventTypeChannelCreate:              func() events.Event { return &events.ChannelCreate{} },
	gateway.EventTypeChannelUpdate:              func() events.Event { return &events.ChannelUpdate{} },
	gateway.EventTypeChannelDelete:              func() events.Event { return &events.ChannelDelete{} },
	gateway.EventTypeChannelPinsUpdate:          func() events.Event { return &events.ChannelPinsUpdate{} },
	gateway.EventTypeGuildCreate:                func() events.Event { return &events.GuildCreate{} },
	gateway.EventTypeGuildUpdate:                func() events.Event { return &events.GuildUpdate{} },
	gateway.EventTypeGuildDelete:                func() events.Event { return &events.GuildDelete{} },
	gateway.EventTypeGuildBanAdd:                func() events.Event { return &events.GuildBanAdd{} },
	gateway.EventTypeGuildBanRemove:             func() events.Event { return &events.GuildBanRemove{} },
	gateway.EventTypeGuildEmojisUpdate:          func() events.Event { return &events.GuildEmojisUpdate{} },
	gateway.EventTypeGuildIntegrationsUpdate:    func() events.Event { return &events.GuildIntegrationsUpdate{} },
	gateway.EventTypeGuildMemberAdd:             func() events.Event { return &events.GuildMemberAdd{} },
	gateway.EventTypeGuildMemberRemove:          func() events.Event { return &events.GuildMemberRemove{} },
	gateway.EventTypeGuildMemberUpdate:          func() events.Event { return &events.GuildMemberUpdate{} },
	gateway.EventTypeGuildRoleCreate:            func() events.Event { return &events.GuildRoleCreate{} },
	gateway.EventTypeGuildRoleUpdate:            func() events.Event { return &events.GuildRoleUpdate{} },
	gateway.EventTypeGuildRoleDelete:            func() events.Event { return &events.GuildRoleDelete{} },
	gateway.EventTypeInviteCreate:               func() events.Event { return &events.InviteCreate{} },
	gateway.EventTypeInviteDelete:               func() events.Event { return &events.InviteDelete{} },
	gateway.EventTypeMessageCreate:              func() events.Event { return &events.MessageCreate{} },
	gateway.EventTypeMessageUpdate:              func() events.Event { return &events.MessageUpdate{} },
	gateway.EventTypeMessageDelete:              func() events.Event { return &events.MessageDelete{} },
	gateway.EventTypeMessageDeleteBulk:          func() events.Event { return &events.MessageDeleteBulk{} },
	gateway.EventTypeMessageReactionAdd:         func() events.Event { return &events.MessageReactionAdd{} },
	gateway.EventTypeMessageReactionRemove:      func() events.Event { return &events.MessageReactionRemove{} },
	gateway.EventTypeMessageReactionRemoveAll:   func() events.Event { return &events.MessageReactionRemoveAll{} },
	gateway.EventTypeMessageReactionRemoveEmoji: func() events.Event { return &events.MessageReactionRemoveEmoji{} },
	gateway.EventTypePresenceUpdate:             func() events.Event { return &events.PresenceUpdate{} },
	gateway.EventTypeTypingStart:                func() events.Event { return &events.TypingStart{} },
	gateway.EventTypeUserUpdate:                 func() events.Event { return &events.UserUpdate{} },
	gateway.EventTypeVoiceStateUpdate:           func() events.Event { return &events.VoiceStateUpdate{} },
	gateway.EventTypeVoiceServerUpdate:          func() events.Event { return &events.VoiceServerUpdate{} },
	gateway.EventTypeWebhooksUpdate:             func() events.Event { return &events.WebhooksUpdate{} },
}

func (JSON) Decode(eventType gateway.EventType, data []byte) (events.Event, error) {
	newEvent, ok := prototypes[eventType]
	if !ok {
		return nil, DecodeError{EventType: eventType, Err: ErrUnknownEventType}
	}
	event := newEvent()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, DecodeError{EventType: eventType, Err: err}
	}
	return event, nil
}
