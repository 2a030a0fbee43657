package state

import (
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Caches is the local mirror of the remote object graph: guilds and their
// child collections, the unavailable-guild set and the connected user.
// Readers may call the lookup methods from any goroutine while the
// synchronization dispatcher mutates the mirror; a single mutation appears
// atomic to them. Multi-step recipes run inside Atomically so a reader sees
// either the pre-recipe or the post-recipe state, never an interleaving.
type Caches struct {
	mu   sync.RWMutex
	core core
}

func NewCaches() *Caches {
	return &Caches{
		core: core{
			guilds:            map[snowflake.ID]discord.Guild{},
			unavailableGuilds: map[snowflake.ID]struct{}{},
			channels:          map[snowflake.ID]map[snowflake.ID]discord.GuildChannel{},
			emojis:            map[snowflake.ID]map[snowflake.ID]discord.Emoji{},
			roles:             map[snowflake.ID]map[snowflake.ID]discord.Role{},
			members:           map[snowflake.ID]map[snowflake.ID]discord.Member{},
			presences:         map[snowflake.ID]map[snowflake.ID]discord.Presence{},
			voiceStates:       map[snowflake.ID]map[snowflake.ID]discord.VoiceState{},
		},
	}
}

// Tx exposes the mirror's mutation primitives without locking. It is only
// valid inside the callback passed to Atomically.
type Tx struct {
	*core
}

// Atomically runs fn under the mirror's write lock. Recipes that touch more
// than one primitive (snapshot replacement, role/emoji replacement on
// guild-update) go through here; single-primitive mutations can use the
// locked convenience methods below instead.
func (c *Caches) Atomically(fn func(tx Tx)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(Tx{&c.core})
}

type core struct {
	selfUser          *discord.OAuth2User
	guilds            map[snowflake.ID]discord.Guild
	unavailableGuilds map[snowflake.ID]struct{}
	channels          map[snowflake.ID]map[snowflake.ID]discord.GuildChannel
	emojis            map[snowflake.ID]map[snowflake.ID]discord.Emoji
	roles             map[snowflake.ID]map[snowflake.ID]discord.Role
	members           map[snowflake.ID]map[snowflake.ID]discord.Member
	presences         map[snowflake.ID]map[snowflake.ID]discord.Presence
	voiceStates       map[snowflake.ID]map[snowflake.ID]discord.VoiceState
}

func put[T any](grouped map[snowflake.ID]map[snowflake.ID]T, guildID snowflake.ID, id snowflake.ID, record T) {
	group, ok := grouped[guildID]
	if !ok {
		group = map[snowflake.ID]T{}
		grouped[guildID] = group
	}
	group[id] = record
}

func remove[T any](grouped map[snowflake.ID]map[snowflake.ID]T, guildID snowflake.ID, id snowflake.ID) {
	if group, ok := grouped[guildID]; ok {
		delete(group, id)
	}
}

func lookup[T any](grouped map[snowflake.ID]map[snowflake.ID]T, guildID snowflake.ID, id snowflake.ID) (T, bool) {
	record, ok := grouped[guildID][id]
	return record, ok
}

func records[T any](grouped map[snowflake.ID]map[snowflake.ID]T, guildID snowflake.ID) []T {
	group := grouped[guildID]
	all := make([]T, 0, len(group))
	for _, record := range group {
		all = append(all, record)
	}
	return all
}

// SetSelfUser stores the connected client's own user record.
func (c *core) SetSelfUser(user discord.OAuth2User) {
	c.selfUser = &user
}

// PutGuild inserts or overwrites the guild record. Child collections are not
// touched.
func (c *core) PutGuild(guild discord.Guild) {
	c.guilds[guild.ID] = guild
}

// DeleteGuild removes the guild record, drops it from the unavailable set and
// clears every child collection. A guild that was never cached is a no-op.
func (c *core) DeleteGuild(guildID snowflake.ID) {
	delete(c.guilds, guildID)
	delete(c.unavailableGuilds, guildID)
	for _, kind := range AllKinds {
		_ = c.Clear(guildID, kind)
	}
}

// SetGuildAvailable moves the guild along its availability axis. Marking a
// guild unavailable keeps its record and children; the remote service resends
// a full snapshot when the guild comes back.
func (c *core) SetGuildAvailable(guildID snowflake.ID, available bool) {
	if available {
		delete(c.unavailableGuilds, guildID)
		return
	}
	c.unavailableGuilds[guildID] = struct{}{}
}

// SetInitialUnavailableGuilds seeds the unavailable-guild set at session
// start, replacing whatever was there before.
func (c *core) SetInitialUnavailableGuilds(guildIDs []snowflake.ID) {
	c.unavailableGuilds = make(map[snowflake.ID]struct{}, len(guildIDs))
	for _, guildID := range guildIDs {
		c.unavailableGuilds[guildID] = struct{}{}
	}
}

// Clear removes every child of the given kind under the guild, including
// children absent from any upcoming replacement batch.
func (c *core) Clear(guildID snowflake.ID, kind Kind) error {
	switch kind {
	case KindChannels:
		delete(c.channels, guildID)
	case KindEmojis:
		delete(c.emojis, guildID)
	case KindRoles:
		delete(c.roles, guildID)
	case KindMembers:
		delete(c.members, guildID)
	case KindPresences:
		delete(c.presences, guildID)
	case KindVoiceStates:
		delete(c.voiceStates, guildID)
	default:
		return InconsistentStateError{Kind: kind}
	}
	return nil
}

func (c *core) PutChannel(guildID snowflake.ID, channel discord.GuildChannel) {
	put(c.channels, guildID, channel.ID(), channel)
}

func (c *core) DeleteChannel(guildID snowflake.ID, channelID snowflake.ID) {
	remove(c.channels, guildID, channelID)
}

func (c *core) PutEmoji(guildID snowflake.ID, emoji discord.Emoji) {
	put(c.emojis, guildID, emoji.ID, emoji)
}

func (c *core) DeleteEmoji(guildID snowflake.ID, emojiID snowflake.ID) {
	remove(c.emojis, guildID, emojiID)
}

func (c *core) PutRole(guildID snowflake.ID, role discord.Role) {
	put(c.roles, guildID, role.ID, role)
}

func (c *core) DeleteRole(guildID snowflake.ID, roleID snowflake.ID) {
	remove(c.roles, guildID, roleID)
}

func (c *core) PutMember(guildID snowflake.ID, member discord.Member) {
	put(c.members, guildID, member.User.ID, member)
}

func (c *core) DeleteMember(guildID snowflake.ID, userID snowflake.ID) {
	remove(c.members, guildID, userID)
}

func (c *core) PutPresence(guildID snowflake.ID, presence discord.Presence) {
	put(c.presences, guildID, presence.PresenceUser.ID, presence)
}

func (c *core) DeletePresence(guildID snowflake.ID, userID snowflake.ID) {
	remove(c.presences, guildID, userID)
}

func (c *core) PutVoiceState(guildID snowflake.ID, voiceState discord.VoiceState) {
	put(c.voiceStates, guildID, voiceState.UserID, voiceState)
}

func (c *core) DeleteVoiceState(guildID snowflake.ID, userID snowflake.ID) {
	remove(c.voiceStates, guildID, userID)
}

// Locked single-primitive mutations. Each is atomic on its own; recipes with
// more than one step use Atomically.

func (c *Caches) SetSelfUser(user discord.OAuth2User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.SetSelfUser(user)
}

func (c *Caches) PutGuild(guild discord.Guild) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.PutGuild(guild)
}

func (c *Caches) DeleteGuild(guildID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.DeleteGuild(guildID)
}

func (c *Caches) SetGuildAvailable(guildID snowflake.ID, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.SetGuildAvailable(guildID, available)
}

func (c *Caches) SetInitialUnavailableGuilds(guildIDs []snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.SetInitialUnavailableGuilds(guildIDs)
}

func (c *Caches) PutChannel(guildID snowflake.ID, channel discord.GuildChannel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.PutChannel(guildID, channel)
}

func (c *Caches) DeleteChannel(guildID snowflake.ID, channelID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.DeleteChannel(guildID, channelID)
}

func (c *Caches) PutEmoji(guildID snowflake.ID, emoji discord.Emoji) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.PutEmoji(guildID, emoji)
}

func (c *Caches) DeleteEmoji(guildID snowflake.ID, emojiID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.DeleteEmoji(guildID, emojiID)
}

func (c *Caches) PutRole(guildID snowflake.ID, role discord.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.PutRole(guildID, role)
}

func (c *Caches) DeleteRole(guildID snowflake.ID, roleID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.DeleteRole(guildID, roleID)
}

func (c *Caches) PutMember(guildID snowflake.ID, member discord.Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.PutMember(guildID, member)
}

func (c *Caches) DeleteMember(guildID snowflake.ID, userID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.DeleteMember(guildID, userID)
}

func (c *Caches) PutPresence(guildID snowflake.ID, presence discord.Presence) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.PutPresence(guildID, presence)
}

func (c *Caches) DeletePresence(guildID snowflake.ID, userID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.DeletePresence(guildID, userID)
}

func (c *Caches) PutVoiceState(guildID snowflake.ID, voiceState discord.VoiceState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.PutVoiceState(guildID, voiceState)
}

func (c *Caches) DeleteVoiceState(guildID snowflake.ID, userID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.DeleteVoiceState(guildID, userID)
}

// Lookups. Pure reads, safe from any goroutine.

func (c *Caches) SelfUser() (discord.OAuth2User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.core.selfUser == nil {
		return discord.OAuth2User{}, false
	}
	return *c.core.selfUser, true
}

func (c *Caches) Guild(guildID snowflake.ID) (discord.Guild, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	guild, ok := c.core.guilds[guildID]
	return guild, ok
}

func (c *Caches) GuildIDs() []snowflake.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]snowflake.ID, 0, len(c.core.guilds))
	for id := range c.core.guilds {
		ids = append(ids, id)
	}
	return ids
}

// IsGuildUnavailable reports whether the guild sits in the unavailable set.
func (c *Caches) IsGuildUnavailable(guildID snowflake.ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.core.unavailableGuilds[guildID]
	return ok
}

func (c *Caches) UnavailableGuildIDs() []snowflake.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]snowflake.ID, 0, len(c.core.unavailableGuilds))
	for id := range c.core.unavailableGuilds {
		ids = append(ids, id)
	}
	return ids
}

func (c *Caches) Channel(guildID snowflake.ID, channelID snowflake.ID) (discord.GuildChannel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.core.channels, guildID, channelID)
}

func (c *Caches) Channels(guildID snowflake.ID) []discord.GuildChannel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return records(c.core.channels, guildID)
}

func (c *Caches) Emoji(guildID snowflake.ID, emojiID snowflake.ID) (discord.Emoji, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.core.emojis, guildID, emojiID)
}

func (c *Caches) Emojis(guildID snowflake.ID) []discord.Emoji {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return records(c.core.emojis, guildID)
}

func (c *Caches) Role(guildID snowflake.ID, roleID snowflake.ID) (discord.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.core.roles, guildID, roleID)
}

func (c *Caches) Roles(guildID snowflake.ID) []discord.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return records(c.core.roles, guildID)
}

func (c *Caches) Member(guildID snowflake.ID, userID snowflake.ID) (discord.Member, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.core.members, guildID, userID)
}

func (c *Caches) Members(guildID snowflake.ID) []discord.Member {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return records(c.core.members, guildID)
}

func (c *Caches) Presence(guildID snowflake.ID, userID snowflake.ID) (discord.Presence, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.core.presences, guildID, userID)
}

func (c *Caches) Presences(guildID snowflake.ID) []discord.Presence {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return records(c.core.presences, guildID)
}

func (c *Caches) VoiceState(guildID snowflake.ID, userID snowflake.ID) (discord.VoiceState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.core.voiceStates, guildID, userID)
}

func (c *Caches) VoiceStates(guildID snowflake.ID) []discord.VoiceState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return records(c.core.voiceStates, guildID)
}

// VoiceStatesForEach visits every cached voice state of the guild under the
// read lock. fn must not call back into the mirror.
func (c *Caches) VoiceStatesForEach(guildID snowflake.ID, fn func(voiceState discord.VoiceState)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, voiceState := range c.core.voiceStates[guildID] {
		fn(voiceState)
	}
}

// MembersForEach visits every cached member of the guild under the read lock.
func (c *Caches) MembersForEach(guildID snowflake.ID, fn func(member discord.Member)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, member := range c.core.members[guildID] {
		fn(member)
	}
}

// Stats is a point-in-time census of the mirror, reported by the status
// endpoint.
type Stats struct {
	Guilds            int `json:"guilds"`
	UnavailableGuilds int `json:"unavailable_guilds"`
	Channels          int `json:"channels"`
	Emojis            int `json:"emojis"`
	Roles             int `json:"roles"`
	Members           int `json:"members"`
	Presences         int `json:"presences"`
	VoiceStates       int `json:"voice_states"`
}

func (c *Caches) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Guilds:            len(c.core.guilds),
		UnavailableGuilds: len(c.core.unavailableGuilds),
		Channels:          count(c.core.channels),
		Emojis:            count(c.core.emojis),
		Roles:             count(c.core.roles),
		Members:           count(c.core.members),
		Presences:         count(c.core.presences),
		VoiceStates:       count(c.core.voiceStates),
	}
}

func count[T any](grouped map[snowflake.ID]map[snowflake.ID]T) int {
	total := 0
	for _, group := range grouped {
		total += len(group)
	}
	return total
}
