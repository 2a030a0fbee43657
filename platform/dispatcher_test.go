package platform

import (
	"sync"
	"testing"

	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-mirror/decoder"
	"github.com/fuad-daoud/discord-mirror/events"
	"github.com/fuad-daoud/discord-mirror/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink collects events synchronously so tests can assert on exactly
// what was dispatched and in what order.
type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) Dispatch(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event{}, s.events...)
}

func newTestDispatcher() (*Dispatcher, *state.Caches, *recordingSink) {
	caches := state.NewCaches()
	sink := &recordingSink{}
	return NewDispatcher(caches, decoder.JSON{}, sink), caches, sink
}

const readyPayload = `{
	"v": 10,
	"user": {"id": "1", "username": "luna"},
	"session_id": "abc123",
	"guilds": [{"id": "100", "unavailable": true}, {"id": "200", "unavailable": true}]
}`

const guildCreateG1 = `{
	"id": "100",
	"name": "first guild",
	"channels": [
		{"id": "10", "type": 0, "guild_id": "100", "name": "general"},
		{"id": "11", "type": 2, "guild_id": "100", "name": "voice"}
	],
	"roles": [{"id": "20", "name": "admin"}],
	"emojis": [],
	"members": [{"user": {"id": "40", "username": "bob"}, "roles": []}],
	"presences": [{"user": {"id": "40"}, "status": "online"}],
	"voice_states": [{"guild_id": "100", "channel_id": "11", "user_id": "40", "session_id": "s"}]
}`

func TestReadySeedsMirror(t *testing.T) {
	dispatcher, caches, sink := newTestDispatcher()

	err := dispatcher.HandleEvent(0, gateway.EventTypeReady, []byte(readyPayload))
	require.NoError(t, err)

	selfUser, ok := caches.SelfUser()
	require.True(t, ok)
	assert.Equal(t, "luna", selfUser.Username)
	assert.True(t, caches.IsGuildUnavailable(100))
	assert.True(t, caches.IsGuildUnavailable(200))

	got := sink.Events()
	require.Len(t, got, 1)
	ready, ok := got[0].(*events.Ready)
	require.True(t, ok)
	assert.Equal(t, "abc123", ready.SessionID)
}

// A second snapshot for the same guild must fully replace the first: no child
// of the old snapshot survives unless the new one carries it.
func TestGuildSnapshotReplacesNeverMerges(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()

	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(guildCreateG1)))
	require.Len(t, caches.Channels(100), 2)
	require.Len(t, caches.Roles(100), 1)

	second := `{
		"id": "100",
		"name": "first guild",
		"channels": [{"id": "12", "type": 0, "guild_id": "100", "name": "only"}],
		"roles": [],
		"emojis": [],
		"members": [],
		"presences": [],
		"voice_states": []
	}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(second)))

	channels := caches.Channels(100)
	require.Len(t, channels, 1)
	assert.Equal(t, snowflake.ID(12), channels[0].ID())
	assert.Empty(t, caches.Roles(100))
	assert.Empty(t, caches.Members(100))
	assert.Empty(t, caches.Presences(100))
	assert.Empty(t, caches.VoiceStates(100))
}

func TestGuildCreateMarksAvailable(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()

	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeReady, []byte(readyPayload)))
	require.True(t, caches.IsGuildUnavailable(100))

	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(guildCreateG1)))
	assert.False(t, caches.IsGuildUnavailable(100))
	_, ok := caches.Guild(100)
	assert.True(t, ok)
}

// guild-update may only touch guild fields, roles and emojis. Channels,
// members, presences and voice states stay exactly as the last snapshot left
// them.
func TestGuildUpdateTouchesOnlyRolesAndEmojis(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(guildCreateG1)))

	channelsBefore := caches.Channels(100)
	membersBefore := caches.Members(100)
	presencesBefore := caches.Presences(100)
	voiceStatesBefore := caches.VoiceStates(100)

	update := `{
		"id": "100",
		"name": "renamed guild",
		"roles": [{"id": "21", "name": "mod"}],
		"emojis": [{"id": "31", "name": "wave"}]
	}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildUpdate, []byte(update)))

	guild, ok := caches.Guild(100)
	require.True(t, ok)
	assert.Equal(t, "renamed guild", guild.Name)

	roles := caches.Roles(100)
	require.Len(t, roles, 1)
	assert.Equal(t, snowflake.ID(21), roles[0].ID)
	emojis := caches.Emojis(100)
	require.Len(t, emojis, 1)
	assert.Equal(t, snowflake.ID(31), emojis[0].ID)

	assert.ElementsMatch(t, channelsBefore, caches.Channels(100))
	assert.ElementsMatch(t, membersBefore, caches.Members(100))
	assert.ElementsMatch(t, presencesBefore, caches.Presences(100))
	assert.ElementsMatch(t, voiceStatesBefore, caches.VoiceStates(100))
}

func TestGuildDeleteBranches(t *testing.T) {
	dispatcher, caches, sink := newTestDispatcher()
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(guildCreateG1)))

	// outage: children retained, guild marked unavailable
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildDelete, []byte(`{"id": "100", "unavailable": true}`)))
	assert.True(t, caches.IsGuildUnavailable(100))
	_, ok := caches.Guild(100)
	assert.True(t, ok)
	assert.Len(t, caches.Channels(100), 2)

	// leave: everything gone, including unavailable-set membership
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildDelete, []byte(`{"id": "100"}`)))
	assert.False(t, caches.IsGuildUnavailable(100))
	_, ok = caches.Guild(100)
	assert.False(t, ok)
	assert.Empty(t, caches.Channels(100))
	assert.Empty(t, caches.Roles(100))

	got := sink.Events()
	require.Len(t, got, 3)
	_, ok = got[1].(*events.GuildUnavailable)
	assert.True(t, ok, "second event should be the unavailable variant")
	_, ok = got[2].(*events.GuildLeave)
	assert.True(t, ok, "third event should be the leave variant")
}

func TestDecodeFailureIsolation(t *testing.T) {
	dispatcher, caches, sink := newTestDispatcher()

	err := dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(`{"id":`))
	require.Error(t, err)
	var decodeErr decoder.DecodeError
	require.ErrorAs(t, err, &decodeErr)

	assert.Empty(t, caches.GuildIDs(), "failed decode must not touch the mirror")
	assert.Empty(t, sink.Events(), "failed decode must not dispatch")

	// the next payload processes normally
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(guildCreateG1)))
	assert.Len(t, sink.Events(), 1)
}

func TestUnknownKindDropped(t *testing.T) {
	dispatcher, caches, sink := newTestDispatcher()

	err := dispatcher.HandleEvent(0, gateway.EventType("SOMETHING_NEW"), []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, decoder.ErrUnknownEventType)
	assert.Empty(t, caches.GuildIDs())
	assert.Empty(t, sink.Events())
}

func TestMemberChunkDropped(t *testing.T) {
	dispatcher, _, sink := newTestDispatcher()

	err := dispatcher.HandleEvent(0, gateway.EventTypeGuildMembersChunk, []byte(`{"guild_id": "100", "members": []}`))
	require.NoError(t, err)
	assert.Empty(t, sink.Events(), "member chunks are a known gap and must not dispatch")
}

func TestChannelDeltas(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()

	create := `{"id": "10", "type": 0, "guild_id": "100", "name": "general"}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeChannelCreate, []byte(create)))
	channel, ok := caches.Channel(100, 10)
	require.True(t, ok)
	assert.Equal(t, "general", channel.Name())

	update := `{"id": "10", "type": 0, "guild_id": "100", "name": "renamed"}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeChannelUpdate, []byte(update)))
	channel, ok = caches.Channel(100, 10)
	require.True(t, ok)
	assert.Equal(t, "renamed", channel.Name())

	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeChannelDelete, []byte(update)))
	_, ok = caches.Channel(100, 10)
	assert.False(t, ok)
}

func TestRoleDeltas(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()

	create := `{"guild_id": "100", "role": {"id": "20", "name": "admin"}}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildRoleCreate, []byte(create)))
	role, ok := caches.Role(100, 20)
	require.True(t, ok)
	assert.Equal(t, "admin", role.Name)

	update := `{"guild_id": "100", "role": {"id": "20", "name": "mod"}}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildRoleUpdate, []byte(update)))
	role, _ = caches.Role(100, 20)
	assert.Equal(t, "mod", role.Name)

	remove := `{"guild_id": "100", "role_id": "20"}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildRoleDelete, []byte(remove)))
	_, ok = caches.Role(100, 20)
	assert.False(t, ok)
}

func TestMemberDeltas(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()

	add := `{"guild_id": "100", "user": {"id": "40", "username": "bob"}, "roles": []}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildMemberAdd, []byte(add)))
	member, ok := caches.Member(100, 40)
	require.True(t, ok)
	assert.Equal(t, "bob", member.User.Username)

	remove := `{"guild_id": "100", "user": {"id": "40", "username": "bob"}}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildMemberRemove, []byte(remove)))
	_, ok = caches.Member(100, 40)
	assert.False(t, ok)
}

func TestPresenceAndVoiceStateDeltas(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()

	presence := `{"user": {"id": "40"}, "guild_id": "100", "status": "online"}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypePresenceUpdate, []byte(presence)))
	_, ok := caches.Presence(100, 40)
	assert.True(t, ok)

	join := `{"guild_id": "100", "channel_id": "11", "user_id": "40", "session_id": "s"}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeVoiceStateUpdate, []byte(join)))
	voiceState, ok := caches.VoiceState(100, 40)
	require.True(t, ok)
	require.NotNil(t, voiceState.ChannelID)
	assert.Equal(t, snowflake.ID(11), *voiceState.ChannelID)

	// nil channel means the user left voice
	leave := `{"guild_id": "100", "channel_id": null, "user_id": "40", "session_id": "s"}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeVoiceStateUpdate, []byte(leave)))
	_, ok = caches.VoiceState(100, 40)
	assert.False(t, ok)
}

func TestEmojisUpdateReplacesCollection(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(guildCreateG1)))

	first := `{"guild_id": "100", "emojis": [{"id": "30", "name": "blob"}, {"id": "31", "name": "wave"}]}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildEmojisUpdate, []byte(first)))
	assert.Len(t, caches.Emojis(100), 2)

	second := `{"guild_id": "100", "emojis": [{"id": "32", "name": "think"}]}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildEmojisUpdate, []byte(second)))
	emojis := caches.Emojis(100)
	require.Len(t, emojis, 1)
	assert.Equal(t, snowflake.ID(32), emojis[0].ID)
}

func TestUserUpdateReplacesSelfUser(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeReady, []byte(readyPayload)))

	update := `{"id": "1", "username": "luna-renamed"}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeUserUpdate, []byte(update)))
	selfUser, ok := caches.SelfUser()
	require.True(t, ok)
	assert.Equal(t, "luna-renamed", selfUser.Username)
}

func TestSyntheticConnectionEvents(t *testing.T) {
	dispatcher, _, sink := newTestDispatcher()

	dispatcher.OnConnected(3)
	dispatcher.OnDisconnected(3)

	got := sink.Events()
	require.Len(t, got, 2)
	connected, ok := got[0].(*events.Connected)
	require.True(t, ok)
	assert.Equal(t, 3, connected.ShardID)
	_, ok = got[1].(*events.Disconnected)
	assert.True(t, ok)
}

// The end-to-end scenario: ready seeds the unavailable set, a snapshot brings
// one guild up, an outage marks it unavailable with children retained.
func TestSessionScenario(t *testing.T) {
	dispatcher, caches, sink := newTestDispatcher()

	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeReady, []byte(readyPayload)))
	assert.True(t, caches.IsGuildUnavailable(100))
	assert.True(t, caches.IsGuildUnavailable(200))
	_, ok := caches.SelfUser()
	require.True(t, ok)

	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(guildCreateG1)))
	assert.False(t, caches.IsGuildUnavailable(100))
	assert.Len(t, caches.Channels(100), 2)
	assert.Len(t, caches.Roles(100), 1)

	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildDelete, []byte(`{"id": "100", "unavailable": true}`)))
	assert.True(t, caches.IsGuildUnavailable(100))
	assert.Len(t, caches.Channels(100), 2, "children retained through an outage")
	assert.Len(t, caches.Roles(100), 1)

	types := make([]gateway.EventType, 0)
	for _, event := range sink.Events() {
		types = append(types, event.EventType())
	}
	assert.Equal(t, []gateway.EventType{
		gateway.EventTypeReady,
		gateway.EventTypeGuildCreate,
		gateway.EventTypeGuildDelete,
	}, types)
}

// Readers sampling the mirror while snapshots are applied must always see a
// whole role set, never a partial one.
func TestConcurrentReaderDuringSnapshots(t *testing.T) {
	dispatcher, caches, _ := newTestDispatcher()

	twoRoles := `{
		"id": "100", "name": "g",
		"channels": [], "emojis": [], "members": [], "presences": [], "voice_states": [],
		"roles": [{"id": "20"}, {"id": "21"}]
	}`
	threeRoles := `{
		"id": "100", "name": "g",
		"channels": [], "emojis": [], "members": [], "presences": [], "voice_states": [],
		"roles": [{"id": "22"}, {"id": "23"}, {"id": "24"}]
	}`
	require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(twoRoles)))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if got := len(caches.Roles(100)); got != 2 && got != 3 {
				t.Errorf("reader saw %d roles, expected a whole set of 2 or 3", got)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		payload := threeRoles
		if i%2 == 1 {
			payload = twoRoles
		}
		require.NoError(t, dispatcher.HandleEvent(0, gateway.EventTypeGuildCreate, []byte(payload)))
	}
	close(done)
	wg.Wait()
}
