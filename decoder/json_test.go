package decoder

import (
	"testing"

	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-mirror/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReady(t *testing.T) {
	raw := []byte(`{
		"v": 10,
		"user": {"id": "1", "username": "luna"},
		"session_id": "abc123",
		"guilds": [{"id": "100", "unavailable": true}, {"id": "200", "unavailable": true}]
	}`)

	event, err := JSON{}.Decode(gateway.EventTypeReady, raw)
	require.NoError(t, err)

	ready, ok := event.(*events.Ready)
	require.True(t, ok)
	assert.Equal(t, "luna", ready.User.Username)
	assert.Equal(t, "abc123", ready.SessionID)
	require.Len(t, ready.Guilds, 2)
	assert.Equal(t, snowflake.ID(100), ready.Guilds[0].ID)
	assert.True(t, ready.Guilds[0].Unavailable)
}

func TestDecodeGuildCreate(t *testing.T) {
	raw := []byte(`{
		"id": "1",
		"name": "test guild",
		"channels": [
			{"id": "10", "type": 0, "guild_id": "1", "name": "general"},
			{"id": "11", "type": 2, "guild_id": "1", "name": "voice"}
		],
		"roles": [{"id": "20", "name": "admin"}],
		"emojis": [{"id": "30", "name": "blob"}],
		"members": [{"user": {"id": "40", "username": "bob"}, "roles": []}],
		"presences": [{"user": {"id": "40"}, "status": "online"}],
		"voice_states": [{"guild_id": "1", "channel_id": "11", "user_id": "40", "session_id": "s"}]
	}`)

	event, err := JSON{}.Decode(gateway.EventTypeGuildCreate, raw)
	require.NoError(t, err)

	guildCreate, ok := event.(*events.GuildCreate)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(1), guildCreate.Guild.ID)
	assert.Equal(t, "test guild", guildCreate.Guild.Name)
	require.Len(t, guildCreate.Channels, 2)
	assert.Equal(t, snowflake.ID(10), guildCreate.Channels[0].ID())
	require.Len(t, guildCreate.Roles, 1)
	require.Len(t, guildCreate.Emojis, 1)
	require.Len(t, guildCreate.Members, 1)
	assert.Equal(t, snowflake.ID(40), guildCreate.Members[0].User.ID)
	require.Len(t, guildCreate.Presences, 1)
	require.Len(t, guildCreate.VoiceStates, 1)
}

func TestDecodeGuildDeleteBranchFlag(t *testing.T) {
	event, err := JSON{}.Decode(gateway.EventTypeGuildDelete, []byte(`{"id": "1", "unavailable": true}`))
	require.NoError(t, err)
	guildDelete := event.(*events.GuildDelete)
	assert.True(t, guildDelete.Unavailable)

	// the leave variant omits the flag entirely
	event, err = JSON{}.Decode(gateway.EventTypeGuildDelete, []byte(`{"id": "1"}`))
	require.NoError(t, err)
	guildDelete = event.(*events.GuildDelete)
	assert.False(t, guildDelete.Unavailable)
}

func TestDecodeUnknownEventType(t *testing.T) {
	_, err := JSON{}.Decode(gateway.EventType("SOMETHING_NEW"), []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEventType)

	var decodeErr DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, gateway.EventType("SOMETHING_NEW"), decodeErr.EventType)
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := JSON{}.Decode(gateway.EventTypeGuildCreate, []byte(`{"id":`))
	require.Error(t, err)

	var decodeErr DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, gateway.EventTypeGuildCreate, decodeErr.EventType)
}

func TestDecodeVoiceStateUpdateNilChannel(t *testing.T) {
	event, err := JSON{}.Decode(gateway.EventTypeVoiceStateUpdate, []byte(`{
		"guild_id": "1",
		"channel_id": null,
		"user_id": "40",
		"session_id": "s"
	}`))
	require.NoError(t, err)
	voiceState := event.(*events.VoiceStateUpdate)
	assert.Nil(t, voiceState.ChannelID)
	assert.Equal(t, snowflake.ID(40), voiceState.UserID)
}
