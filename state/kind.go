package state

import "fmt"

// Kind names one child collection scoped under a guild.
type Kind string

const (
	KindChannels    Kind = "channels"
	KindEmojis      Kind = "emojis"
	KindRoles       Kind = "roles"
	KindMembers     Kind = "members"
	KindPresences   Kind = "presences"
	KindVoiceStates Kind = "voiceStates"
)

// AllKinds is every child collection a guild owns. Deleting a guild clears
// all of them.
var AllKinds = []Kind{KindChannels, KindEmojis, KindRoles, KindMembers, KindPresences, KindVoiceStates}

// InconsistentStateError reports a mirror operation against a collection kind
// that does not exist. It signals a programming defect in the caller, not a
// bad payload.
type InconsistentStateError struct {
	Kind Kind
}

func (e InconsistentStateError) Error() string {
	return fmt.Sprintf("mirror has no collection kind %q", e.Kind)
}
