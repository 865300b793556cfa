package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseClientKnownTypes(t *testing.T) {
	msg, err := NewMessage(MsgTypeJoinRoom, JoinRoomMessage{RoomCode: "AB12CD", Name: "Alice"})
	require.NoError(t, err)

	parsed, err := msg.ParseClient()
	require.NoError(t, err)

	join, ok := parsed.(*JoinRoomMessage)
	require.True(t, ok, "expected *JoinRoomMessage, got %T", parsed)
	require.Equal(t, "AB12CD", join.RoomCode)
	require.Equal(t, "Alice", join.Name)
}

func TestParseClientEmptyPayload(t *testing.T) {
	msg := Message{Type: MsgTypePlayerReady}
	parsed, err := msg.ParseClient()
	require.NoError(t, err)
	require.IsType(t, &PlayerReadyMessage{}, parsed)
}

func TestParseClientRejectsUnknownType(t *testing.T) {
	msg := Message{Type: "teleport"}
	_, err := msg.ParseClient()
	require.Error(t, err)
}

func TestParseClientRejectsServerTypes(t *testing.T) {
	// Clients must not be able to inject server-side events.
	msg := Message{Type: MsgTypeScoresCalculated}
	_, err := msg.ParseClient()
	require.Error(t, err)
}

func TestParseClientRejectsMalformedPayload(t *testing.T) {
	msg := Message{Type: MsgTypeSubmitAnswers, Payload: []byte(`{"answers": 42}`)}
	_, err := msg.ParseClient()
	require.Error(t, err)
}
