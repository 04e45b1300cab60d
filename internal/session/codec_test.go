package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"holdemroom/holdem"
)

func TestParseClientMessage(t *testing.T) {
	msg, err := parseClientMessage([]byte(`{"action":"bet","amount":200}`))
	require.NoError(t, err)
	require.Equal(t, "bet", msg.Action)
	require.Equal(t, int64(200), msg.Amount)
}

func TestParseClientMessageRejectsMissingAction(t *testing.T) {
	_, err := parseClientMessage([]byte(`{"amount":200}`))
	require.Error(t, err)
}

func TestParseClientMessageRejectsMalformedJSON(t *testing.T) {
	_, err := parseClientMessage([]byte(`not json`))
	require.Error(t, err)
}

func TestActionFromWire(t *testing.T) {
	cases := map[string]holdem.ActionType{
		"fold":   holdem.PlayerActionTypeFold,
		"check":  holdem.PlayerActionTypeCheck,
		"call":   holdem.PlayerActionTypeCall,
		"bet":    holdem.PlayerActionTypeBet,
		"raise":  holdem.PlayerActionTypeRaise,
		"all_in": holdem.PlayerActionTypeAllin,
	}
	for wire, want := range cases {
		got, ok := actionFromWire(wire)
		require.True(t, ok, wire)
		require.Equal(t, want, got, wire)
	}
}

func TestActionFromWireRejectsUnknown(t *testing.T) {
	_, ok := actionFromWire("start_game")
	require.False(t, ok)
}
