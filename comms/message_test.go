package comms_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yookoala/seabattle/comms"
	"github.com/yookoala/seabattle/game"
)

func TestMessage_RoundTrip(t *testing.T) {
	sunk := game.NewShip(game.ShipTypeCruiser, 2, 2, game.ShipDirectionToDown)
	messages := []*comms.Message{
		comms.NewConnect("alice"),
		comms.NewConnectAck("bob"),
		comms.NewReady(),
		comms.NewShot(3, 7),
		comms.NewShotResult(3, 7, game.OutcomeHit),
		comms.NewShotResult(0, 0, game.OutcomeInvalid),
		comms.NewShipSunk(sunk),
		comms.NewGameOver(comms.ResultLost),
		comms.NewChat("good game\nsecond line \"quoted\""),
		comms.NewPing("42"),
		comms.NewPong("42"),
	}
	for _, m := range messages {
		t.Run(string(m.Kind), func(t *testing.T) {
			b, err := json.Marshal(m)
			require.NoError(t, err)
			assert.NotContains(t, string(b), "\n", "records never contain a raw line break")

			have, err := comms.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, m, have)
		})
	}
}

func TestMessage_Fields(t *testing.T) {
	assert.JSONEq(t,
		`{"kind":"shot_result","x":2,"y":4,"outcome":"sunk"}`,
		comms.NewShotResult(2, 4, game.OutcomeSunk).String(),
	)
	assert.JSONEq(t,
		`{"kind":"ship_sunk","x":2,"y":2,"data":"Cruiser"}`,
		comms.NewShipSunk(game.NewShip(game.ShipTypeCruiser, 2, 2, game.ShipDirectionToDown)).String(),
	)
	assert.JSONEq(t, `{"kind":"connect","x":0,"y":0,"name":"alice"}`, comms.NewConnect("alice").String())
}

func TestDecode_Lenient(t *testing.T) {
	m, err := comms.Decode([]byte(`{"kind":"shot","x":1,"y":2,"extra":true,"nested":{"a":1}}`))
	require.NoError(t, err)
	assert.Equal(t, comms.NewShot(1, 2), m)

	m, err = comms.Decode([]byte(`{"kind":"shot_result"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.X)
	assert.Equal(t, game.OutcomeInvalid, m.Outcome)
	assert.Empty(t, m.Name)
}

func TestDecode_Errors(t *testing.T) {
	for _, record := range []string{
		`{"kind":"teleport"}`,
		`{"x":1}`,
		`not json`,
		`{"kind":"shot_result","outcome":"splash"}`,
	} {
		_, err := comms.Decode([]byte(record))
		var de *comms.DecodeError
		require.ErrorAs(t, err, &de, "record %s", record)
		assert.Equal(t, record, string(de.Record))
	}

	assert.Panics(t, func() { comms.MustDecode(`{"kind":"teleport"}`) })
}

func TestKind_IsValid(t *testing.T) {
	assert.True(t, comms.KindShipSunk.IsValid())
	assert.False(t, comms.Kind("").IsValid())
	assert.False(t, comms.Kind(strings.ToUpper(string(comms.KindShot))).IsValid())
}
