package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

func TestEncode(t *testing.T) {
	t.Run("Wraps bare strings", func(t *testing.T) {
		// When:
		frame, err := encode(entity.OpGameOver, "You win!")

		// Then:
		require.NoError(t, err)
		assert.JSONEq(t, `{"opCode":"game-over","data":{"message":"You win!"}}`, string(frame))
	})

	t.Run("Keeps structured payloads", func(t *testing.T) {
		// When:
		frame, err := encode(entity.OpGameUpdate, entity.GameUpdateData{X: 2, Y: 0, Mark: entity.MarkO})

		// Then:
		require.NoError(t, err)
		assert.JSONEq(t, `{"opCode":"game-update","data":{"x":2,"y":0,"mark":"O"}}`, string(frame))
	})

	t.Run("Fails on unmarshalable data", func(t *testing.T) {
		// When:
		_, err := encode(entity.OpPIN, make(chan int))

		// Then:
		require.Error(t, err)
	})
}

func TestDecode(t *testing.T) {
	t.Run("Parses a request", func(t *testing.T) {
		// Given:
		raw := []byte(`{"opCode":"challenge","data":{"targetPin":"Ab3dE6gH"}}`)

		// When:
		msg, err := decode(raw)
		require.NoError(t, err)

		var req entity.ChallengeRequest
		require.NoError(t, msg.bind(&req))

		// Then:
		assert.Equal(t, entity.OpChallenge, msg.OpCode)
		assert.Equal(t, "Ab3dE6gH", req.TargetPIN)
	})

	t.Run("Rejects broken frames", func(t *testing.T) {
		for _, raw := range []string{
			`not json`,
			`{"data":{}}`,
			`{"opCode":7}`,
			`[]`,
		} {
			_, err := decode([]byte(raw))
			require.ErrorIs(t, err, apperror.ErrMalformedMessage, raw)
		}
	})

	t.Run("Missing data binds to zero values", func(t *testing.T) {
		for _, data := range []json.RawMessage{nil, json.RawMessage("null")} {
			// Given:
			msg := &Message{OpCode: entity.OpChallengeResponse, Data: data}

			// When:
			var req entity.ChallengeResponseRequest
			err := msg.bind(&req)

			// Then:
			require.NoError(t, err)
			assert.False(t, req.Response)
		}
	})

	t.Run("Mistyped data is malformed", func(t *testing.T) {
		// Given:
		msg := &Message{OpCode: entity.OpGameSubmitTurn, Data: json.RawMessage(`{"x":"one","y":1}`)}

		// When:
		var req entity.TurnRequest
		err := msg.bind(&req)

		// Then:
		require.ErrorIs(t, err, apperror.ErrMalformedMessage)
	})
}
