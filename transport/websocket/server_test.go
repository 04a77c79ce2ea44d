package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/events"
	"github.com/rocketscienceinc/tictactoe-duel/internal/registry"
	"github.com/rocketscienceinc/tictactoe-duel/internal/usecase"
)

const readTimeout = 5 * time.Second

type peer struct {
	t   *testing.T
	ws  *websocket.Conn
	pin string
}

func startServer(t *testing.T, opts ...usecase.LobbyOption) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lobby := usecase.NewLobby(logger, registry.New(logger), events.NopPublisher{}, opts...)
	server := New(logger, lobby, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	go server.hub.Run(ctx)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})

	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *peer {
	t.Helper()

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	p := &peer{t: t, ws: ws}

	var data entity.PINData
	p.expect(entity.OpPIN, &data)
	require.Len(t, data.PIN, registry.PINLength)
	p.pin = data.PIN

	return p
}

func (that *peer) send(opCode string, data any) {
	that.t.Helper()

	frame, err := json.Marshal(map[string]any{"opCode": opCode, "data": data})
	require.NoError(that.t, err)
	that.sendRaw(string(frame))
}

func (that *peer) sendRaw(frame string) {
	that.t.Helper()

	require.NoError(that.t, that.ws.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func (that *peer) read() Message {
	that.t.Helper()

	require.NoError(that.t, that.ws.SetReadDeadline(time.Now().Add(readTimeout)))

	var msg Message
	require.NoError(that.t, that.ws.ReadJSON(&msg))

	return msg
}

// expect - reads the next message, checks its opCode and decodes its data into v.
func (that *peer) expect(opCode string, v any) {
	that.t.Helper()

	msg := that.read()
	require.Equal(that.t, opCode, msg.OpCode, string(msg.Data))

	if v != nil {
		require.NoError(that.t, json.Unmarshal(msg.Data, v))
	}
}

func (that *peer) expectMessage(opCode, message string) {
	that.t.Helper()

	var data entity.MessageData
	that.expect(opCode, &data)
	assert.Equal(that.t, message, data.Message)
}

func (that *peer) move(x, y int) {
	that.send(entity.OpGameSubmitTurn, map[string]int{"x": x, "y": y})
}

// pair - runs the challenge handshake and consumes the game-start messages.
func pair(t *testing.T, a, b *peer) {
	t.Helper()

	a.send(entity.OpChallenge, map[string]string{"targetPin": b.pin})
	a.expectMessage(entity.OpChallengeSent, "Challenge invite sent.")

	var invite entity.ChallengeInviteData
	b.expect(entity.OpChallengeInvite, &invite)
	assert.Equal(t, a.pin, invite.ChallengerPIN)

	b.send(entity.OpChallengeResponse, map[string]bool{"response": true})

	var start entity.GameStartData
	a.expect(entity.OpGameStart, &start)
	assert.Equal(t, entity.MarkX, start.Mark)
	a.expectMessage(entity.OpGameTakeTurnMe, "Make your move.")

	b.expect(entity.OpGameStart, &start)
	assert.Equal(t, entity.MarkO, start.Mark)
	b.expectMessage(entity.OpGameTakeTurnOther, "Awaiting other player.")
}

func TestServer_Scenario(t *testing.T) {
	t.Run("Challenge accepted and won", func(t *testing.T) {
		// Given:
		url := startServer(t)
		a, b := dial(t, url), dial(t, url)
		pair(t, a, b)

		moves := []struct {
			mover, waiter *peer
			x, y          int
			mark          entity.Mark
		}{
			{a, b, 1, 1, entity.MarkX},
			{b, a, 0, 0, entity.MarkO},
			{a, b, 0, 1, entity.MarkX},
			{b, a, 2, 2, entity.MarkO},
		}

		// When:
		for _, m := range moves {
			m.mover.move(m.x, m.y)

			for _, p := range []*peer{m.mover, m.waiter} {
				var update entity.GameUpdateData
				p.expect(entity.OpGameUpdate, &update)
				assert.Equal(t, entity.GameUpdateData{X: m.x, Y: m.y, Mark: m.mark}, update)
			}

			m.mover.expect(entity.OpGameTakeTurnOther, nil)
			m.waiter.expect(entity.OpGameTakeTurnMe, nil)
		}

		a.move(2, 1)

		// Then:
		a.expect(entity.OpGameUpdate, nil)
		a.expectMessage(entity.OpGameOver, "You win!")
		b.expect(entity.OpGameUpdate, nil)
		b.expectMessage(entity.OpGameOver, a.pin+" wins!")

		// After the game both are free to pair again.
		b.send(entity.OpChallenge, map[string]string{"targetPin": a.pin})
		b.expect(entity.OpChallengeSent, nil)
		a.expect(entity.OpChallengeInvite, nil)
	})

	t.Run("Challenge declined", func(t *testing.T) {
		// Given:
		url := startServer(t)
		a, b := dial(t, url), dial(t, url)

		a.send(entity.OpChallenge, map[string]string{"targetPin": b.pin})
		a.expect(entity.OpChallengeSent, nil)
		b.expect(entity.OpChallengeInvite, nil)

		// When:
		b.send(entity.OpChallengeResponse, map[string]bool{"response": false})

		// Then:
		a.expectMessage(entity.OpChallengeErr, "Challenge declined.")

		b.send(entity.OpGetPINs, nil)
		var pins entity.PINsData
		b.expect(entity.OpGetPINs, &pins)
		assert.Equal(t, []string{a.pin}, pins.PINs)
	})

	t.Run("Unknown target", func(t *testing.T) {
		// Given:
		url := startServer(t)
		a := dial(t, url)

		// When:
		a.send(entity.OpChallenge, map[string]string{"targetPin": "nobody00"})

		// Then:
		a.expectMessage(entity.OpChallengeErr, "Unable to find opponent nobody00.")
	})

	t.Run("Disconnect aborts the game", func(t *testing.T) {
		// Given:
		url := startServer(t)
		a, b := dial(t, url), dial(t, url)
		pair(t, a, b)

		// When:
		require.NoError(t, a.ws.Close())

		// Then:
		b.expectMessage(entity.OpGameErr, a.pin+" disconnected.")

		b.send(entity.OpGetPINs, nil)
		var pins entity.PINsData
		b.expect(entity.OpGetPINs, &pins)
		assert.Empty(t, pins.PINs)
	})
}

func TestServer_DropsBadFrames(t *testing.T) {
	// Given:
	url := startServer(t)
	a := dial(t, url)
	b := dial(t, url)

	// When:
	a.sendRaw(`not json`)
	a.sendRaw(`{"data":{}}`)
	a.sendRaw(`{"opCode":"bogus","data":{}}`)
	a.sendRaw(`{"opCode":"game-submit-turn","data":{"x":1}}`)
	a.send(entity.OpGameSubmitTurn, map[string]int{"x": 1, "y": 1})
	require.NoError(t, a.ws.WriteMessage(websocket.BinaryMessage, []byte{0x01}))
	a.send(entity.OpGetPINs, nil)

	// Then:
	var pins entity.PINsData
	a.expect(entity.OpGetPINs, &pins)
	assert.Equal(t, []string{b.pin}, pins.PINs)
}

func TestServer_MoveErrorReply(t *testing.T) {
	// Given:
	url := startServer(t, usecase.WithMoveErrorReply(true))
	a, b := dial(t, url), dial(t, url)
	pair(t, a, b)

	// When:
	b.move(0, 0)

	// Then:
	b.expectMessage(entity.OpGameErr, "It's not your turn.")

	a.move(0, 0)
	a.expect(entity.OpGameUpdate, nil)
	b.expect(entity.OpGameUpdate, nil)
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	// Given:
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lobby := usecase.NewLobby(logger, registry.New(logger), events.NopPublisher{})
	server := New(logger, lobby, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	go server.hub.Run(ctx)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	a := dial(t, "ws"+strings.TrimPrefix(ts.URL, "http"))

	// When:
	cancel()

	// Then:
	require.NoError(t, a.ws.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err := a.ws.ReadMessage()
	require.Error(t, err)

	select {
	case <-server.hub.done:
	case <-time.After(readTimeout):
		t.Fatal("hub did not stop")
	}
}
