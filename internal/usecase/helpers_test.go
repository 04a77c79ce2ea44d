package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/registry"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-duel/testing/fakeconn"
	"github.com/rocketscienceinc/tictactoe-duel/testing/fakeevents"
)

type harness struct {
	lobby    *Lobby
	registry *registry.Registry
	recorder *fakeevents.Recorder
}

type player struct {
	client *entity.Client
	conn   *fakeconn.Conn
}

func counterPINs() registry.Generator {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("pin%05d", n), nil
	}
}

func newHarness(opts ...LobbyOption) *harness {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(logger, registry.WithGenerator(counterPINs()))
	recorder := &fakeevents.Recorder{}

	return &harness{
		lobby:    NewLobby(logger, reg, recorder, opts...),
		registry: reg,
		recorder: recorder,
	}
}

func (that *harness) connect(t *testing.T) *player {
	t.Helper()

	conn := fakeconn.New()
	client, err := that.lobby.Connect(conn)
	require.NoError(t, err)

	return &player{client: client, conn: conn}
}

// pair connects two clients and plays the handshake through to a session.
func (that *harness) pair(t *testing.T) (*player, *player, *tictactoe.Room) {
	t.Helper()

	a, b := that.connect(t), that.connect(t)
	require.NoError(t, that.lobby.Challenge(a.client, b.client.PIN))
	require.NoError(t, that.lobby.RespondToChallenge(b.client, true))

	session, ok := a.client.Session()
	require.True(t, ok)

	room, ok := session.(*tictactoe.Room)
	require.True(t, ok)

	a.conn.Reset()
	b.conn.Reset()

	return a, b, room
}
