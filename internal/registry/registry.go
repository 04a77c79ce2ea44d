package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// maxAttempts bounds collision retries; with 62^8 candidates it is never reached in practice.
const maxAttempts = 64

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrPINSpaceCrowded = errors.New("could not find a free pin")
)

type Option func(*Registry)

// WithGenerator replaces the PIN generator.
func WithGenerator(generate Generator) Option {
	return func(that *Registry) {
		that.generate = generate
	}
}

// Registry maps PINs to live clients. It is owned by a single goroutine and
// performs no locking of its own.
type Registry struct {
	logger   *slog.Logger
	clients  map[string]*entity.Client
	generate Generator
}

func New(logger *slog.Logger, opts ...Option) *Registry {
	registry := &Registry{
		logger:   logger.With("component", "registry"),
		clients:  make(map[string]*entity.Client),
		generate: GeneratePIN,
	}

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// Register - allocates an unused PIN for conn and stores the new client.
func (that *Registry) Register(conn entity.Conn) (*entity.Client, error) {
	log := that.logger.With("method", "Register")

	for attempt := 0; attempt < maxAttempts; attempt++ {
		pin, err := that.generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate pin: %w", err)
		}

		if _, taken := that.clients[pin]; taken {
			log.Debug("pin collision, regenerating", "pin", pin)
			continue
		}

		client := entity.NewClient(pin, conn)
		that.clients[pin] = client

		return client, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrPINSpaceCrowded, maxAttempts)
}

// Unregister - removes pin. It reports whether anything was removed, so a
// second call for the same connection is harmless.
func (that *Registry) Unregister(pin string) bool {
	if _, ok := that.clients[pin]; !ok {
		return false
	}

	delete(that.clients, pin)

	return true
}

func (that *Registry) Lookup(pin string) (*entity.Client, error) {
	client, ok := that.clients[pin]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, pin)
	}

	return client, nil
}

// List - returns every registered PIN except excluding, in no particular order.
func (that *Registry) List(excluding string) []string {
	pins := make([]string, 0, len(that.clients))
	for pin := range that.clients {
		if pin == excluding {
			continue
		}
		pins = append(pins, pin)
	}

	return pins
}

func (that *Registry) Len() int {
	return len(that.clients)
}
