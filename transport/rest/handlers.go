package rest

import (
	"log/slog"
	"net/http"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	WSPortHandler(w http.ResponseWriter, _ *http.Request)
}

type handlers struct {
	logger     *slog.Logger
	socketPort string
}

// NewHandlers - socketPort is reported to web clients so they know where to
// open the websocket.
func NewHandlers(logger *slog.Logger, socketPort string) Handlers {
	return &handlers{
		logger:     logger.With("component", "rest"),
		socketPort: socketPort,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeText(w, "pong")
}

func (that *handlers) WSPortHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeText(w, that.socketPort)
}

func (that *handlers) writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(body)); err != nil {
		that.logger.Debug("failed to write response", "error", err)
	}
}
