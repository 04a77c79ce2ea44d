package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// Message is the envelope carried by every text frame, in both directions.
type Message struct {
	OpCode string          `json:"opCode"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// encode - builds a frame payload. A bare string is wrapped as {"message": ...}.
func encode(opCode string, data any) ([]byte, error) {
	if text, ok := data.(string); ok {
		data = entity.MessageData{Message: text}
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", opCode, err)
	}

	frame, err := json.Marshal(Message{OpCode: opCode, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", opCode, err)
	}

	return frame, nil
}

func decode(raw []byte) (*Message, error) {
	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedMessage, err) //nolint: errorlint // only the sentinel is matched
	}

	if message.OpCode == "" {
		return nil, fmt.Errorf("%w: missing opCode", apperror.ErrMalformedMessage)
	}

	return &message, nil
}

// bind - decodes the payload into v. A missing payload leaves v at its zero value.
func (that *Message) bind(v any) error {
	if len(that.Data) == 0 || bytes.Equal(that.Data, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(that.Data, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", apperror.ErrMalformedMessage, that.OpCode, err) //nolint: errorlint // only the sentinel is matched
	}

	return nil
}
