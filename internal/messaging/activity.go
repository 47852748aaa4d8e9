package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// LogActivity is a consumer handler that writes every showroom event to the
// structured log.
func LogActivity(ctx context.Context, payload []byte) error {
	var env struct {
		Type    string          `json:"type"`
		Key     string          `json:"key"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	slog.InfoContext(ctx, "📣 Showroom activity", "type", env.Type, "key", env.Key, "bytes", len(env.Payload))
	return nil
}
