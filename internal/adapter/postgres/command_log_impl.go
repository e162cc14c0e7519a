package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
)

// CommandLogEmitter records every tagging command in the analytics_commands table.
// It implements repository.Emitter.
type CommandLogEmitter struct {
	db  DBTX
	now func() time.Time
}

// NewCommandLogEmitter creates a new instance of CommandLogEmitter.
func NewCommandLogEmitter(db DBTX) *CommandLogEmitter {
	return &CommandLogEmitter{db: db, now: time.Now}
}

// Emit appends the command to the log.
func (e *CommandLogEmitter) Emit(ctx context.Context, cmd entity.Command) error {
	paramsJSON, err := json.Marshal(cmd.Params)
	if err != nil {
		return fmt.Errorf("failed to encode command params: %w", err)
	}

	issuedAt := cmd.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = e.now()
	}

	query := `
		INSERT INTO analytics_commands (visitor_id, kind, target, params, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := e.db.Exec(ctx, query, cmd.VisitorID, string(cmd.Kind), cmd.Target, paramsJSON, issuedAt); err != nil {
		return fmt.Errorf("failed to log %s command: %w", cmd.Kind, err)
	}
	return nil
}
