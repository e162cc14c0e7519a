package repository

import (
	"context"

	"github.com/user/sitemeta-service/internal/entity"
)

// Emitter is the tagging-function boundary: every tracking call ends up here.
type Emitter interface {
	Emit(ctx context.Context, cmd entity.Command) error
}
