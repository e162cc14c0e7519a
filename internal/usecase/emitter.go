package usecase

import (
	"context"
	"errors"

	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
)

// FanoutEmitter forwards every command to all of its emitters.
// One failing emitter does not stop the others.
type FanoutEmitter struct {
	emitters []repository.Emitter
}

func NewFanoutEmitter(emitters ...repository.Emitter) *FanoutEmitter {
	return &FanoutEmitter{emitters: emitters}
}

func (f *FanoutEmitter) Emit(ctx context.Context, cmd entity.Command) error {
	var errs []error
	for _, e := range f.emitters {
		if err := e.Emit(ctx, cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
