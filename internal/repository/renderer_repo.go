package repository

import (
	"context"
	"errors"

	"github.com/user/sitemeta-service/internal/entity"
)

var (
	ErrRenderTimeout    = errors.New("page render timed out")
	ErrNavigationFailed = errors.New("navigation failed")
)

// PageRenderer loads a URL in a real browser and returns the final DOM.
type PageRenderer interface {
	Render(ctx context.Context, url string) (*entity.RenderedPage, error)
}
