package repository

import (
	"context"
	"errors"

	"github.com/user/sitemeta-service/internal/entity"
)

// ErrNotFound is returned when no check is stored for a URL.
var ErrNotFound = errors.New("record not found")

// PageCheckRepository defines the interface for storing site check results.
type PageCheckRepository interface {
	// Save stores the check for a URL. If the URL already exists, it is replaced.
	Save(ctx context.Context, check *entity.PageCheck) error
	// FindByURL retrieves the latest check for a specific URL, or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*entity.PageCheck, error)
}
