package place

import (
	"context"

	"github.com/campscout/campsearch/internal/domain"
)

// Repository reads place records from storage.
type Repository interface {
	Detail(ctx context.Context, id int64) (domain.PlaceDetail, error)
	LookupID(ctx context.Context, name string) (int64, error)
}
