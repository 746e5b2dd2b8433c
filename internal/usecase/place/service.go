// Package place serves full place records to the UI layer: base info,
// price lines, and facility tags.
package place

import (
	"context"
	"fmt"
	"strings"

	"github.com/campscout/campsearch/internal/domain"
)

// Service handles place detail and name lookup.
type Service struct {
	repo Repository
}

// New creates a place service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Detail fetches the full record for a place id.
func (s *Service) Detail(ctx context.Context, id int64) (domain.PlaceDetail, error) {
	detail, err := s.repo.Detail(ctx, id)
	if err != nil {
		return domain.PlaceDetail{}, fmt.Errorf("place detail %d: %w", id, err)
	}
	return detail, nil
}

// Lookup resolves a place name (as exposed in search results) to its full
// record.
func (s *Service) Lookup(ctx context.Context, name string) (domain.PlaceDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.PlaceDetail{}, domain.ErrPlaceNotFound
	}
	id, err := s.repo.LookupID(ctx, name)
	if err != nil {
		return domain.PlaceDetail{}, fmt.Errorf("place lookup %q: %w", name, err)
	}
	return s.Detail(ctx, id)
}
