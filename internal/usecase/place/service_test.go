package place

import (
	"context"
	"errors"
	"testing"

	"github.com/campscout/campsearch/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	details map[int64]domain.PlaceDetail
	ids     map[string]int64
}

func (m *mockRepo) Detail(_ context.Context, id int64) (domain.PlaceDetail, error) {
	d, ok := m.details[id]
	if !ok {
		return domain.PlaceDetail{}, domain.ErrPlaceNotFound
	}
	return d, nil
}

func (m *mockRepo) LookupID(_ context.Context, name string) (int64, error) {
	id, ok := m.ids[name]
	if !ok {
		return 0, domain.ErrPlaceNotFound
	}
	return id, nil
}

// --- Tests ---

func TestDetail(t *testing.T) {
	repo := &mockRepo{details: map[int64]domain.PlaceDetail{
		7: {Place: domain.Place{ID: 7, Name: "Pantai Ngrumput"}, PriceSource: domain.PriceSourceRows},
	}}
	svc := New(repo)

	d, err := svc.Detail(context.Background(), 7)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.Place.Name != "Pantai Ngrumput" {
		t.Errorf("unexpected place %+v", d.Place)
	}

	if _, err := svc.Detail(context.Background(), 99); !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	repo := &mockRepo{
		details: map[int64]domain.PlaceDetail{7: {Place: domain.Place{ID: 7, Name: "Pantai Ngrumput"}}},
		ids:     map[string]int64{"Pantai Ngrumput": 7},
	}
	svc := New(repo)

	d, err := svc.Lookup(context.Background(), " Pantai Ngrumput ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if d.Place.ID != 7 {
		t.Errorf("unexpected id %d", d.Place.ID)
	}

	if _, err := svc.Lookup(context.Background(), ""); !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Errorf("empty name should be not found, got %v", err)
	}
}
