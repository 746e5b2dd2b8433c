package search

import (
	"context"
	"testing"

	"github.com/campscout/campsearch/internal/domain"
	"go.uber.org/zap"
)

func normalizerEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(context.Background(), &stubLoader{entries: testCorpus()}, testModel(), testLexicon(t), DefaultParams(), zap.NewNop())
	t.Cleanup(e.Close)
	return e
}

func TestNormalize_PhraseBeforeWord(t *testing.T) {
	e := normalizerEngine(t)

	// "kamar mandi" -> toilet must apply before the standalone rule
	// "mandi" -> bath can touch the substring.
	got, intent := e.normalize("Kamar Mandi bersih")
	if intent != domain.IntentNone {
		t.Fatalf("unexpected intent %q", intent)
	}
	if got != "toilet bersih" {
		t.Errorf("expected %q, got %q", "toilet bersih", got)
	}

	got, _ = e.normalize("mau mandi di sungai")
	if got != "mau bath di sungai" {
		t.Errorf("standalone word rule should still apply, got %q", got)
	}
}

func TestNormalize_IntentShortCircuit(t *testing.T) {
	e := normalizerEngine(t)

	got, intent := e.normalize("  Semua Tempat  ")
	if intent != domain.IntentAll {
		t.Fatalf("expected ALL, got %q", intent)
	}
	// Intent match returns immediately: no phrase rewriting.
	if got != "semua tempat" {
		t.Errorf("expected %q, got %q", "semua tempat", got)
	}
}

func TestNormalize_StripsPunctuation(t *testing.T) {
	e := normalizerEngine(t)

	got, _ := e.normalize("pantai, bersih! (murah)")
	if got != "pantai bersih murah" {
		t.Errorf("expected %q, got %q", "pantai bersih murah", got)
	}
}
