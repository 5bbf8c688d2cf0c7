package memory

import (
	"context"
	"errors"
	"testing"

	"savings/internal/params"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Load(ctx, "c1"); !errors.Is(err, params.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	lang := "ja"
	saved := params.Saved{InitialAmount: "1", MonthlyAmount: "2", AnnualRate: "3", Years: "4", Language: &lang}
	if err := s.Save(ctx, "c1", saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(ctx, " c1 ")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.MonthlyAmount != "2" || got.Language == nil || *got.Language != "ja" {
		t.Fatalf("unexpected record: %+v", got)
	}

	// mutating the loaded copy must not leak into the store
	*got.Language = "en"
	again, _ := s.Load(ctx, "c1")
	if *again.Language != "ja" {
		t.Fatalf("stored record was mutated: %q", *again.Language)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}
