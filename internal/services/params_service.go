package services

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"savings/internal/params"
)

// ParamsService restores and saves form parameters. Store failures are
// logged and never surface to the caller.
type ParamsService struct {
	store params.Store
}

// NewParamsService accepts a nil store, in which case nothing is persisted.
func NewParamsService(store params.Store) *ParamsService {
	return &ParamsService{store: store}
}

// Load resolves the parameters for a request: query, then the stored copy
// for clientID, then the defaults.
func (s *ParamsService) Load(ctx context.Context, clientID string, query url.Values) params.Saved {
	return params.Resolve(query, s.stored(ctx, clientID))
}

func (s *ParamsService) stored(ctx context.Context, clientID string) *params.Saved {
	if s.store == nil || clientID == "" {
		return nil
	}
	saved, err := s.store.Load(ctx, clientID)
	if errors.Is(err, params.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to load saved params, using defaults", "error", err)
		return nil
	}
	return &saved
}

// Save persists saved for clientID.
func (s *ParamsService) Save(ctx context.Context, clientID string, saved params.Saved) {
	if s.store == nil || clientID == "" {
		return
	}
	if err := s.store.Save(ctx, clientID, saved); err != nil {
		slog.WarnContext(ctx, "Failed to save params", "error", err)
	}
}
