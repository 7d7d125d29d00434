package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/formaworks/uniform-cart-service/internal/store"
)

// FavoritesService keeps the per-session wishlist: a set of product IDs,
// persisted independently of the cart under its own store key with the same
// hydrate, mutate, write-through lifecycle.
type FavoritesService struct {
	store store.Store

	mu        sync.Mutex
	favorites map[string]map[string]struct{}
	order     map[string][]string
}

func NewFavoritesService(st store.Store) *FavoritesService {
	return &FavoritesService{
		store:     st,
		favorites: make(map[string]map[string]struct{}),
		order:     make(map[string][]string),
	}
}

// List returns the favorite product IDs in the order they were added.
func (s *FavoritesService) List(ctx context.Context, sessionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate(ctx, sessionID)

	ids := make([]string, len(s.order[sessionID]))
	copy(ids, s.order[sessionID])

	return ids
}

// Contains reports whether the product is in the session's favorites.
func (s *FavoritesService) Contains(ctx context.Context, sessionID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate(ctx, sessionID)

	_, ok := s.favorites[sessionID][productID]

	return ok
}

// Add puts the product into the session's favorites; adding an existing ID
// is a no-op.
func (s *FavoritesService) Add(ctx context.Context, sessionID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate(ctx, sessionID)

	if _, ok := s.favorites[sessionID][productID]; ok {
		return
	}

	s.favorites[sessionID][productID] = struct{}{}
	s.order[sessionID] = append(s.order[sessionID], productID)
	s.persist(ctx, sessionID)
}

// Remove drops the product from the session's favorites; removing a missing
// ID is a no-op.
func (s *FavoritesService) Remove(ctx context.Context, sessionID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate(ctx, sessionID)

	if _, ok := s.favorites[sessionID][productID]; !ok {
		return
	}

	delete(s.favorites[sessionID], productID)

	ids := s.order[sessionID]
	for i, id := range ids {
		if id == productID {
			s.order[sessionID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	s.persist(ctx, sessionID)
}

// Toggle adds the product when absent and removes it when present,
// reporting whether it is a favorite afterwards.
func (s *FavoritesService) Toggle(ctx context.Context, sessionID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate(ctx, sessionID)

	if _, ok := s.favorites[sessionID][productID]; ok {
		delete(s.favorites[sessionID], productID)

		ids := s.order[sessionID]
		for i, id := range ids {
			if id == productID {
				s.order[sessionID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}

		s.persist(ctx, sessionID)

		return false
	}

	s.favorites[sessionID][productID] = struct{}{}
	s.order[sessionID] = append(s.order[sessionID], productID)
	s.persist(ctx, sessionID)

	return true
}

// Callers must hold s.mu.
func (s *FavoritesService) hydrate(ctx context.Context, sessionID string) {
	if _, ok := s.favorites[sessionID]; ok {
		return
	}

	set := make(map[string]struct{})

	var ids []string

	found, err := s.store.Load(ctx, store.FavoritesKey(sessionID), &ids)
	if err != nil {
		slog.Warn("Failed to hydrate favorites, starting empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)

		ids = nil
	} else if !found {
		ids = nil
	}

	for _, id := range ids {
		set[id] = struct{}{}
	}

	s.favorites[sessionID] = set
	s.order[sessionID] = ids
}

// Callers must hold s.mu.
func (s *FavoritesService) persist(ctx context.Context, sessionID string) {
	ids := s.order[sessionID]
	if ids == nil {
		ids = []string{}
	}

	if err := s.store.Save(ctx, store.FavoritesKey(sessionID), ids); err != nil {
		slog.Error("Failed to persist favorites",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
