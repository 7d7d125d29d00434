package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/formaworks/uniform-cart-service/internal/models"
	"github.com/formaworks/uniform-cart-service/internal/store"
	"github.com/google/uuid"
)

// CartChange is emitted to subscribers after every cart mutation.
type CartChange struct {
	SessionID string
}

// CartService owns the carts. Each session has exactly one cart, hydrated
// from the store on first access and written through after every mutation.
// A failed store write is logged, never surfaced: the in-memory cart stays
// authoritative and the next mutation retries persistence naturally.
//
// The mutex stands in for the single event loop the storefront UI has:
// mutations are serialized, each one a full read-modify-write of the
// line-item sequence.
type CartService struct {
	store store.Store

	mu    sync.Mutex
	carts map[string]*models.Cart

	subMu sync.RWMutex
	subs  map[string]chan CartChange
}

func NewCartService(st store.Store) *CartService {
	return &CartService{
		store: st,
		carts: make(map[string]*models.Cart),
		subs:  make(map[string]chan CartChange),
	}
}

// GetCart returns a snapshot view of the session's cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) *models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, sessionID)

	return snapshot(cart)
}

// AddItem adds a configured product to the session's cart, merging into an
// existing line item when the variant matches.
func (s *CartService) AddItem(ctx context.Context, sessionID string, req *models.AddItemRequest) *models.CartView {
	s.mu.Lock()

	cart := s.cart(ctx, sessionID)
	cart.AddItem(req.Product, req.SelectedColor, req.SelectedSize, req.SelectedMaterial, req.SelectedBranding, req.Quantity)
	s.persist(ctx, sessionID, cart)
	view := snapshot(cart)

	s.mu.Unlock()

	s.notify(sessionID)

	return view
}

// UpdateQuantity sets the quantity of the line item at index; a quantity
// below 1 removes the item. Out-of-range indices are ignored.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, index, quantity int) *models.CartView {
	s.mu.Lock()

	cart := s.cart(ctx, sessionID)
	cart.UpdateQuantity(index, quantity)
	s.persist(ctx, sessionID, cart)
	view := snapshot(cart)

	s.mu.Unlock()

	s.notify(sessionID)

	return view
}

// RemoveItem removes the line item at index. Out-of-range indices are
// ignored.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, index int) *models.CartView {
	s.mu.Lock()

	cart := s.cart(ctx, sessionID)
	cart.RemoveItem(index)
	s.persist(ctx, sessionID, cart)
	view := snapshot(cart)

	s.mu.Unlock()

	s.notify(sessionID)

	return view
}

// ClearCart empties the session's cart and removes its stored key, so an
// emptied session leaves nothing behind in the store.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) *models.CartView {
	s.mu.Lock()

	cart := s.cart(ctx, sessionID)
	cart.Clear()
	s.discard(ctx, sessionID)
	view := snapshot(cart)

	s.mu.Unlock()

	s.notify(sessionID)

	return view
}

// Snapshot returns a copy of the raw cart for payload building.
func (s *CartService) Snapshot(ctx context.Context, sessionID string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, sessionID)
	items := make([]models.LineItem, len(cart.Items))
	copy(items, cart.Items)

	return &models.Cart{Items: items}
}

// Subscribe registers a change listener. The returned channel receives one
// CartChange per mutation; slow consumers may miss notifications, the cart
// itself is always re-readable.
func (s *CartService) Subscribe() (string, <-chan CartChange) {
	id := uuid.NewString()
	ch := make(chan CartChange, 16)

	s.subMu.Lock()
	s.subs[id] = ch
	s.subMu.Unlock()

	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *CartService) Unsubscribe(id string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// cart returns the session's cart, hydrating it from the store on first
// access. Absence or a malformed stored value both yield an empty cart.
// Callers must hold s.mu.
func (s *CartService) cart(ctx context.Context, sessionID string) *models.Cart {
	if cart, ok := s.carts[sessionID]; ok {
		return cart
	}

	cart := &models.Cart{}

	var items []models.LineItem

	found, err := s.store.Load(ctx, store.CartKey(sessionID), &items)
	if err != nil {
		slog.Warn("Failed to hydrate cart, starting empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	} else if found {
		cart.Items = items
	}

	s.carts[sessionID] = cart

	return cart
}

// persist writes the cart through to the store. Callers must hold s.mu.
func (s *CartService) persist(ctx context.Context, sessionID string, cart *models.Cart) {
	if err := s.store.Save(ctx, store.CartKey(sessionID), cart.Items); err != nil {
		slog.Error("Failed to persist cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// discard drops the session's stored cart key. Callers must hold s.mu.
func (s *CartService) discard(ctx context.Context, sessionID string) {
	if err := s.store.Delete(ctx, store.CartKey(sessionID)); err != nil {
		slog.Error("Failed to delete persisted cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) notify(sessionID string) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- CartChange{SessionID: sessionID}:
		default:
		}
	}
}

func snapshot(cart *models.Cart) *models.CartView {
	items := make([]models.LineItem, len(cart.Items))
	copy(items, cart.Items)

	return &models.CartView{
		Items:      items,
		TotalPrice: cart.TotalPrice(),
		TotalItems: cart.TotalItems(),
	}
}
