package store

import "context"

// Store is write-through key-value persistence for cart state. Values are
// serialized as JSON. Load reports found=false for a missing key; a
// malformed stored value is surfaced as an error so the caller can decide
// to treat it as empty.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	CartKeyPrefix      = "cart"
	FavoritesKeyPrefix = "favorites"
)

// CartKey is the store key holding the line-item sequence of one session.
func CartKey(sessionID string) string {
	return Key(CartKeyPrefix, sessionID)
}

// FavoritesKey is the store key holding the favorite product IDs of one
// session, independent of the cart.
func FavoritesKey(sessionID string) string {
	return Key(FavoritesKeyPrefix, sessionID)
}
