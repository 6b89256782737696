// Package session scopes the mutable state (cart, inventory override,
// last order) to one browser session, identified by a cookie. Nothing is
// persisted; sessions expire from an in-memory LRU.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ManojM86/GroceryStore-MS/internal/cart"
	"github.com/ManojM86/GroceryStore-MS/internal/checkout"
	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
)

const cookieName = "sid"

// State is everything one session owns. net/http serves each request on
// its own goroutine, so handlers hold the mutex while touching any field;
// two tabs sharing a cookie would otherwise write the cart concurrently.
type State struct {
	sync.Mutex

	Cart *cart.Cart
	// Inventory is the session's uploaded override; nil means the shared
	// default snapshot applies.
	Inventory *inventory.Store
	// LastOrder backs the receipt download shown after checkout.
	LastOrder *checkout.Order
}

// Store picks the session's inventory: the upload override when present,
// otherwise the shared default (which may itself be nil when the default
// file failed to load).
func (s *State) Store(def *inventory.Store) *inventory.Store {
	if s.Inventory != nil {
		return s.Inventory
	}
	return def
}

type Manager struct {
	cache *expirable.LRU[string, *State]
	ttl   time.Duration
}

func NewManager(capacity int, ttl time.Duration) *Manager {
	// Expired or capacity-evicted sessions must release their uploaded
	// inventory store, which holds an open sqlite handle.
	onEvict := func(_ string, st *State) {
		st.Lock()
		if st.Inventory != nil {
			st.Inventory.Close()
			st.Inventory = nil
		}
		st.Unlock()
	}
	return &Manager{
		cache: expirable.NewLRU[string, *State](capacity, onEvict, ttl),
		ttl:   ttl,
	}
}

// Get returns the request's session state, creating a fresh session (and
// setting the cookie) when there is none or it has expired.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *State {
	if c, err := r.Cookie(cookieName); err == nil {
		if st, ok := m.cache.Get(c.Value); ok {
			return st
		}
	}

	id := uuid.NewString()
	st := &State{Cart: cart.New()}
	m.cache.Add(id, st)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl / time.Second),
	})
	return st
}

func (m *Manager) Len() int { return m.cache.Len() }
