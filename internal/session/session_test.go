package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
)

func TestGetCreatesSession(t *testing.T) {
	m := NewManager(16, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	st := m.Get(w, r)

	require.NotNil(t, st)
	require.NotNil(t, st.Cart)
	assert.Nil(t, st.Inventory)
	assert.Nil(t, st.LastOrder)
	assert.Equal(t, 1, m.Len())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestGetReturnsSameSession(t *testing.T) {
	m := NewManager(16, time.Minute)

	w := httptest.NewRecorder()
	st := m.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := w.Result().Cookies()[0]

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookie)
	st2 := m.Get(httptest.NewRecorder(), r2)

	assert.Same(t, st, st2)
	assert.Equal(t, 1, m.Len())
}

func TestDistinctSessionsDistinctCarts(t *testing.T) {
	m := NewManager(16, time.Minute)

	a := m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	b := m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Cart, b.Cart)
	assert.Equal(t, 2, m.Len())
}

func TestUnknownCookieGetsFreshSession(t *testing.T) {
	m := NewManager(16, time.Minute)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "expired-or-bogus"})
	w := httptest.NewRecorder()
	st := m.Get(w, r)

	require.NotNil(t, st)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1, "a replacement cookie is issued")
	assert.NotEqual(t, "expired-or-bogus", cookies[0].Value)
}

func TestEvictionClosesUploadedStore(t *testing.T) {
	m := NewManager(1, time.Minute)

	a := m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	store, err := inventory.NewStore()
	require.NoError(t, err)
	a.Lock()
	a.Inventory = store
	a.Unlock()

	// capacity 1: the next session evicts the first one
	m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 1, m.Len())

	a.Lock()
	assert.Nil(t, a.Inventory, "evicted session drops its override")
	a.Unlock()
	_, err = store.Count(context.Background())
	assert.Error(t, err, "sqlite handle released on eviction")
}

func TestStateStoreOverride(t *testing.T) {
	def, err := inventory.NewStore()
	require.NoError(t, err)
	defer def.Close()
	override, err := inventory.NewStore()
	require.NoError(t, err)
	defer override.Close()

	st := &State{}
	assert.Nil(t, st.Store(nil))
	assert.Same(t, def, st.Store(def))

	st.Inventory = override
	assert.Same(t, override, st.Store(def), "uploaded override wins")
}
