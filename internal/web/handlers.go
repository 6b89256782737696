package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ManojM86/GroceryStore-MS/internal/cart"
	"github.com/ManojM86/GroceryStore-MS/internal/checkout"
	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
	"github.com/ManojM86/GroceryStore-MS/internal/receipt"
)

const (
	dateLayout  = "2006-01-02"
	timeLayout  = "15:04"
	defaultHour = 17
)

type pageData struct {
	Msg         string
	InventoryOK bool
	Categories  []string
	Selected    string
	Items       []inventory.Item
	CartLines   []cart.Line
	CartTotal   string
	LastOrderID string
	Year        int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	st := s.sessions.Get(w, r)
	st.Lock()
	defer st.Unlock()
	store := st.Store(s.inv)

	data := pageData{
		Msg:       r.URL.Query().Get("msg"),
		Selected:  r.URL.Query().Get("category"),
		CartLines: st.Cart.Lines(),
		CartTotal: receipt.Money(st.Cart.Total()),
		Year:      time.Now().Year(),
	}
	if st.LastOrder != nil {
		data.LastOrderID = st.LastOrder.ID
	}

	if store != nil {
		ctx := r.Context()
		cats, err := store.Categories(ctx)
		if err != nil {
			s.renderError(w, err)
			return
		}
		var items []inventory.Item
		if data.Selected != "" {
			items, err = store.ItemsByCategory(ctx, data.Selected)
		} else {
			items, err = store.Items(ctx)
		}
		if err != nil {
			s.renderError(w, err)
			return
		}
		data.InventoryOK = true
		data.Categories = cats
		data.Items = items
	} else if data.Msg == "" {
		data.Msg = "No inventory found. Add data/inventory.csv or upload a file."
	}

	s.render(w, data)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.redirect(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st := s.sessions.Get(w, r)
	st.Lock()
	defer st.Unlock()
	store := st.Store(s.inv)
	if store == nil {
		s.redirect(w, r, "No inventory loaded; upload a file first.")
		return
	}

	name := r.Form.Get("name")
	qty, err := strconv.Atoi(r.Form.Get("qty"))
	if err != nil {
		qty = 0
	}

	item, err := store.Lookup(r.Context(), name)
	if err != nil {
		s.redirect(w, r, flashFor(err))
		return
	}
	if err := st.Cart.Add(item, qty); err != nil {
		s.log.Warn().Err(err).Str("item", name).Int("qty", qty).Msg("add rejected")
		s.redirect(w, r, flashFor(err))
		return
	}
	s.redirect(w, r, fmt.Sprintf("Added %d x %s to cart.", qty, item.Name))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.redirect(w, r, "")
		return
	}
	st := s.sessions.Get(w, r)
	st.Lock()
	st.Cart.Clear()
	st.Unlock()
	s.redirect(w, r, "Cart cleared.")
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.redirect(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st := s.sessions.Get(w, r)
	st.Lock()
	defer st.Unlock()
	store := st.Store(s.inv)
	if store == nil {
		s.redirect(w, r, "No inventory loaded; upload a file first.")
		return
	}

	pickup, err := parsePickup(r.Form.Get("pickup_date"), r.Form.Get("pickup_time"))
	if err != nil {
		s.redirect(w, r, "Invalid pickup date or time.")
		return
	}
	cust := checkout.Customer{
		Name:         r.Form.Get("customer_name"),
		Phone:        r.Form.Get("phone"),
		Pickup:       pickup,
		Acknowledged: r.Form.Get("agree") == "on",
	}

	order, err := checkout.PlaceOrder(r.Context(), store, st.Cart, cust)
	if err != nil {
		s.log.Warn().Err(err).Msg("checkout rejected")
		s.redirect(w, r, flashFor(err))
		return
	}
	st.LastOrder = order

	s.log.Info().
		Str("order_id", order.ID).
		Str("total", order.Total.StringFixed(2)).
		Int("lines", len(order.Lines)).
		Msg("order placed")
	s.redirect(w, r, fmt.Sprintf("Order placed! Your order ID is %s. Please pay at pickup.", order.ID))
}

func (s *Server) handleReceiptCSV(w http.ResponseWriter, r *http.Request) {
	order := s.lastOrder(w, r)
	if order == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", receipt.Filename(order, "csv")))
	if err := receipt.WriteCSV(w, order); err != nil {
		s.log.Error().Err(err).Msg("write csv receipt")
	}
}

func (s *Server) handleReceiptPDF(w http.ResponseWriter, r *http.Request) {
	order := s.lastOrder(w, r)
	if order == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", receipt.Filename(order, "pdf")))
	if err := receipt.WritePDF(w, order); err != nil {
		s.log.Error().Err(err).Msg("write pdf receipt")
	}
}

// lastOrder fetches the session's placed order under the session lock.
// Orders are immutable, so rendering can happen after the lock is gone.
func (s *Server) lastOrder(w http.ResponseWriter, r *http.Request) *checkout.Order {
	st := s.sessions.Get(w, r)
	st.Lock()
	defer st.Unlock()
	return st.LastOrder
}

// handleUpload replaces the session's inventory snapshot with an uploaded
// CSV or spreadsheet. The upload is read-only; the shared default and
// other sessions are untouched.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.redirect(w, r, "")
		return
	}
	file, header, err := r.FormFile("inventory")
	if err != nil {
		s.redirect(w, r, "No file supplied.")
		return
	}
	defer file.Close()

	items, err := inventory.ReadUpload(header.Filename, file)
	if err != nil {
		s.log.Warn().Err(err).Str("file", header.Filename).Msg("upload rejected")
		s.redirect(w, r, "Failed to read uploaded inventory: "+err.Error())
		return
	}
	store, err := inventory.NewStore()
	if err != nil {
		s.renderError(w, err)
		return
	}
	if err := store.Load(r.Context(), items); err != nil {
		store.Close()
		s.renderError(w, err)
		return
	}

	st := s.sessions.Get(w, r)
	st.Lock()
	if st.Inventory != nil {
		st.Inventory.Close()
	}
	st.Inventory = store
	st.Unlock()
	s.log.Info().Str("file", header.Filename).Int("items", len(items)).Msg("inventory uploaded")
	s.redirect(w, r, fmt.Sprintf("Inventory loaded from %s (%d items, read-only).", header.Filename, len(items)))
}

func parsePickup(date, clock string) (time.Time, error) {
	now := time.Now()
	if date == "" {
		date = now.Format(dateLayout)
	}
	if clock == "" {
		clock = fmt.Sprintf("%02d:00", defaultHour)
	}
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
}

// flashFor maps domain errors to the on-screen warning text.
func flashFor(err error) string {
	var insufficient *cart.InsufficientStockError
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return "Sorry, this item is out of stock."
	case errors.Is(err, cart.ErrInvalidQuantity):
		return "Quantity must be at least 1."
	case errors.Is(err, inventory.ErrItemNotFound):
		return "Unknown item."
	case errors.Is(err, checkout.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, checkout.ErrMissingCustomerFields),
		errors.Is(err, checkout.ErrPolicyNotAcknowledged):
		return "Please fill your details and acknowledge the no-online-payment policy."
	case errors.As(err, &insufficient):
		return fmt.Sprintf("Not enough stock for %s (requested %d, available %d). Please adjust quantity.",
			insufficient.Name, insufficient.Requested, insufficient.Available)
	default:
		return "Something went wrong: " + err.Error()
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, msg string) {
	target := "/"
	if msg != "" {
		target += "?msg=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Error().Err(err).Msg("template render")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("internal error")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
