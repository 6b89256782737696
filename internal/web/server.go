// Package web is the storefront HTTP surface: catalog, cart, checkout
// form and receipt downloads, rendered from embedded templates.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
	"github.com/ManojM86/GroceryStore-MS/internal/receipt"
	"github.com/ManojM86/GroceryStore-MS/internal/session"
)

//go:embed templates/*.html
var tplFS embed.FS

type Server struct {
	log      zerolog.Logger
	tpl      *template.Template
	sessions *session.Manager
	// inv is the shared default snapshot; nil when the default file could
	// not be loaded. Sessions may carry their own uploaded override.
	inv *inventory.Store
	mux *http.ServeMux
}

func NewServer(log zerolog.Logger, sessions *session.Manager, inv *inventory.Store) (*Server, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"money": receipt.Money,
	}).ParseFS(tplFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:      log,
		tpl:      tpl,
		sessions: sessions,
		inv:      inv,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/add", s.handleAdd)
	s.mux.HandleFunc("/cart/clear", s.handleClearCart)
	s.mux.HandleFunc("/checkout", s.handleCheckout)
	s.mux.HandleFunc("/receipt.csv", s.handleReceiptCSV)
	s.mux.HandleFunc("/receipt.pdf", s.handleReceiptPDF)
	s.mux.HandleFunc("/inventory/upload", s.handleUpload)

	return s, nil
}

// Handler wraps the mux with request logging and CORS.
func (s *Server) Handler() http.Handler {
	return cors.Default().Handler(s.logRequests(s.mux))
}
