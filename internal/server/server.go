package server

import (
	"net/http"

	"github.com/sajidk/furniture-store/auth"
	"github.com/sajidk/furniture-store/httpx"
	"github.com/sajidk/furniture-store/internal/handlers"
	"github.com/sajidk/furniture-store/internal/images"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

// Server wires handlers onto the HTTP router. The redis client is optional;
// without it caching and rate limiting are skipped.
type Server struct {
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
	Reviews  *handlers.ReviewHandler
	Contact  *handlers.ContactHandler
	Auth     *handlers.AuthHandler
	Images   *images.Store
	Redis    *redis.Client
}

// Router builds the full route table. Admin routes carry RequireAuth; the
// auth context middleware wraps everything so handlers can read the user id.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/api/healthz", s.health).Methods(http.MethodGet)

	// Storefront
	r.HandleFunc("/api/products", s.Products.List).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", s.Products.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/variants", s.Products.Variants).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}/reviews", s.Reviews.ListForProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}/reviews", s.Reviews.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/orders", s.Orders.Create).Methods(http.MethodPost)
	r.Handle("/api/contact", s.rateLimit("contact", http.HandlerFunc(s.Contact.Create))).Methods(http.MethodPost)
	r.Handle("/api/login", s.rateLimit("login", http.HandlerFunc(s.Auth.Login))).Methods(http.MethodPost)

	// Back office
	r.Handle("/api/admin/products", s.admin(s.Products.ListAll)).Methods(http.MethodGet)
	r.Handle("/api/products", s.admin(s.Products.Create)).Methods(http.MethodPost)
	r.Handle("/api/products/{id}", s.admin(s.Products.Update)).Methods(http.MethodPut)
	r.Handle("/api/products/{id}", s.admin(s.Products.Delete)).Methods(http.MethodDelete)
	r.Handle("/api/products/{id}/variants", s.admin(s.Products.CreateVariant)).Methods(http.MethodPost)
	r.Handle("/api/variants/{id}", s.admin(s.Products.UpdateVariant)).Methods(http.MethodPut)
	r.Handle("/api/admin/orders", s.admin(s.Orders.List)).Methods(http.MethodGet)
	r.Handle("/api/admin/orders/{id}", s.admin(s.Orders.Get)).Methods(http.MethodGet)
	r.Handle("/api/admin/orders/{id}/status", s.admin(s.Orders.UpdateStatus)).Methods(http.MethodPut)
	r.Handle("/api/admin/reviews", s.admin(s.Reviews.ListAll)).Methods(http.MethodGet)
	r.Handle("/api/admin/reviews/{id}/status", s.admin(s.Reviews.UpdateStatus)).Methods(http.MethodPut)
	r.Handle("/api/admin/reviews/{id}", s.admin(s.Reviews.Delete)).Methods(http.MethodDelete)
	r.Handle("/api/admin/contact-messages", s.admin(s.Contact.List)).Methods(http.MethodGet)

	// Product images are plain files on disk.
	if s.Images != nil {
		r.PathPrefix("/images/").Handler(
			http.StripPrefix("/images/", http.FileServer(http.Dir(s.Images.Dir()))))
	}

	return withRecover(withLogging(withCORS(auth.Middleware(r))))
}

func (s *Server) admin(h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(h)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
