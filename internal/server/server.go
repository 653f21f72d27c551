package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/shopfaster/internal/catalog"
	"github.com/dukerupert/shopfaster/internal/grid"
	"github.com/dukerupert/shopfaster/internal/handler"
	"github.com/dukerupert/shopfaster/internal/middleware"
	"github.com/dukerupert/shopfaster/internal/shoplist"
	"github.com/dukerupert/shopfaster/internal/store"
)

// Options are the HTTP-facing settings the server needs from config.
type Options struct {
	AllowedOrigins []string
	SecureCookies  bool
}

type Server struct {
	db           *sql.DB
	authH        *handler.AuthHandler
	storeH       *handler.StoreHandler
	inventoryH   *handler.InventoryHandler
	itemH        *handler.ItemHandler
	tileH        *handler.TileHandler
	listH        *handler.ListHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	opts         Options
	logger       *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	storeStore := store.NewStoreStore(db)
	tileStore := store.NewTileStore(db)
	itemStore := store.NewItemStore(db)
	inventoryStore := store.NewInventoryStore(db)
	listItemStore := store.NewListItemStore(db)

	gridSvc := grid.NewService(storeStore, tileStore)
	listSvc := shoplist.NewService(userStore, listItemStore)
	catalogSvc := catalog.NewService(itemStore, inventoryStore, tileStore)

	return &Server{
		db:           db,
		authH:        handler.NewAuthHandler(userStore, sessionStore, opts.SecureCookies, logger.With("component", "auth")),
		storeH:       handler.NewStoreHandler(gridSvc, userStore, logger.With("component", "store")),
		inventoryH:   handler.NewInventoryHandler(inventoryStore, userStore, logger.With("component", "inventory")),
		itemH:        handler.NewItemHandler(itemStore, catalogSvc, logger.With("component", "item")),
		tileH:        handler.NewTileHandler(tileStore, storeStore, logger.With("component", "tile")),
		listH:        handler.NewListHandler(listSvc, logger.With("component", "list")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		opts:         opts,
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /create-account", s.rateLimitedHandler("create-account", s.authH.CreateAccount))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler("login", s.authH.Login))
	outerMux.HandleFunc("GET /login-status", s.authH.LoginStatus)

	// Store layouts
	outerMux.HandleFunc("GET /store/{id}", s.storeH.Get)
	outerMux.HandleFunc("GET /stores", s.storeH.List)

	// Catalog and floor plan setup
	outerMux.HandleFunc("GET /inventory/item/{id}", s.inventoryH.Get)
	outerMux.HandleFunc("GET /store/inventory/{store_id}", s.inventoryH.ListByStore)
	outerMux.HandleFunc("GET /item/{id}", s.itemH.Get)
	outerMux.HandleFunc("GET /items", s.itemH.List)
	outerMux.HandleFunc("POST /item", s.itemH.Create)
	outerMux.HandleFunc("POST /items", s.itemH.CreateMany)
	outerMux.HandleFunc("POST /tile", s.tileH.Create)
	outerMux.HandleFunc("POST /tiles", s.tileH.CreateMany)
	outerMux.HandleFunc("GET /tiles/{store_id}", s.tileH.ListByStore)
	outerMux.HandleFunc("GET /tile/{store_id}/{col}/{row}", s.tileH.Get)
	outerMux.HandleFunc("PATCH /tiles/obstacle", s.tileH.SetObstacles)

	// Protected routes, wrapped with RequireAuth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	var h http.Handler = outerMux
	h = middleware.CORS(s.opts.AllowedOrigins)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// rateLimitedHandler allows 10 requests a minute per client address, counted
// separately for each route.
func (s *Server) rateLimitedHandler(route string, h http.HandlerFunc) http.HandlerFunc {
	key := func(r *http.Request) string { return route + ":" + middleware.ByIP(r) }
	rl := middleware.RateLimit(s.rateLimiter, key, 10, time.Minute)
	return rl(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Current store
	mux.HandleFunc("GET /store-current", s.storeH.Current)
	mux.HandleFunc("PUT /store-current/{id}", s.storeH.SetCurrent)
	mux.HandleFunc("GET /current-store-id", s.storeH.CurrentID)

	mux.HandleFunc("GET /inventory/search/{terms}", s.inventoryH.Search)

	// Shopping list
	mux.HandleFunc("GET /list-items", s.listH.Get)
	mux.HandleFunc("POST /list-item", s.listH.Add)
	mux.HandleFunc("POST /list-items", s.listH.AddMany)
	mux.HandleFunc("DELETE /list-item/{id}", s.listH.Remove)
	mux.HandleFunc("PATCH /list-item/active/{id}/{active}", s.listH.SetActive)
	mux.HandleFunc("PATCH /list-items/active/{active}", s.listH.SetAllActive)
	mux.HandleFunc("PATCH /list-item/crossed-off/{id}/{crossed_off}", s.listH.SetCrossedOff)
	mux.HandleFunc("PATCH /list-items/crossed-off/{crossed_off}", s.listH.SetAllCrossedOff)
	mux.HandleFunc("PATCH /list-items/crossed-off-inactive", s.listH.ClearCrossedOff)
	mux.HandleFunc("PATCH /list-item/order/{id}/{sort_order}", s.listH.SetSortOrder)
	mux.HandleFunc("PATCH /list-items/order", s.listH.SetSortOrders)
}
