package web

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/ops"
)

// Deps bundles the collaborators the HTTP surface hands down to ops.
type Deps struct {
	Fetcher ops.PreviewFetcher
	Invites ops.InviteDeps
	Sink    analytics.Sink
}

// NewServer creates and configures the tripstash HTTP server.
func NewServer(db *sql.DB, cfg *config.Config, deps Deps, version, bind string, port int) *http.Server {
	h := &Handlers{
		db:      db,
		cfg:     cfg,
		deps:    deps,
		version: version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("POST /api/items", h.HandleSaveItem)
	mux.HandleFunc("GET /api/items", h.HandleListItems)
	mux.HandleFunc("PATCH /api/items/{id}", h.HandleUpdateItem)
	mux.HandleFunc("POST /api/items/{id}/archive", h.HandleArchiveItem)
	mux.HandleFunc("POST /api/items/purge", h.HandlePurgeArchived)

	mux.HandleFunc("POST /api/trips", h.HandleCreateTrip)
	mux.HandleFunc("GET /api/trips", h.HandleListTrips)
	mux.HandleFunc("GET /api/trips/{id}", h.HandleGetTrip)
	mux.HandleFunc("PATCH /api/trips/{id}", h.HandleUpdateTrip)
	mux.HandleFunc("DELETE /api/trips/{id}", h.HandleDeleteTrip)
	mux.HandleFunc("POST /api/trips/{id}/schedule", h.HandleSchedule)
	mux.HandleFunc("POST /api/trips/{id}/unschedule", h.HandleUnschedule)

	mux.HandleFunc("POST /api/trips/{id}/items", h.HandleAttach)
	mux.HandleFunc("DELETE /api/trips/{id}/items/{tripItemID}", h.HandleDetach)
	mux.HandleFunc("PUT /api/trips/{id}/items/{tripItemID}/day", h.HandleAssignDay)
	mux.HandleFunc("POST /api/trips/{id}/reorder", h.HandleReorder)
	mux.HandleFunc("GET /api/trips/{id}/days", h.HandleDays)
	mux.HandleFunc("GET /api/trips/{id}/categories", h.HandleCategories)

	mux.HandleFunc("POST /api/trips/{id}/share", h.HandleShare)
	mux.HandleFunc("POST /api/adopt", h.HandleAdopt)

	mux.HandleFunc("POST /api/trips/{id}/invites", h.HandleInvite)
	mux.HandleFunc("GET /api/trips/{id}/members", h.HandleListMembers)
	mux.HandleFunc("DELETE /api/trips/{id}/companions/{companionID}", h.HandleRemoveCompanion)
	mux.HandleFunc("DELETE /api/trips/{id}/invites/{inviteID}", h.HandleRevokeInvite)

	// Anonymous share views: the token is the whole credential.
	mux.HandleFunc("GET /s/{token}", h.HandleResolveShare)
	mux.HandleFunc("GET /s/{token}/html", h.HandleShareHTML)

	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("tripstash API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
