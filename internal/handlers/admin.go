package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/openmarket/internal/ledger"
	"github.com/alextreichler/openmarket/internal/models"
	"github.com/alextreichler/openmarket/internal/store"
)

const sessionName = "ledger-session"

// AccountStore is the part of the store the API needs outside the ledger.
type AccountStore interface {
	GetAccount(ctx context.Context, identity string) (*models.Account, error)
	GetDashboardStats(ctx context.Context) (*store.DashboardStats, error)
}

type AdminHandler struct {
	Ledger       *ledger.Ledger
	Accounts     AccountStore
	SessionStore sessions.Store
}

type callerKey struct{}

// Caller returns the identity RequireSession put on the request context.
func Caller(ctx context.Context) string {
	id, _ := ctx.Value(callerKey{}).(string)
	return id
}

type loginRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.Accounts.GetAccount(r.Context(), req.Identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Unknown identity and wrong secret get the same answer.
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.Secret), []byte(req.Secret)) != nil {
		slog.Warn("Login failed", "identity", req.Identity, "ip", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "Invalid identity or secret"})
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	session.Values["identity"] = account.Identity
	session.Options.Path = "/"
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "Failed to save session"})
		return
	}

	slog.Info("Login successful", "identity", account.Identity)
	writeJSON(w, http.StatusOK, map[string]string{"identity": account.Identity})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	delete(session.Values, "identity")
	session.Options.MaxAge = -1 // Expire immediately
	session.Save(r, w)
	w.WriteHeader(http.StatusNoContent)
}

// RequireSession rejects requests without a logged-in identity and passes
// the identity on through the request context.
func (h *AdminHandler) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, sessionName)
		identity, ok := session.Values["identity"].(string)
		if !ok || identity == "" {
			slog.Debug("Request without session", "path", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "You must be logged in."})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, identity)))
	}
}

// CSRFToken hands the token for mutating requests to API clients.
func (h *AdminHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-CSRF-Token", csrf.Token(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Owner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"owner": h.Ledger.Owner()})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.RequireRole(r.Context(), Caller(r.Context()), ledger.Owner); err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := h.Accounts.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
