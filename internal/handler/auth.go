package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/shopfaster/internal/auth"
	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/store"
)

const sessionMaxAge = int(store.SessionTTL / time.Second)

type AuthHandler struct {
	userStore     *store.UserStore
	sessionStore  *store.SessionStore
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userStore: us, sessionStore: ss, secureCookies: secureCookies, logger: logger}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginStatus struct {
	Success    bool        `json:"success,omitempty"`
	IsLoggedIn bool        `json:"isLoggedIn"`
	StoreID    *int64      `json:"storeID,omitempty"`
	User       *model.User `json:"user,omitempty"`
}

func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing either username or password!")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	u, err := h.userStore.Create(r.Context(), req.Username, hash)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "That username is already taken.")
		return
	}
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.logger.Info("account created", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.userStore.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	ok, err := auth.CheckPassword(u.PasswordHash, req.Password)
	if err != nil {
		h.logger.Error("check password", "user_id", u.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	sess, err := h.sessionStore.Create(r.Context(), u.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies || r.TLS != nil,
	})

	writeJSON(w, http.StatusOK, loginStatus{
		Success:    true,
		IsLoggedIn: true,
		StoreID:    u.CurrentStoreID,
		User:       u,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := auth.SessionID(r.Context()); id != 0 {
		if err := h.sessionStore.Delete(r.Context(), id); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, loginStatus{IsLoggedIn: false})
}

// LoginStatus is public: it reports whether the request carries a live
// session instead of rejecting it.
func (h *AuthHandler) LoginStatus(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, loginStatus{IsLoggedIn: false})
		return
	}

	sess, err := h.sessionStore.GetByToken(r.Context(), cookie.Value)
	if err != nil {
		h.logger.Error("login status session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check login status")
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusOK, loginStatus{IsLoggedIn: false})
		return
	}

	u, err := h.userStore.GetByID(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("login status user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check login status")
		return
	}
	if u == nil {
		writeJSON(w, http.StatusOK, loginStatus{IsLoggedIn: false})
		return
	}

	writeJSON(w, http.StatusOK, loginStatus{IsLoggedIn: true, StoreID: u.CurrentStoreID, User: u})
}
