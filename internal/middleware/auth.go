package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/shopfaster/internal/auth"
	"github.com/dukerupert/shopfaster/internal/store"
)

const unauthorizedMessage = "No signed-in User. Access forbidden."

// RequireAuth validates the session cookie and populates AuthContext.
// Requests without a live session get a JSON 401.
func RequireAuth(sessionStore *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			sess, err := sessionStore.GetByToken(r.Context(), cookie.Value)
			if err != nil || sess == nil {
				writeError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			ac := auth.AuthContext{
				UserID:    sess.UserID,
				SessionID: sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
