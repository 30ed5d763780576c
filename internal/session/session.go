package session

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	CookieName = "postboard-session"
	visitorKey = "visitor_id"
)

type contextKey struct{}

// Store hands every browser a random visitor ID kept in a signed cookie.
// Pages are scoped to that ID.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore builds the cookie store. An empty secret gets a random key, which
// means sessions do not survive a restart.
func NewStore(secret string, secure bool) *Store {
	key := []byte(secret)
	if secret == "" {
		log.Println("SESSION_SECRET not set, generating a random key for this process")
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: store}
}

// Middleware makes sure the request carries a visitor ID and exposes it
// through VisitorID.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.cookies.Get(r, CookieName)
		if err != nil {
			// A cookie signed with another key; start over.
			log.Printf("Discarding unreadable session: %v", err)
		}

		visitor, _ := sess.Values[visitorKey].(string)
		if visitor == "" {
			visitor = uuid.New().String()
			sess.Values[visitorKey] = visitor
			if err := sess.Save(r, w); err != nil {
				log.Printf("Failed to save session: %v", err)
				http.Error(w, "failed to start session", http.StatusInternalServerError)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), visitor)))
	})
}

func WithVisitor(ctx context.Context, visitor string) context.Context {
	return context.WithValue(ctx, contextKey{}, visitor)
}

// VisitorID returns the visitor set by Middleware, or "" outside of it.
func VisitorID(ctx context.Context) string {
	visitor, _ := ctx.Value(contextKey{}).(string)
	return visitor
}
