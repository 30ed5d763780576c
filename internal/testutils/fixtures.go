package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"postboard/internal/config"
	"postboard/models"
)

func CreateTestPosts() []models.Post {
	return []models.Post{
		{UserID: 1, ID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
		{UserID: 1, ID: 2, Title: "qui est esse", Body: "est rerum tempore vitae"},
		{UserID: 2, ID: 11, Title: "et ea vero quia", Body: "delectus reiciendis molestiae"},
	}
}

func CreateTestUsers() []models.User {
	return []models.User{
		{
			ID:       2,
			Name:     "Bob",
			Username: "bobby",
			Email:    "bob@example.com",
			Phone:    "010-692-6593",
			Website:  "anastasia.net",
			Address: models.Address{
				Street: "Victor Plains", Suite: "Suite 879", City: "Wisokyburgh", Zipcode: "90566-7771",
				Geo: models.Geo{Lat: "-43.9509", Lng: "-34.4618"},
			},
			Company: models.Company{Name: "Deckow-Crist", CatchPhrase: "Proactive didactic contingency", BS: "synergize scalable supply-chains"},
		},
		{
			ID:       1,
			Name:     "Alice",
			Username: "ally",
			Email:    "alice@example.com",
			Phone:    "1-770-736-8031",
			Website:  "hildegard.org",
			Address: models.Address{
				Street: "Kulas Light", Suite: "Apt. 556", City: "Gwenborough", Zipcode: "92998-3874",
				Geo: models.Geo{Lat: "-37.3159", Lng: "81.1496"},
			},
			Company: models.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net", BS: "harness real-time e-markets"},
		},
	}
}

// APIServer stands in for the remote posts/users API.
type APIServer struct {
	*httptest.Server
	Posts []models.Post
	Users []models.User

	fail  atomic.Bool
	calls atomic.Int32
}

func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()
	api := &APIServer{Posts: CreateTestPosts(), Users: CreateTestUsers()}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		api.serve(w, api.Posts)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		api.serve(w, api.Users)
	})
	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

// Fail makes every following request answer 503.
func (a *APIServer) Fail(fail bool) {
	a.fail.Store(fail)
}

func (a *APIServer) Calls() int {
	return int(a.calls.Load())
}

func (a *APIServer) serve(w http.ResponseWriter, v interface{}) {
	a.calls.Add(1)
	if a.fail.Load() {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// TestConfig returns a valid configuration pointed at apiURL.
func TestConfig(apiURL string) *config.Config {
	return &config.Config{
		Port:            "0",
		APIBaseURL:      apiURL,
		FetchTimeout:    2 * time.Second,
		PageIdleTimeout: 30 * time.Minute,
		JanitorInterval: time.Minute,
		Locale:          "en",
		SessionSecret:   "test-session-secret-0123456789ab",
	}
}
