package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"userId":1,"id":1,"title":"sunt aut facere","body":"quia et suscipit"},{"userId":1,"id":2,"title":"qui est esse","body":"est rerum tempore"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	posts, err := client.FetchPosts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Post{
		{UserID: 1, ID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
		{UserID: 1, ID: 2, Title: "qui est esse", Body: "est rerum tempore"},
	}, posts)
}

func TestClient_FetchUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Leanne Graham","username":"Bret","email":"Sincere@april.biz",
			"address":{"street":"Kulas Light","suite":"Apt. 556","city":"Gwenborough","zipcode":"92998-3874","geo":{"lat":"-37.3159","lng":"81.1496"}},
			"phone":"1-770-736-8031 x56442","website":"hildegard.org",
			"company":{"name":"Romaguera-Crona","catchPhrase":"Multi-layered client-server neural-net","bs":"harness real-time e-markets"}}]`))
	}))
	defer server.Close()

	users, err := NewClient(server.URL, time.Second).FetchUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	user := users[0]
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "Bret", user.Username)
	assert.Equal(t, "81.1496", user.Address.Geo.Lng)
	assert.Equal(t, "Multi-layered client-server neural-net", user.Company.CatchPhrase)
	assert.Equal(t, "harness real-time e-markets", user.Company.BS)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).FetchPosts(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).FetchPosts(context.Background())
	assert.ErrorContains(t, err, "failed to decode")
}
