package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService is a minimal in-memory stand-in for the upstream HTTP
// service, counting hits per route so cache behavior is observable.
type fakeUserService struct {
	srv      *httptest.Server
	users    map[uint32]User
	getHits  atomic.Int64
	pingHits atomic.Int64
	putHits  atomic.Int64
	sessions int
}

func newFakeUserService(t *testing.T) *fakeUserService {
	t.Helper()

	f := &fakeUserService{
		users: map[uint32]User{
			42: {ID: 42, Username: "gordon", PlayerName: "Freeman", Level: 12},
			77: {ID: 77, Username: "barney", PlayerName: "Calhoun", Level: 3},
		},
		sessions: 5,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		id := int32(0)
		switch {
		case req.Username == "gordon" && req.Password == "crowbar":
			id = 42
		case req.Username == "gordon":
			id = -1
		}
		writeJSON(w, http.StatusOK, validateResponse{UserID: id})
	})
	mux.HandleFunc("POST /users/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.getHits.Add(1)
		var id uint32
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		u, ok := f.users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("GET /users/byname/{name}", func(w http.ResponseWriter, r *http.Request) {
		for _, u := range f.users {
			if u.PlayerName == r.PathValue("name") {
				writeJSON(w, http.StatusOK, u)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /users/", func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		u := User{ID: 100, Username: req.Username, PlayerName: req.PlayerName, Level: 1}
		f.users[u.ID] = u
		writeJSON(w, http.StatusCreated, u)
	})
	mux.HandleFunc("PUT /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.putHits.Add(1)
		var id uint32
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		if _, ok := f.users[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var fields map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		if avatar, ok := fields["avatar"].(float64); ok {
			u := f.users[id]
			u.Avatar = uint16(avatar)
			f.users[id] = u
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("DELETE /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id uint32
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		delete(f.users, id)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		f.pingHits.Add(1)
		writeJSON(w, http.StatusOK, pingResponse{Sessions: f.sessions})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	tests := []struct {
		name     string
		username string
		password string
		want     int32
	}{
		{"valid credentials", "gordon", "crowbar", 42},
		{"wrong password", "gordon", "headcrab", -1},
		{"unknown user", "eli", "crowbar", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Login(context.Background(), tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_GetByID_CachesResult(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	first, err := c.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Freeman", first.PlayerName)

	second, err := c.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.EqualValues(t, 1, f.getHits.Load(), "second read must come from the cache")

	// Cached reads hand out copies, not shared state.
	second.Level = 99
	third, err := c.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.EqualValues(t, 12, third.Level)
}

func TestClient_GetByID_NotFound(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	u, err := c.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestClient_GetByName_PrimesIDCache(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	u, err := c.GetByName(context.Background(), "Calhoun")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.EqualValues(t, 77, u.ID)

	_, err = c.GetByID(context.Background(), 77)
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.getHits.Load(), "byname lookup should prime the id cache")
}

func TestClient_GetByName_NotFound(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	u, err := c.GetByName(context.Background(), "GMan")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestClient_Create(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	u, err := c.Create(context.Background(), "eli", "Vance", "resonance")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.EqualValues(t, 100, u.ID)
	assert.Equal(t, "Vance", u.PlayerName)
}

func TestClient_SetAvatar_InvalidatesCache(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	_, err := c.GetByID(context.Background(), 42)
	require.NoError(t, err)

	require.NoError(t, c.SetAvatar(context.Background(), 42, 7))
	assert.EqualValues(t, 1, f.putHits.Load())

	u, err := c.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.EqualValues(t, 7, u.Avatar, "read after write must refetch")
	assert.EqualValues(t, 2, f.getHits.Load())
}

func TestClient_Delete_InvalidatesCache(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	_, err := c.GetByID(context.Background(), 77)
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), 77))

	u, err := c.GetByID(context.Background(), 77)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestClient_SessionCount_Cached(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)

	n, err := c.SessionCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	f.sessions = 9
	n, err = c.SessionCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n, "count inside the ttl window comes from the cache")
	assert.EqualValues(t, 1, f.pingHits.Load())
}

func TestClient_TransportErrorIsUpstream(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)
	f.srv.Close()

	_, err := c.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrUpstream)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrUpstream)
	assert.EqualValues(t, 3, hits.Load(), "500s are retried twice before giving up")
}

func TestClient_ShortCircuitsWhileDown(t *testing.T) {
	f := newFakeUserService(t)
	c := NewClient(f.srv.URL)
	p := NewProbe(c)

	// The probe starts pessimistic, so calls are refused without traffic.
	_, err := c.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrUpstream)
	assert.EqualValues(t, 0, f.getHits.Load())

	require.True(t, p.CheckNow(context.Background()))

	u, err := c.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.EqualValues(t, 1, f.getHits.Load())
}
