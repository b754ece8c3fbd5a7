package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	stdctx "context"

	"campus-swamp/internal/config"
	"campus-swamp/internal/database"
	"campus-swamp/internal/engine"
	"campus-swamp/internal/live"
	"campus-swamp/internal/middleware"
	"campus-swamp/internal/presence"
	"campus-swamp/internal/utils"
	"campus-swamp/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testDomain = "example.edu"

// newTestServer stands up the full HTTP surface against a throwaway
// database. Skipped unless TEST_MONGODB_URI points at a reachable instance.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	dbName := "campus_swamp_http_test_" + uuid.NewString()[:8]
	mongodb, err := database.NewMongoDB(uri, dbName)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 10*time.Second)
		defer cancel()
		mongodb.Client.Database(dbName).Drop(ctx)
		mongodb.Close(ctx)
	})

	middleware.InitJWT("test-secret", time.Hour)

	cfg := &config.Config{
		Auth:         &config.AuthConfig{AllowedEmailDomain: testDomain},
		Presence:     &config.PresenceConfig{HeartbeatInterval: time.Second, StalenessWindow: time.Minute},
		Relationship: &config.RelationshipConfig{AllowRerequestAfterDecline: true},
	}

	system := actor.NewActorSystem()
	bus := live.NewBus()
	eng := engine.NewEngine(system, mongodb, bus, cfg)
	tracker := presence.NewTracker(mongodb, bus, time.Second, time.Minute)
	hub := websocket.NewHub(tracker, bus, mongodb)
	server := NewServer(system, system.Root, eng, utils.NewMetricsCollector(), mongodb, bus, tracker, hub, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleSimpleHealth())
	mux.HandleFunc("/auth/register", server.HandleUserRegistration())
	mux.HandleFunc("/auth/login", server.HandleUserLogin())
	mux.HandleFunc("/profile", middleware.AuthMiddleware(server.HandleGetProfile()))
	mux.HandleFunc("/friends", middleware.AuthMiddleware(server.HandleGetFriends()))
	mux.HandleFunc("/friends/request", middleware.AuthMiddleware(server.HandleSendFriendRequest()))
	mux.HandleFunc("/friends/respond", middleware.AuthMiddleware(server.HandleRespondFriendRequest()))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func getJSON(t *testing.T, ts *httptest.Server, path, token string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

// signup registers and logs a user in, returning their id and token.
func signup(t *testing.T, ts *httptest.Server, name string) (string, string) {
	t.Helper()
	email := fmt.Sprintf("%s@%s", name, testDomain)
	resp, body := postJSON(t, ts, "/auth/register", "", RegisterUserRequest{
		Name: name, Email: email, Password: "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register %s: status %d", name, resp.StatusCode)
	}
	userID, _ := body["id"].(string)

	resp, body = postJSON(t, ts, "/auth/login", "", LoginRequest{Email: email, Password: "password123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", name, resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if userID == "" || token == "" {
		t.Fatalf("signup %s: missing id or token in %v", name, body)
	}
	return userID, token
}

func TestRegistrationAndLoginOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts, "/auth/register", "", RegisterUserRequest{
		Name: "dana", Email: "dana@" + testDomain, Password: "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dana", body["name"])

	// Outside the community domain
	resp, _ = postJSON(t, ts, "/auth/register", "", RegisterUserRequest{
		Name: "eve", Email: "eve@gmail.com", Password: "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, ts, "/auth/login", "", LoginRequest{Email: "dana@" + testDomain, Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = postJSON(t, ts, "/auth/login", "", LoginRequest{Email: "dana@" + testDomain, Password: "password123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
}

func TestAuthGate(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := getJSON(t, ts, "/profile", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = getJSON(t, ts, "/profile", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, token := signup(t, ts, "fred")
	resp, body := getJSON(t, ts, "/profile", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "fred")
}

func TestFriendRequestFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	ginaID, ginaToken := signup(t, ts, "gina")
	_, hughToken := signup(t, ts, "hugh")

	resp, body := postJSON(t, ts, "/friends/request", hughToken, FriendRequestBody{UserID: ginaID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])

	// Duplicate from either side conflicts
	hughID, _ := body["fromId"].(string)
	resp, _ = postJSON(t, ts, "/friends/request", ginaToken, FriendRequestBody{UserID: hughID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = postJSON(t, ts, "/friends/respond", ginaToken, RespondRequestBody{UserID: hughID, Accept: true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", body["status"])

	resp, raw := getJSON(t, ts, "/friends", ginaToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var friends []map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &friends))
	assert.Len(t, friends, 1)
	assert.Equal(t, "hugh", friends[0]["friendName"])
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := getJSON(t, ts, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "ok")
}
