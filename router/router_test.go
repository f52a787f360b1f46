package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jockie-stack/CVL-app/models"
	"github.com/Jockie-stack/CVL-app/testutil"
)

func TestRouterDeviceGate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig(), nil)

	t.Run("health needs no device header", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("api routes reject missing device header", func(t *testing.T) {
		routes := []struct {
			method string
			path   string
		}{
			{"GET", "/api/ideas"},
			{"GET", "/api/polls/active"},
			{"GET", "/api/news"},
			{"GET", "/api/push/key"},
			{"GET", "/api/admin/stats"},
		}
		for _, route := range routes {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
			if w.Code != http.StatusBadRequest {
				t.Errorf("%s %s: expected 400 without device header, got %d", route.method, route.path, w.Code)
			}
		}
	})

	t.Run("device header admits public routes", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.DeviceRequest("GET", "/api/news", nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	})
}

func TestRouterAdminGate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, nil)

	t.Run("admin routes reject missing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.DeviceRequest("GET", "/api/admin/stats", nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("admin routes admit a valid session", func(t *testing.T) {
		req := testutil.DeviceRequest("GET", "/api/admin/stats", nil)
		req.AddCookie(testutil.AdminCookie(t, cfg))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	})
}

func TestRouterEndToEndFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, nil)
	adminCookie := testutil.AdminCookie(t, cfg)

	// Admin creates a poll
	req := testutil.DeviceRequest("POST", "/api/admin/polls", models.CreatePollRequest{
		Question: "Destination du voyage scolaire ?",
		Options:  []string{"Rome", "Berlin", "Lisbonne"},
	})
	req.AddCookie(adminCookie)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var poll models.Poll
	testutil.AssertJSON(t, w, &poll)

	// A device reads the active poll and votes
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.DeviceRequest("GET", "/api/polls/active", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.DeviceRequest("POST", "/api/polls/"+poll.ID+"/vote",
		models.VoteRequest{OptionIndex: 2}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// A second vote from the same device is refused
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.DeviceRequest("POST", "/api/polls/"+poll.ID+"/vote",
		models.VoteRequest{OptionIndex: 0}))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// The poll view reflects the single vote
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.DeviceRequest("GET", "/api/polls/active", nil))
	var resp models.ActivePollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Counts[2] != 1 || !resp.HasVoted {
		t.Errorf("Expected counts [0 0 1] with has_voted, got %v has_voted=%v", resp.Counts, resp.HasVoted)
	}
}

func TestRouterLoginFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, nil)

	// Login through the mux, then reuse the cookie on an admin route
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.DeviceRequest("POST", "/api/admin/login",
		models.LoginRequest{Password: testutil.TestAdminPassword}))
	testutil.AssertStatus(t, w, http.StatusOK)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected a session cookie, got %d cookies", len(cookies))
	}

	req := testutil.DeviceRequest("GET", "/api/admin/ideas", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
}
