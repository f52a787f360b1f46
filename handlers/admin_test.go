package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jockie-stack/CVL-app/auth"
	"github.com/Jockie-stack/CVL-app/middleware"
	"github.com/Jockie-stack/CVL-app/models"
	"github.com/Jockie-stack/CVL-app/testutil"
)

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	login := func(password string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.Login(w, testutil.DeviceRequest("POST", "/api/admin/login",
			models.LoginRequest{Password: password}))
		return w
	}

	t.Run("correct password", func(t *testing.T) {
		w := login(testutil.TestAdminPassword)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.LoginResponse
		testutil.AssertJSON(t, w, &resp)
		if remaining := time.Until(resp.ExpiresAt); remaining < 7*time.Hour {
			t.Errorf("Expected roughly 8h of session, got %v", remaining)
		}

		cookies := w.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("Expected 1 cookie, got %d", len(cookies))
		}
		c := cookies[0]
		if c.Name != cfg.SessionCookie {
			t.Errorf("Expected cookie %q, got %q", cfg.SessionCookie, c.Name)
		}
		if !c.HttpOnly {
			t.Error("Session cookie must be httpOnly")
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Error("Session cookie must be SameSite=Lax")
		}

		// The cookie value is a valid admin session token
		claims, err := auth.ParseSessionToken(cfg.SessionSecret, c.Value)
		if err != nil {
			t.Fatalf("Cookie does not carry a valid token: %v", err)
		}
		if !claims.Admin {
			t.Error("Expected admin claim on the session token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := login("not-the-password")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
		if len(w.Result().Cookies()) != 0 {
			t.Error("Rejected login must not set a cookie")
		}
	})

	t.Run("empty password", func(t *testing.T) {
		w := login("")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestLogout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	w := httptest.NewRecorder()
	handler.Logout(w, testutil.DeviceRequest("POST", "/api/admin/logout", nil))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Error("Logout must expire the session cookie")
	}
	if cookies[0].Value != "" {
		t.Error("Logout must clear the cookie value")
	}
}

func TestStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	// Two ideas, one reviewed
	first := testutil.CreateTestIdea(t, db, "stats-hash-1", time.Now())
	testutil.CreateTestIdea(t, db, "stats-hash-2", time.Now())
	if _, err := db.Exec(`UPDATE idea SET status = $1 WHERE id = $2`, models.IdeaStatusReviewed, first); err != nil {
		t.Fatalf("Failed to update idea: %v", err)
	}

	// An active poll with one vote, plus a closed poll's vote that must
	// not count toward active_poll_votes
	activeID := testutil.CreateTestPoll(t, db, "Question ?", []string{"A", "B"}, true)
	if err := RecordVote(db, activeID, 0, "stats-hash-1"); err != nil {
		t.Fatalf("Failed to record vote: %v", err)
	}
	closedID := testutil.CreateTestPoll(t, db, "Ancienne question ?", []string{"A", "B"}, false)
	if _, err := db.Exec(`
		INSERT INTO poll_vote (id, poll_id, option_index, voter_hash, created_at)
		VALUES ('old-vote', $1, 0, 'stats-hash-2', $2)
	`, closedID, time.Now()); err != nil {
		t.Fatalf("Failed to insert old vote: %v", err)
	}

	testutil.CreateTestSubscription(t, db, "https://push.example.org/send/stats")

	if err := middleware.RecordDailyConnection(db, "stats-hash-1", time.Now()); err != nil {
		t.Fatalf("Failed to record connection: %v", err)
	}

	w := httptest.NewRecorder()
	handler.Stats(w, testutil.DeviceRequest("GET", "/api/admin/stats", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.StatsResponse
	testutil.AssertJSON(t, w, &stats)

	if stats.TotalIdeas != 2 {
		t.Errorf("Expected 2 total ideas, got %d", stats.TotalIdeas)
	}
	if stats.IdeasByStatus[models.IdeaStatusReviewed] != 1 {
		t.Errorf("Expected 1 reviewed idea, got %d", stats.IdeasByStatus[models.IdeaStatusReviewed])
	}
	if stats.IdeasByStatus[models.IdeaStatusNew] != 1 {
		t.Errorf("Expected 1 new idea, got %d", stats.IdeasByStatus[models.IdeaStatusNew])
	}
	if stats.ActivePollVotes != 1 {
		t.Errorf("Expected 1 active poll vote, got %d", stats.ActivePollVotes)
	}
	if stats.ConnectionsToday != 1 {
		t.Errorf("Expected 1 connection today, got %d", stats.ConnectionsToday)
	}
	if stats.Subscriptions != 1 {
		t.Errorf("Expected 1 subscription, got %d", stats.Subscriptions)
	}
}
