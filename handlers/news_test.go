package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jockie-stack/CVL-app/models"
	"github.com/Jockie-stack/CVL-app/testutil"
)

func TestCreateNews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewNewsHandler(db, cfg, nil)

	create := func(body models.CreateNewsRequest) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.Create(w, testutil.DeviceRequest("POST", "/api/admin/news", body))
		return w
	}

	t.Run("valid announcement", func(t *testing.T) {
		w := create(models.CreateNewsRequest{
			Title:   "Resultats des elections",
			Content: "Les nouveaux representants prennent leurs fonctions lundi.",
			Pinned:  true,
		})
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp struct {
			News     models.News  `json:"news"`
			Dispatch *interface{} `json:"dispatch"`
		}
		testutil.AssertJSON(t, w, &resp)
		if !resp.News.Pinned {
			t.Error("Expected pinned announcement")
		}
		if resp.Dispatch != nil {
			t.Error("No dispatch report expected without notify")
		}
	})

	t.Run("markup stripped", func(t *testing.T) {
		w := create(models.CreateNewsRequest{
			Title:   "<h1>Cantine</h1>",
			Content: "Nouveau <em>menu</em> vegetarien le jeudi.",
		})
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp struct {
			News models.News `json:"news"`
		}
		testutil.AssertJSON(t, w, &resp)
		if resp.News.Title != "Cantine" {
			t.Errorf("Expected sanitized title, got %q", resp.News.Title)
		}
		if resp.News.Content != "Nouveau menu vegetarien le jeudi." {
			t.Errorf("Expected sanitized content, got %q", resp.News.Content)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		w := create(models.CreateNewsRequest{Content: "contenu sans titre"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("missing content", func(t *testing.T) {
		w := create(models.CreateNewsRequest{Title: "titre sans contenu"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("notify without push configured still creates", func(t *testing.T) {
		w := create(models.CreateNewsRequest{
			Title:   "Annonce avec notification",
			Content: "La diffusion est ignoree quand le push est desactive.",
			Notify:  true,
		})
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp struct {
			News     models.News  `json:"news"`
			Dispatch *interface{} `json:"dispatch"`
		}
		testutil.AssertJSON(t, w, &resp)
		if resp.Dispatch != nil {
			t.Error("Disabled push must not produce a dispatch report")
		}
	})
}

func TestListNews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewNewsHandler(db, cfg, nil)

	insert := func(title string, pinned bool, createdAt time.Time) {
		_, err := db.Exec(`
			INSERT INTO news (id, title, content, pinned, created_at)
			VALUES ($1, $2, 'contenu', $3, $4)
		`, uuid.NewString(), title, pinned, createdAt)
		if err != nil {
			t.Fatalf("Failed to insert news: %v", err)
		}
	}

	now := time.Now()
	insert("ancienne", false, now.Add(-2*time.Hour))
	insert("recente", false, now)
	insert("epinglee", true, now.Add(-24*time.Hour))

	w := httptest.NewRecorder()
	handler.List(w, testutil.DeviceRequest("GET", "/api/news", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var items []models.News
	testutil.AssertJSON(t, w, &items)
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}

	// Pinned first, then newest first
	if items[0].Title != "epinglee" {
		t.Errorf("Expected pinned item first, got %q", items[0].Title)
	}
	if items[1].Title != "recente" || items[2].Title != "ancienne" {
		t.Errorf("Expected newest-first ordering, got %q then %q", items[1].Title, items[2].Title)
	}
}

func TestDeleteNews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewNewsHandler(db, cfg, nil)

	newsID := uuid.NewString()
	if _, err := db.Exec(`
		INSERT INTO news (id, title, content, pinned, created_at)
		VALUES ($1, 'titre', 'contenu', $2, $3)
	`, newsID, false, time.Now()); err != nil {
		t.Fatalf("Failed to insert news: %v", err)
	}

	del := func(id string) *httptest.ResponseRecorder {
		req := testutil.DeviceRequest("DELETE", "/api/admin/news/"+id, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.Delete(w, req)
		return w
	}

	testutil.AssertStatus(t, del(newsID), http.StatusNoContent)
	testutil.AssertStatus(t, del(newsID), http.StatusNotFound)
}
