// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/middleware"
	"github.com/Jockie-stack/CVL-app/models"
	"github.com/Jockie-stack/CVL-app/sanitize"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// GetActive handles GET /api/polls/active
// Returns the single active poll with per-option counts and whether the
// calling device already voted.
func (h *PollHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	deviceHash := middleware.DeviceHash(r)

	var poll models.Poll
	var optionsRaw string
	err := h.db.QueryRow(`
		SELECT id, question, options, active, created_at
		FROM poll WHERE active = $1
	`, true).Scan(&poll.ID, &poll.Question, &optionsRaw, &poll.Active, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No active poll")
		return
	}
	if err != nil {
		slog.Error("failed to query active poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	poll.Options, err = models.DecodeOptions(optionsRaw)
	if err != nil {
		slog.Error("failed to decode poll options", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	counts := make([]int, len(poll.Options))
	rows, err := h.db.Query(`
		SELECT option_index, COUNT(*)
		FROM poll_vote
		WHERE poll_id = $1
		GROUP BY option_index
	`, poll.ID)
	if err != nil {
		slog.Error("failed to query vote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var index, count int
		if err := rows.Scan(&index, &count); err != nil {
			slog.Error("failed to scan vote count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if index >= 0 && index < len(counts) {
			counts[index] = count
		}
	}

	var hasVoted bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM poll_vote
			WHERE poll_id = $1 AND voter_hash = $2
		)
	`, poll.ID, deviceHash).Scan(&hasVoted)
	if err != nil {
		slog.Error("failed to query vote existence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActivePollResponse{
		Poll:     poll,
		Counts:   counts,
		HasVoted: hasVoted,
	})
}

// Vote handles POST /api/polls/{id}/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	deviceHash := middleware.DeviceHash(r)

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := RecordVote(h.db, pollID, req.OptionIndex, deviceHash)
	switch {
	case errors.Is(err, models.ErrPollNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	case errors.Is(err, models.ErrPollClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open for voting")
		return
	case errors.Is(err, models.ErrOptionOutOfRange):
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_index out of range")
		return
	case errors.Is(err, models.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "Already voted on this poll")
		return
	case err != nil:
		slog.Error("failed to record vote", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "poll_id", pollID, "option_index", req.OptionIndex)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		PollID:      pollID,
		OptionIndex: req.OptionIndex,
	})
}

// Create handles POST /api/admin/polls
// The new poll becomes the active one; any previously active poll is
// deactivated in the same transaction.
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	question := sanitize.Clean(req.Question, 300)
	if question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}

	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll must have at least 2 options")
		return
	}

	options := make([]string, 0, len(req.Options))
	for _, label := range req.Options {
		clean := sanitize.Clean(label, 100)
		if clean == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option labels cannot be empty")
			return
		}
		options = append(options, clean)
	}

	poll, err := ActivatePoll(h.db, question, options)
	if err != nil {
		slog.Error("failed to activate poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll activated", "poll_id", poll.ID)

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// List handles GET /api/admin/polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT p.id, p.question, p.options, p.active, p.created_at,
		       (SELECT COUNT(*) FROM poll_vote v WHERE v.poll_id = p.id) AS total_votes
		FROM poll p
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	summaries := []models.PollSummary{}
	for rows.Next() {
		var summary models.PollSummary
		var optionsRaw string
		if err := rows.Scan(&summary.Poll.ID, &summary.Poll.Question, &optionsRaw,
			&summary.Poll.Active, &summary.Poll.CreatedAt, &summary.TotalVotes); err != nil {
			slog.Error("failed to scan poll", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		summary.Poll.Options, err = models.DecodeOptions(optionsRaw)
		if err != nil {
			slog.Error("failed to decode poll options", "error", err, "poll_id", summary.Poll.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		summaries = append(summaries, summary)
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// Deactivate handles POST /api/admin/polls/deactivate
// Closes voting without rotating a new poll in.
func (h *PollHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	result, err := h.db.Exec(`UPDATE poll SET active = $1 WHERE active = $2`, false, true)
	if err != nil {
		slog.Error("failed to deactivate polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to deactivate polls")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to deactivate polls")
		return
	}

	slog.Info("polls deactivated", "count", affected)

	middleware.JSONResponse(w, http.StatusOK, models.DeactivateResponse{Deactivated: affected})
}

// RecordVote validates the option index against the poll's frozen option
// list, then inserts the vote. The UNIQUE (poll_id, voter_hash) constraint
// is the linearization point: a duplicate surfaces as ErrAlreadyVoted, not
// as a raw store error. The bounds check needs no transaction because the
// option list never changes after creation.
func RecordVote(db *sql.DB, pollID string, optionIndex int, voterHash string) error {
	var optionsRaw string
	var active bool
	err := db.QueryRow(`SELECT options, active FROM poll WHERE id = $1`, pollID).Scan(&optionsRaw, &active)
	if err == sql.ErrNoRows {
		return models.ErrPollNotFound
	}
	if err != nil {
		return err
	}
	if !active {
		return models.ErrPollClosed
	}

	options, err := models.DecodeOptions(optionsRaw)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(options) {
		return models.ErrOptionOutOfRange
	}

	_, err = db.Exec(`
		INSERT INTO poll_vote (id, poll_id, option_index, voter_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), pollID, optionIndex, voterHash, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrAlreadyVoted
		}
		return err
	}
	return nil
}

// ActivatePoll deactivates every active poll and inserts the new one as
// active, in a single transaction so readers never observe two active
// polls or none right after a rotation.
func ActivatePoll(db *sql.DB, question string, options []string) (models.Poll, error) {
	encoded, err := models.EncodeOptions(options)
	if err != nil {
		return models.Poll{}, err
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  question,
		Options:   options,
		Active:    true,
		CreatedAt: time.Now(),
	}

	tx, err := db.Begin()
	if err != nil {
		return models.Poll{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE poll SET active = $1 WHERE active = $2`, false, true); err != nil {
		return models.Poll{}, err
	}

	if _, err := tx.Exec(`
		INSERT INTO poll (id, question, options, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, poll.ID, poll.Question, encoded, true, poll.CreatedAt); err != nil {
		return models.Poll{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}

// isUniqueViolation matches unique-constraint errors from both supported
// drivers (modernc SQLite and lib/pq).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
