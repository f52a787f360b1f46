package models

import (
	"encoding/json"
	"time"
)

// Idea status constants
const (
	IdeaStatusNew      = "nouveau"
	IdeaStatusReviewed = "examine"
	IdeaStatusAccepted = "retenu"
	IdeaStatusDone     = "realise"
	IdeaStatusRejected = "refuse"
)

// Idea urgency constants
const (
	UrgencyLow    = "basse"
	UrgencyMedium = "moyenne"
	UrgencyHigh   = "haute"
)

// Idea category constants
const (
	CategoryCourses    = "cours"
	CategoryCanteen    = "cantine"
	CategoryActivities = "activites"
	CategoryEquipment  = "equipements"
	CategoryWellbeing  = "bien-etre"
	CategoryOther      = "autre"
)

// Field length limits applied before persistence
const (
	MaxIdeaTextLen    = 500
	MaxNewsTitleLen   = 120
	MaxNewsContentLen = 2000
)

// Request types

type SubmitIdeaRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
}

type UpdateIdeaStatusRequest struct {
	Status string `json:"status"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteRequest struct {
	OptionIndex int `json:"option_index"`
}

type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type SubscribeRequest struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

type CreateNewsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
	Notify  bool   `json:"notify"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

// Response types

type SubmitIdeaResponse struct {
	Idea Idea `json:"idea"`
}

type UpdateIdeaStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type VoteResponse struct {
	PollID      string `json:"poll_id"`
	OptionIndex int    `json:"option_index"`
}

type ActivePollResponse struct {
	Poll     Poll  `json:"poll"`
	Counts   []int `json:"counts"`
	HasVoted bool  `json:"has_voted"`
}

type PollSummary struct {
	Poll       Poll `json:"poll"`
	TotalVotes int  `json:"total_votes"`
}

type SubscribeResponse struct {
	Endpoint string `json:"endpoint"`
}

type DeactivateResponse struct {
	Deactivated int64 `json:"deactivated"`
}

type LoginResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type StatsResponse struct {
	IdeasByStatus    map[string]int `json:"ideas_by_status"`
	TotalIdeas       int            `json:"total_ideas"`
	ActivePollVotes  int            `json:"active_poll_votes"`
	ConnectionsToday int            `json:"connections_today"`
	Subscriptions    int            `json:"subscriptions"`
}

// Domain types

type Idea struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Category   string    `json:"category"`
	Urgency    string    `json:"urgency"`
	Status     string    `json:"status"`
	DeviceHash string    `json:"-"` // Never expose in JSON
	CreatedAt  time.Time `json:"created_at"`
}

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type PollVote struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	OptionIndex int       `json:"option_index"`
	VoterHash   string    `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"created_at"`
}

type PushSubscription struct {
	Endpoint   string    `json:"endpoint"`
	Payload    string    `json:"-"` // Opaque blob with key material
	DeviceHash string    `json:"-"`
	UserAgent  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type News struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	RetryAfterSec int    `json:"retry_after_sec,omitempty"`
}

// EncodeOptions serializes a poll's option labels as a JSON array.
// The stored ordering is frozen at creation; vote option indexes always
// refer to it.
func EncodeOptions(options []string) (string, error) {
	b, err := json.Marshal(options)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeOptions parses the stored option list back into labels.
func DecodeOptions(raw string) ([]string, error) {
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, err
	}
	return options, nil
}

// ValidIdeaStatus reports whether s is one of the idea workflow statuses.
func ValidIdeaStatus(s string) bool {
	switch s {
	case IdeaStatusNew, IdeaStatusReviewed, IdeaStatusAccepted, IdeaStatusDone, IdeaStatusRejected:
		return true
	}
	return false
}

// ValidUrgency reports whether s is a known urgency level.
func ValidUrgency(s string) bool {
	switch s {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// ValidCategory reports whether s is a known idea category.
func ValidCategory(s string) bool {
	switch s {
	case CategoryCourses, CategoryCanteen, CategoryActivities,
		CategoryEquipment, CategoryWellbeing, CategoryOther:
		return true
	}
	return false
}
