// Package watch defines core types shared across subsystems.
package watch

import "time"

// Source is one tracked channel row in the external record store.
// The core reads every field but mutates only Active.
type Source struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Keyword      string `json:"keyword"`
	Active       bool   `json:"active"`
	ExpectedHour int    `json:"expected_hour"`
}

// DefaultExpectedHour is assumed when a source row carries no hour property.
const DefaultExpectedHour = 9

// Candidate is one piece of content discovered during a fetch attempt.
// Candidates are ephemeral; only the selected one reaches the state machine.
type Candidate struct {
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	VideoID      string    `json:"video_id"`
	UploadedText string    `json:"uploaded_text"`
	UploadedAt   time.Time `json:"uploaded_at,omitempty"`
	IsLive       bool      `json:"is_live"`
	IsUpcoming   bool      `json:"is_upcoming"`
	Length       string    `json:"length"`
}

// Completed reports whether the candidate is ordinary finished content,
// eligible for transcript retrieval.
func (c Candidate) Completed() bool {
	return !c.IsLive && !c.IsUpcoming
}

// RecordStatus is the lifecycle state of a processed record.
type RecordStatus string

// Record status values persisted in the record store.
const (
	RecordStatusAnalysis RecordStatus = "analysis"
	RecordStatusComplete RecordStatus = "complete"
)

// Record is the durable output filed for a processed video. Created at most
// once per video URL; never updated by the core after creation.
type Record struct {
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	VideoDate time.Time    `json:"video_date"`
	Channel   string       `json:"channel"`
	Length    string       `json:"length"`
	Status    RecordStatus `json:"status"`
	Body      string       `json:"body"`
}

// Outcome classifies one (source, trigger hour) processing attempt.
type Outcome string

// Outcome values reported by the channel state machine.
const (
	OutcomeSkipped               Outcome = "skipped"
	OutcomeNoMatch               Outcome = "no_match"
	OutcomeLiveOrUpcoming        Outcome = "live_or_upcoming"
	OutcomeDuplicate             Outcome = "duplicate"
	OutcomeTranscriptUnavailable Outcome = "transcript_unavailable"
	OutcomeStoreFailed           Outcome = "store_failed"
	OutcomeCreated               Outcome = "created"
)

// Terminal reports whether the outcome deactivated the source for the day.
func (o Outcome) Terminal() bool {
	return o == OutcomeCreated || o == OutcomeDuplicate
}

// RecordCreatedEvent is published after a new record lands in the store.
type RecordCreatedEvent struct {
	Source    string    `json:"source"`
	Keyword   string    `json:"keyword"`
	URL       string    `json:"url"`
	RecordID  string    `json:"record_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DueTask describes one pending extraction attempt for reporting/simulation.
type DueTask struct {
	Source       string `json:"source"`
	Keyword      string `json:"keyword"`
	ExpectedHour int    `json:"expected_hour"`
	TriggerHour  int    `json:"trigger_hour"`
}

// PageResponse is the result of fetching a channel listing page.
type PageResponse struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Rendered   bool
}
