package models

import (
	"errors"
	"fmt"
)

// Priority is the urgency attached to an action item.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of Low, Medium or High.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	MinEngagementScore = 0
	MaxEngagementScore = 100
)

// ErrInvalidResult is wrapped by every AnalysisResult.Validate failure.
var ErrInvalidResult = errors.New("analysis result does not match schema")

// AnalysisResult is the meeting-intelligence report returned by POST /api/v1/analyze.
// Real and fallback reports share this shape; only Note and AIRawResponse are optional.
type AnalysisResult struct {
	FileInfo               FileInfo        `json:"file_info"`
	Segments               []Segment       `json:"segments"`
	EngagementScore        EngagementScore `json:"engagement_score"`
	MeetingSummary         MeetingSummary  `json:"meeting_summary"`
	ActionItems            []ActionItem    `json:"action_items"`
	ImprovementSuggestions []string        `json:"improvement_suggestions"`

	Note          string `json:"note,omitempty"`
	AIRawResponse string `json:"ai_raw_response,omitempty"`
}

type FileInfo struct {
	Filename     string `json:"filename"`
	ProcessedAt  string `json:"processed_at"`
	AnalysisType string `json:"analysis_type"`
	Status       string `json:"status"`
}

// Segment is one chronological slice of the transcript.
type Segment struct {
	TimeRange       string `json:"time_range"`
	Speaker         string `json:"speaker"`
	Transcript      string `json:"transcript"`
	Sentiment       string `json:"sentiment"`
	SentimentReason string `json:"sentiment_reason"`
	Topic           string `json:"topic"`
}

type EngagementScore struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

type MeetingSummary struct {
	KeyPoints       []string `json:"key_points"`
	Decisions       []string `json:"decisions"`
	OpenQuestions   []string `json:"open_questions"`
	RisksOrConcerns []string `json:"risks_or_concerns"`
}

type ActionItem struct {
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Priority    Priority `json:"priority"`
}

// Validate checks the invariants every returned report must hold:
// at least one segment, a score within [0,100] and a known priority on every action item.
func (r *AnalysisResult) Validate() error {
	if len(r.Segments) == 0 {
		return fmt.Errorf("%w: segments must not be empty", ErrInvalidResult)
	}
	if r.EngagementScore.Score < MinEngagementScore || r.EngagementScore.Score > MaxEngagementScore {
		return fmt.Errorf("%w: engagement_score.score %d out of range [%d,%d]",
			ErrInvalidResult, r.EngagementScore.Score, MinEngagementScore, MaxEngagementScore)
	}
	for i, item := range r.ActionItems {
		if !item.Priority.Valid() {
			return fmt.Errorf("%w: action_items[%d].priority %q must be Low, Medium or High",
				ErrInvalidResult, i, item.Priority)
		}
	}
	return nil
}

// Normalize replaces nil sequences with empty ones so the encoded report
// never carries null where the schema promises a list.
func (r *AnalysisResult) Normalize() {
	if r.Segments == nil {
		r.Segments = []Segment{}
	}
	if r.ActionItems == nil {
		r.ActionItems = []ActionItem{}
	}
	if r.ImprovementSuggestions == nil {
		r.ImprovementSuggestions = []string{}
	}
	s := &r.MeetingSummary
	for _, list := range []*[]string{&s.KeyPoints, &s.Decisions, &s.OpenQuestions, &s.RisksOrConcerns} {
		if *list == nil {
			*list = []string{}
		}
	}
}
