package domain

import "time"

// Status is the single pipeline state of a topic item. Transitions follow
// PENDING_SCRIPT -> PENDING_ASSETS -> PENDING_EDIT, with FAILED reachable
// from any stage. A FAILED item re-enters the pipeline at script generation.
type Status string

const (
	StatusPendingScript Status = "PENDING_SCRIPT"
	StatusPendingAssets Status = "PENDING_ASSETS"
	StatusPendingEdit   Status = "PENDING_EDIT"
	StatusFailed        Status = "FAILED"
)

// Valid reports whether s is a known pipeline status.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingScript, StatusPendingAssets, StatusPendingEdit, StatusFailed:
		return true
	}
	return false
}

// ScriptEligible reports whether an item in this status may enter the
// script stage. FAILED items are retried from script generation regardless
// of which stage originally failed.
func (s Status) ScriptEligible() bool {
	return s == StatusPendingScript || s == StatusFailed
}

// AssetEligible reports whether an item in this status may enter the asset stage.
func (s Status) AssetEligible() bool {
	return s == StatusPendingAssets
}

// Item is one topic tracked by the pipeline, keyed by its topic text.
// There is no surrogate id; the topic string is the natural identifier.
type Item struct {
	Topic        string    `json:"topic" db:"topic"`
	Status       Status    `json:"pipeline_status" db:"pipeline_status"`
	ScriptPath   *string   `json:"generated_script_path,omitempty" db:"generated_script_path"`
	VideoPath    *string   `json:"final_video_path,omitempty" db:"final_video_path"`
	YouTubeURL   *string   `json:"youtube_url,omitempty" db:"youtube_url"`
	LastError    *string   `json:"last_error,omitempty" db:"last_error"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
	SourceType   *string   `json:"source_type,omitempty" db:"source_type"`
	SourceDetail *string   `json:"source_detail,omitempty" db:"source_detail"`
}
