package transcript

import (
	"time"

	"github.com/prensalab/media-monitor/internal/domain/entities"
)

// UtteranceResponse is one speaker turn
type UtteranceResponse struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	StartMs    int64   `json:"start_ms"`
	EndMs      int64   `json:"end_ms"`
	Confidence float64 `json:"confidence,omitempty"`
}

// TranscriptionResponse is a transcription with its utterances
type TranscriptionResponse struct {
	ID          string              `json:"id"`
	SourceType  string              `json:"source_type"`
	Title       string              `json:"title,omitempty"`
	Status      string              `json:"status"`
	Text        string              `json:"text"`
	Language    string              `json:"language,omitempty"`
	HasSpeakers bool                `json:"has_speakers"`
	Utterances  []UtteranceResponse `json:"utterances,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewTranscriptionResponse builds a response from entities
func NewTranscriptionResponse(t *entities.Transcription, utterances []*entities.Utterance) TranscriptionResponse {
	resp := TranscriptionResponse{
		ID:          t.ID.String(),
		SourceType:  string(t.SourceType),
		Title:       t.Title,
		Status:      string(t.Status),
		Text:        t.Text,
		Language:    t.Language,
		HasSpeakers: t.HasSpeakers,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, u := range utterances {
		resp.Utterances = append(resp.Utterances, UtteranceResponse{
			Speaker:    u.Speaker,
			Text:       u.Text,
			StartMs:    u.StartMs,
			EndMs:      u.EndMs,
			Confidence: u.Confidence,
		})
	}
	return resp
}

// SpeakerLabelsResponse is the raw-speaker → custom-name mapping
type SpeakerLabelsResponse struct {
	TranscriptionID string            `json:"transcription_id"`
	Labels          map[string]string `json:"labels"`
}

// ExportResponse is the formatted transcript with names substituted
type ExportResponse struct {
	TranscriptionID string `json:"transcription_id"`
	Text            string `json:"text"`
}

// EditorStateResponse is a snapshot of an editor session
type EditorStateResponse struct {
	Key              string              `json:"key"`
	Text             string              `json:"text"`
	ViewMode         string              `json:"view_mode"`
	IsEditing        bool                `json:"is_editing"`
	HasTimestampData bool                `json:"has_timestamp_data"`
	Utterances       []UtteranceResponse `json:"utterances,omitempty"`
}
