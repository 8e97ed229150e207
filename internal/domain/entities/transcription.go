package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SourceType identifies the media channel a transcription originates from
type SourceType string

const (
	SourceTypePress  SourceType = "press"
	SourceTypeRadio  SourceType = "radio"
	SourceTypeTV     SourceType = "tv"
	SourceTypeSocial SourceType = "social"
)

// TranscriptionStatus tracks the provider processing lifecycle
type TranscriptionStatus string

const (
	TranscriptionStatusPending    TranscriptionStatus = "pending"
	TranscriptionStatusProcessing TranscriptionStatus = "processing"
	TranscriptionStatusCompleted  TranscriptionStatus = "completed"
	TranscriptionStatusFailed     TranscriptionStatus = "failed"
)

// Transcription is the stored transcript model for a monitored media item
type Transcription struct {
	ID          uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SourceType  SourceType                                 `json:"source_type" gorm:"type:varchar(20);not null;index"`
	Title       string                                     `json:"title,omitempty" gorm:"type:varchar(255)"`
	MediaURL    string                                     `json:"media_url,omitempty" gorm:"type:text"`
	ProviderID  string                                     `json:"provider_id,omitempty" gorm:"type:varchar(255);index"`
	Status      TranscriptionStatus                        `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Text        string                                     `json:"text" gorm:"type:text"`
	Language    string                                     `json:"language,omitempty" gorm:"type:varchar(20)"`
	HasSpeakers bool                                       `json:"has_speakers" gorm:"default:false"`
	RawResult   datatypes.JSONType[map[string]interface{}] `json:"raw_result,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time                                  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcription) TableName() string {
	return "transcriptions"
}

// NewTranscription creates a new pending transcription
func NewTranscription(sourceType SourceType, title string) *Transcription {
	return &Transcription{
		ID:         uuid.New(),
		SourceType: sourceType,
		Title:      title,
		Status:     TranscriptionStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}
