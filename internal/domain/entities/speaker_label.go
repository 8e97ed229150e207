package entities

import (
	"time"

	"github.com/google/uuid"
)

// SpeakerLabel maps a raw speaker identifier to a user-chosen display name,
// scoped to one transcription. One row per (transcription, raw speaker) pair.
type SpeakerLabel struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TranscriptionID uuid.UUID `json:"transcription_id" gorm:"type:uuid;not null;uniqueIndex:idx_speaker_labels_pair"`
	OriginalSpeaker string    `json:"original_speaker" gorm:"type:varchar(50);not null;uniqueIndex:idx_speaker_labels_pair"`
	CustomName      string    `json:"custom_name" gorm:"type:varchar(255);not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SpeakerLabel) TableName() string {
	return "speaker_labels"
}
