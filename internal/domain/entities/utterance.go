package entities

import (
	"time"

	"github.com/google/uuid"
)

// Utterance represents a single speaker turn in a transcription.
// Speaker holds the raw identifier exactly as the upstream source produced
// it ("1", "SPEAKER_1", "SPEAKER 1"); normalization happens at display time.
type Utterance struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TranscriptionID uuid.UUID `json:"transcription_id" gorm:"type:uuid;not null;index"`
	Position        int       `json:"position" gorm:"not null"`
	Speaker         string    `json:"speaker" gorm:"type:varchar(50);not null"`
	Text            string    `json:"text" gorm:"type:text;not null"`
	StartMs         int64     `json:"start_ms" gorm:"not null"`
	EndMs           int64     `json:"end_ms" gorm:"not null"`
	Confidence      float64   `json:"confidence" gorm:"default:0.0"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Utterance) TableName() string {
	return "utterances"
}
