package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/prensalab/media-monitor/internal/domain/entities"
)

// SpeakerLabelRepository defines the interface for speaker label data access.
// Concurrent upserts to the same (transcription, speaker) pair resolve by
// last-write-wins at the database; the repository adds no ordering of its own.
type SpeakerLabelRepository interface {
	// FindByTranscriptionID retrieves all labels for a transcription
	FindByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) ([]*entities.SpeakerLabel, error)

	// Upsert creates or updates the label for a (transcription, speaker) pair
	Upsert(ctx context.Context, label *entities.SpeakerLabel) error

	// Delete removes the label for a (transcription, speaker) pair
	Delete(ctx context.Context, transcriptionID uuid.UUID, originalSpeaker string) error

	// DeleteByTranscriptionID removes every label for a transcription
	DeleteByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) error
}
