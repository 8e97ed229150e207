package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/prensalab/media-monitor/internal/domain/entities"
)

// TranscriptionRepository defines the interface for transcription data access
type TranscriptionRepository interface {
	// Create creates a new transcription
	Create(ctx context.Context, transcription *entities.Transcription) error

	// FindByID retrieves a transcription by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcription, error)

	// FindByProviderID retrieves a transcription by the external provider job id
	FindByProviderID(ctx context.Context, providerID string) (*entities.Transcription, error)

	// Update updates an existing transcription
	Update(ctx context.Context, transcription *entities.Transcription) error

	// UpdateText updates only the canonical transcript text
	UpdateText(ctx context.Context, id uuid.UUID, text string) error

	// List retrieves transcriptions with pagination, newest first
	List(ctx context.Context, filters TranscriptionFilters) ([]*entities.Transcription, int64, error)

	// Delete deletes a transcription
	Delete(ctx context.Context, id uuid.UUID) error
}

// TranscriptionFilters represents filter options for listing transcriptions
type TranscriptionFilters struct {
	SourceType *entities.SourceType
	Status     *entities.TranscriptionStatus
	Search     string
	Limit      int
	Offset     int
}

// UtteranceRepository defines the interface for utterance data access
type UtteranceRepository interface {
	// FindByTranscriptionID retrieves all utterances for a transcription in order
	FindByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) ([]*entities.Utterance, error)

	// ReplaceAll atomically replaces the utterance set for a transcription
	ReplaceAll(ctx context.Context, transcriptionID uuid.UUID, utterances []*entities.Utterance) error

	// DeleteByTranscriptionID removes all utterances for a transcription
	DeleteByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) error
}
