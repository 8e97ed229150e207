package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prensalab/media-monitor/internal/domain/entities"
)

// UtteranceRepository handles utterance data operations
type UtteranceRepository struct {
	db *gorm.DB
}

// NewUtteranceRepository creates a new utterance repository
func NewUtteranceRepository(db *gorm.DB) *UtteranceRepository {
	return &UtteranceRepository{db: db}
}

// FindByTranscriptionID retrieves all utterances for a transcription in order
func (r *UtteranceRepository) FindByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) ([]*entities.Utterance, error) {
	var utterances []*entities.Utterance
	if err := r.db.WithContext(ctx).
		Where("transcription_id = ?", transcriptionID).
		Order("position ASC").
		Find(&utterances).Error; err != nil {
		return nil, err
	}
	return utterances, nil
}

// ReplaceAll atomically replaces the utterance set for a transcription.
// Utterances are only mutated through full replacement.
func (r *UtteranceRepository) ReplaceAll(ctx context.Context, transcriptionID uuid.UUID, utterances []*entities.Utterance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transcription_id = ?", transcriptionID).
			Delete(&entities.Utterance{}).Error; err != nil {
			return err
		}
		if len(utterances) == 0 {
			return nil
		}
		for i, u := range utterances {
			u.TranscriptionID = transcriptionID
			u.Position = i
		}
		return tx.Create(&utterances).Error
	})
}

// DeleteByTranscriptionID removes all utterances for a transcription
func (r *UtteranceRepository) DeleteByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("transcription_id = ?", transcriptionID).
		Delete(&entities.Utterance{}).Error
}
