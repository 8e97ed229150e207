package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prensalab/media-monitor/internal/domain/entities"
)

// SpeakerLabelRepository handles speaker label data operations
type SpeakerLabelRepository struct {
	db *gorm.DB
}

// NewSpeakerLabelRepository creates a new speaker label repository
func NewSpeakerLabelRepository(db *gorm.DB) *SpeakerLabelRepository {
	return &SpeakerLabelRepository{db: db}
}

// FindByTranscriptionID retrieves all labels for a transcription
func (r *SpeakerLabelRepository) FindByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) ([]*entities.SpeakerLabel, error) {
	var labels []*entities.SpeakerLabel
	if err := r.db.WithContext(ctx).
		Where("transcription_id = ?", transcriptionID).
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// Upsert creates or updates the label for a (transcription, speaker) pair.
// Conflicts on the unique pair index resolve by overwriting the custom name,
// which gives last-write-wins under concurrent saves.
func (r *SpeakerLabelRepository) Upsert(ctx context.Context, label *entities.SpeakerLabel) error {
	if label == nil {
		return errors.New("label cannot be nil")
	}
	label.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transcription_id"}, {Name: "original_speaker"}},
		DoUpdates: clause.AssignmentColumns([]string{"custom_name", "updated_at"}),
	}).Create(label).Error
}

// Delete removes the label for a (transcription, speaker) pair
func (r *SpeakerLabelRepository) Delete(ctx context.Context, transcriptionID uuid.UUID, originalSpeaker string) error {
	return r.db.WithContext(ctx).
		Where("transcription_id = ? AND original_speaker = ?", transcriptionID, originalSpeaker).
		Delete(&entities.SpeakerLabel{}).Error
}

// DeleteByTranscriptionID removes every label for a transcription
func (r *SpeakerLabelRepository) DeleteByTranscriptionID(ctx context.Context, transcriptionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("transcription_id = ?", transcriptionID).
		Delete(&entities.SpeakerLabel{}).Error
}
