package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prensalab/media-monitor/internal/domain/entities"
	"github.com/prensalab/media-monitor/internal/domain/repositories"
)

// TranscriptionRepository handles transcription data operations
type TranscriptionRepository struct {
	db *gorm.DB
}

// NewTranscriptionRepository creates a new transcription repository
func NewTranscriptionRepository(db *gorm.DB) *TranscriptionRepository {
	return &TranscriptionRepository{db: db}
}

// Create creates a new transcription
func (r *TranscriptionRepository) Create(ctx context.Context, transcription *entities.Transcription) error {
	if transcription == nil {
		return errors.New("transcription cannot be nil")
	}
	return r.db.WithContext(ctx).Create(transcription).Error
}

// FindByID retrieves a transcription by ID
func (r *TranscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcription, error) {
	var transcription entities.Transcription
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transcription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcription, nil
}

// FindByProviderID retrieves a transcription by the external provider job id
func (r *TranscriptionRepository) FindByProviderID(ctx context.Context, providerID string) (*entities.Transcription, error) {
	var transcription entities.Transcription
	if err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&transcription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcription, nil
}

// Update updates a transcription
func (r *TranscriptionRepository) Update(ctx context.Context, transcription *entities.Transcription) error {
	if transcription == nil {
		return errors.New("transcription cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Transcription{}).
		Where("id = ?", transcription.ID).
		Save(transcription).Error
}

// UpdateText updates only the canonical transcript text
func (r *TranscriptionRepository) UpdateText(ctx context.Context, id uuid.UUID, text string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Transcription{}).
		Where("id = ?", id).
		Update("text", text).Error
}

// List retrieves transcriptions with filters and pagination, newest first
func (r *TranscriptionRepository) List(ctx context.Context, filters repositories.TranscriptionFilters) ([]*entities.Transcription, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Transcription{})

	if filters.SourceType != nil {
		query = query.Where("source_type = ?", *filters.SourceType)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var transcriptions []*entities.Transcription
	if err := query.Order("created_at DESC").Find(&transcriptions).Error; err != nil {
		return nil, 0, err
	}
	return transcriptions, total, nil
}

// Delete deletes a transcription
func (r *TranscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.Transcription{}, id).Error
}
