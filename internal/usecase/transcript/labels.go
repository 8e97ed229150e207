package transcript

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	"github.com/prensalab/media-monitor/internal/domain/entities"
	"github.com/prensalab/media-monitor/internal/domain/repositories"
)

// LabelStore holds the raw-speaker → custom-name mapping for one
// transcription. Reads are served from a local map that is updated
// optimistically; failed durable writes roll the local update back.
type LabelStore struct {
	transcriptionID uuid.UUID
	repo            repositories.SpeakerLabelRepository
	logger          *zap.Logger

	mu     sync.RWMutex
	names  map[string]string
	loaded bool
}

// NewLabelStore creates a label store for a transcription. Call Load before
// relying on GetDisplayName for custom names; until then IsLoading reports
// true and display callers must render raw text unchanged.
func NewLabelStore(transcriptionID uuid.UUID, repo repositories.SpeakerLabelRepository, logger *zap.Logger) *LabelStore {
	return &LabelStore{
		transcriptionID: transcriptionID,
		repo:            repo,
		logger:          logger,
		names:           make(map[string]string),
	}
}

// Load fetches all labels for the transcription. A failed fetch is logged
// and yields an empty mapping; it never propagates to the caller.
func (s *LabelStore) Load(ctx context.Context) {
	labels, err := s.repo.FindByTranscriptionID(ctx, s.transcriptionID)
	if err != nil {
		s.logger.Warn("failed to load speaker labels, using empty mapping",
			zap.String("transcription_id", s.transcriptionID.String()),
			zap.Error(err),
		)
		labels = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = make(map[string]string, len(labels))
	for _, l := range labels {
		s.names[l.OriginalSpeaker] = l.CustomName
	}
	s.loaded = true
}

// IsLoading reports whether the initial label fetch has not completed yet
func (s *LabelStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded
}

// Save upserts the custom name for a raw speaker. A name that is blank after
// trimming is treated as a delete. The local mapping is updated before the
// durable write and reverted if the write fails.
func (s *LabelStore) Save(ctx context.Context, originalSpeaker, customName string) error {
	customName = strings.TrimSpace(customName)
	if customName == "" {
		return s.Delete(ctx, originalSpeaker)
	}

	return s.optimistic(ctx,
		func(names map[string]string) { names[originalSpeaker] = customName },
		func(ctx context.Context) error {
			return s.repo.Upsert(ctx, &entities.SpeakerLabel{
				ID:              uuid.New(),
				TranscriptionID: s.transcriptionID,
				OriginalSpeaker: originalSpeaker,
				CustomName:      customName,
			})
		},
		func(err error) error { return apperrors.ErrLabelSaveFailed(originalSpeaker, err) },
	)
}

// Delete removes the mapping for a raw speaker, optimistically
func (s *LabelStore) Delete(ctx context.Context, originalSpeaker string) error {
	return s.optimistic(ctx,
		func(names map[string]string) { delete(names, originalSpeaker) },
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, s.transcriptionID, originalSpeaker)
		},
		func(err error) error { return apperrors.ErrLabelDeleteFailed(originalSpeaker, err) },
	)
}

// ClearAll removes every label for the transcription. Callers gate this
// behind an explicit confirmation step.
func (s *LabelStore) ClearAll(ctx context.Context) error {
	return s.optimistic(ctx,
		func(names map[string]string) { clear(names) },
		func(ctx context.Context) error {
			return s.repo.DeleteByTranscriptionID(ctx, s.transcriptionID)
		},
		func(err error) error { return apperrors.ErrLabelDeleteFailed("*", err) },
	)
}

// GetDisplayName returns the custom name for a raw speaker, or a formatted
// fallback: ids carrying a separator reduce to "Speaker <numeric-suffix>",
// bare ids to "Speaker <raw-id>".
func (s *LabelStore) GetDisplayName(originalSpeaker string) string {
	s.mu.RLock()
	name, ok := s.names[originalSpeaker]
	s.mu.RUnlock()
	if ok && name != "" {
		return name
	}
	return "Speaker " + speakerNumber(originalSpeaker)
}

// HasCustomName reports whether a custom name is stored for a raw speaker
func (s *LabelStore) HasCustomName(originalSpeaker string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[originalSpeaker]
	return ok && name != ""
}

// Names returns a snapshot of the current mapping
func (s *LabelStore) Names() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.names))
	for k, v := range s.names {
		out[k] = v
	}
	return out
}

// optimistic applies a local mutation, attempts the durable write and
// restores the previous mapping if the write fails. Each mutation moves
// pending → committed or pending → rolled-back; there is no partial state.
func (s *LabelStore) optimistic(ctx context.Context, apply func(map[string]string), write func(context.Context) error, wrap func(error) error) error {
	s.mu.Lock()
	previous := make(map[string]string, len(s.names))
	for k, v := range s.names {
		previous[k] = v
	}
	apply(s.names)
	s.mu.Unlock()

	if err := write(ctx); err != nil {
		s.mu.Lock()
		s.names = previous
		s.mu.Unlock()

		s.logger.Warn("speaker label write failed, rolled back local update",
			zap.String("transcription_id", s.transcriptionID.String()),
			zap.Error(err),
		)
		return wrap(err)
	}
	return nil
}
