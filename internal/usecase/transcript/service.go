package transcript

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	"github.com/prensalab/media-monitor/internal/domain/entities"
	"github.com/prensalab/media-monitor/internal/domain/repositories"
	"github.com/prensalab/media-monitor/pkg/transcription"
)

// Source is the external transcription provider collaborator
type Source interface {
	SubmitURL(ctx context.Context, mediaURL string) (string, error)
	FetchResult(ctx context.Context, providerID string) (transcription.Result, error)
}

// Service orchestrates transcriptions, speaker labels and editor sessions
type Service interface {
	Create(ctx context.Context, sourceType entities.SourceType, title string) (*entities.Transcription, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Transcription, []*entities.Utterance, error)
	List(ctx context.Context, filters repositories.TranscriptionFilters) ([]*entities.Transcription, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SubmitMedia(ctx context.Context, id uuid.UUID, mediaURL string) error
	HandleProviderWebhook(ctx context.Context, payload []byte) error

	UpdateText(ctx context.Context, id uuid.UUID, text string) error
	Export(ctx context.Context, id uuid.UUID) (string, error)

	Labels(ctx context.Context, id uuid.UUID) (map[string]string, error)
	SaveLabel(ctx context.Context, id uuid.UUID, originalSpeaker, customName string) error
	DeleteLabel(ctx context.Context, id uuid.UUID, originalSpeaker string) error
	ClearLabels(ctx context.Context, id uuid.UUID) error
	DisplayName(ctx context.Context, id uuid.UUID, originalSpeaker string) (string, bool, error)

	EditorSession(ctx context.Context, key string) (*EditorSession, error)
	ResetEditor(ctx context.Context, key string) error
}

type service struct {
	transcriptionRepo repositories.TranscriptionRepository
	utteranceRepo     repositories.UtteranceRepository
	labelRepo         repositories.SpeakerLabelRepository
	source            Source
	coordinator       *EditorCoordinator
	logger            *zap.Logger

	labelMu     sync.Mutex
	labelStores map[uuid.UUID]*LabelStore
}

// NewService constructs the transcript service
func NewService(
	transcriptionRepo repositories.TranscriptionRepository,
	utteranceRepo repositories.UtteranceRepository,
	labelRepo repositories.SpeakerLabelRepository,
	source Source,
	coordinator *EditorCoordinator,
	logger *zap.Logger,
) Service {
	return &service{
		transcriptionRepo: transcriptionRepo,
		utteranceRepo:     utteranceRepo,
		labelRepo:         labelRepo,
		source:            source,
		coordinator:       coordinator,
		logger:            logger,
		labelStores:       make(map[uuid.UUID]*LabelStore),
	}
}

// Create creates a new pending transcription
func (s *service) Create(ctx context.Context, sourceType entities.SourceType, title string) (*entities.Transcription, error) {
	t := entities.NewTranscription(sourceType, title)
	if err := s.transcriptionRepo.Create(ctx, t); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return t, nil
}

// Get retrieves a transcription with its utterances
func (s *service) Get(ctx context.Context, id uuid.UUID) (*entities.Transcription, []*entities.Utterance, error) {
	t, err := s.transcriptionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, apperrors.ErrDBQueryFailed(err)
	}
	if t == nil {
		return nil, nil, apperrors.ErrTranscriptionNotFound(id.String())
	}

	utterances, err := s.utteranceRepo.FindByTranscriptionID(ctx, id)
	if err != nil {
		return nil, nil, apperrors.ErrDBQueryFailed(err)
	}
	return t, utterances, nil
}

// List retrieves transcriptions with filters
func (s *service) List(ctx context.Context, filters repositories.TranscriptionFilters) ([]*entities.Transcription, int64, error) {
	transcriptions, total, err := s.transcriptionRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDBQueryFailed(err)
	}
	return transcriptions, total, nil
}

// Delete removes a transcription together with its utterances, labels and
// editor session. Cascade is the service's responsibility, not the schema's.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.utteranceRepo.DeleteByTranscriptionID(ctx, id); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if err := s.labelRepo.DeleteByTranscriptionID(ctx, id); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if err := s.transcriptionRepo.Delete(ctx, id); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}

	s.labelMu.Lock()
	delete(s.labelStores, id)
	s.labelMu.Unlock()

	s.coordinator.Drop(ctx, id.String())
	return nil
}

// SubmitMedia submits a media URL for transcription and records the
// provider job id.
func (s *service) SubmitMedia(ctx context.Context, id uuid.UUID, mediaURL string) error {
	t, err := s.transcriptionRepo.FindByID(ctx, id)
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if t == nil {
		return apperrors.ErrTranscriptionNotFound(id.String())
	}

	providerID, err := s.source.SubmitURL(ctx, mediaURL)
	if err != nil {
		return apperrors.ErrTranscriptionSubmitFailed(err)
	}

	t.MediaURL = mediaURL
	t.ProviderID = providerID
	t.Status = entities.TranscriptionStatusProcessing
	if err := s.transcriptionRepo.Update(ctx, t); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}

	s.logger.Info("media submitted for transcription",
		zap.String("transcription_id", id.String()),
		zap.String("provider_id", providerID),
	)
	return nil
}

// HandleProviderWebhook processes a provider completion callback: the result
// is fetched, persisted and fed to the editor session for reconciliation.
func (s *service) HandleProviderWebhook(ctx context.Context, payload []byte) error {
	event, err := transcription.ParseWebhook(payload)
	if err != nil {
		return apperrors.ErrInvalidPayload(err)
	}

	t, err := s.transcriptionRepo.FindByProviderID(ctx, event.TranscriptID)
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if t == nil {
		// Webhook for a transcription deleted meanwhile; drop silently.
		s.logger.Info("dropping webhook for unknown provider id",
			zap.String("provider_id", event.TranscriptID))
		return nil
	}

	if event.Status != "" && event.Status != "completed" {
		t.Status = entities.TranscriptionStatusFailed
		if err := s.transcriptionRepo.Update(ctx, t); err != nil {
			return apperrors.ErrDBQueryFailed(err)
		}
		s.logger.Warn("transcription failed at provider",
			zap.String("transcription_id", t.ID.String()),
			zap.String("status", event.Status),
		)
		return nil
	}

	result, err := s.source.FetchResult(ctx, event.TranscriptID)
	if err != nil {
		return apperrors.ErrExternalAPIFailed("transcription provider", err)
	}

	return s.applyResult(ctx, t, result)
}

// applyResult persists a transcription result and reconciles the editor
func (s *service) applyResult(ctx context.Context, t *entities.Transcription, result transcription.Result) error {
	t.Status = entities.TranscriptionStatusCompleted
	t.Language = result.Language
	t.HasSpeakers = result.HasUtterances()

	if result.HasUtterances() {
		t.Text = Encode(result.Utterances)
		if err := s.utteranceRepo.ReplaceAll(ctx, t.ID, utteranceEntities(t.ID, result.Utterances)); err != nil {
			return apperrors.ErrDBQueryFailed(err)
		}
	} else {
		t.Text = result.Text
	}

	if err := s.transcriptionRepo.Update(ctx, t); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}

	session := s.session(ctx, t.ID)
	session.ApplyResult(ctx, t.ID.String(), result)

	s.logger.Info("transcription result applied",
		zap.String("transcription_id", t.ID.String()),
		zap.Bool("has_speakers", t.HasSpeakers),
		zap.Int("utterances", len(result.Utterances)),
	)
	return nil
}

// UpdateText saves a user edit: the canonical text is stored and utterances
// are re-derived so both representations stay interconvertible.
func (s *service) UpdateText(ctx context.Context, id uuid.UUID, text string) error {
	t, err := s.transcriptionRepo.FindByID(ctx, id)
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if t == nil {
		return apperrors.ErrTranscriptionNotFound(id.String())
	}

	if err := s.transcriptionRepo.UpdateText(ctx, id, text); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if err := s.utteranceRepo.ReplaceAll(ctx, id, utteranceEntities(id, Decode(text))); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}

	s.session(ctx, id).SetText(ctx, text)
	return nil
}

// Export renders the transcript with custom speaker names substituted. The
// editor session's current text wins over the stored one so an export right
// after typing reflects the latest edits.
func (s *service) Export(ctx context.Context, id uuid.UUID) (string, error) {
	t, stored, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	state := s.session(ctx, id).State()
	text := state.Text
	utterances := state.Utterances
	if text == "" {
		text = t.Text
		utterances = utteranceValues(stored)
	}

	labels := s.labelStore(ctx, id)
	return Format(text, utterances, labels.GetDisplayName, labels.IsLoading()), nil
}

// Labels returns the raw-speaker → custom-name mapping for a transcription
func (s *service) Labels(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	return s.labelStore(ctx, id).Names(), nil
}

// SaveLabel upserts a custom speaker name
func (s *service) SaveLabel(ctx context.Context, id uuid.UUID, originalSpeaker, customName string) error {
	return s.labelStore(ctx, id).Save(ctx, originalSpeaker, customName)
}

// DeleteLabel removes a custom speaker name
func (s *service) DeleteLabel(ctx context.Context, id uuid.UUID, originalSpeaker string) error {
	return s.labelStore(ctx, id).Delete(ctx, originalSpeaker)
}

// ClearLabels removes every custom name for a transcription ("reset all").
// Callers gate this behind an explicit confirmation.
func (s *service) ClearLabels(ctx context.Context, id uuid.UUID) error {
	return s.labelStore(ctx, id).ClearAll(ctx)
}

// DisplayName resolves one raw speaker id, reporting whether it has a
// custom name.
func (s *service) DisplayName(ctx context.Context, id uuid.UUID, originalSpeaker string) (string, bool, error) {
	store := s.labelStore(ctx, id)
	return store.GetDisplayName(originalSpeaker), store.HasCustomName(originalSpeaker), nil
}

// EditorSession returns the editor session for a transcription id or the
// draft sentinel.
func (s *service) EditorSession(ctx context.Context, key string) (*EditorSession, error) {
	if key == DraftKey {
		return s.coordinator.Session(ctx, key, nil), nil
	}

	id, err := uuid.Parse(key)
	if err != nil {
		return nil, apperrors.ErrInvalidArgument(fmt.Sprintf("invalid editor key %q", key))
	}
	return s.session(ctx, id), nil
}

// ResetEditor clears the editor state for a key
func (s *service) ResetEditor(ctx context.Context, key string) error {
	session, err := s.EditorSession(ctx, key)
	if err != nil {
		return err
	}
	session.Reset(ctx)
	return nil
}

// session returns the editor session for a stored transcription, wiring a
// provider-backed utterance fetcher for sessions that hold flat text only.
func (s *service) session(ctx context.Context, id uuid.UUID) *EditorSession {
	fetch := func(ctx context.Context) ([]transcription.Utterance, error) {
		t, err := s.transcriptionRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil || t.ProviderID == "" {
			return nil, fmt.Errorf("no provider result for transcription %s", id)
		}
		result, err := s.source.FetchResult(ctx, t.ProviderID)
		if err != nil {
			return nil, err
		}
		return result.Utterances, nil
	}
	return s.coordinator.Session(ctx, id.String(), fetch)
}

// labelStore returns the loaded label store for a transcription
func (s *service) labelStore(ctx context.Context, id uuid.UUID) *LabelStore {
	s.labelMu.Lock()
	store, ok := s.labelStores[id]
	if !ok {
		store = NewLabelStore(id, s.labelRepo, s.logger)
		s.labelStores[id] = store
	}
	s.labelMu.Unlock()

	if store.IsLoading() {
		store.Load(ctx)
	}
	return store
}

func utteranceEntities(id uuid.UUID, utterances []transcription.Utterance) []*entities.Utterance {
	out := make([]*entities.Utterance, 0, len(utterances))
	for i, u := range utterances {
		out = append(out, &entities.Utterance{
			ID:              uuid.New(),
			TranscriptionID: id,
			Position:        i,
			Speaker:         u.Speaker,
			Text:            u.Text,
			StartMs:         u.StartMs,
			EndMs:           u.EndMs,
			Confidence:      u.Confidence,
		})
	}
	return out
}

func utteranceValues(utterances []*entities.Utterance) []transcription.Utterance {
	out := make([]transcription.Utterance, 0, len(utterances))
	for _, u := range utterances {
		out = append(out, transcription.Utterance{
			Speaker:    u.Speaker,
			Text:       u.Text,
			StartMs:    u.StartMs,
			EndMs:      u.EndMs,
			Confidence: u.Confidence,
		})
	}
	return out
}
