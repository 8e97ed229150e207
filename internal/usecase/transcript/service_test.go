package transcript

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prensalab/media-monitor/internal/domain/entities"
	"github.com/prensalab/media-monitor/internal/domain/repositories"
	"github.com/prensalab/media-monitor/internal/infrastructure/cache"
	"github.com/prensalab/media-monitor/pkg/transcription"
)

type fakeTranscriptionRepo struct {
	byID map[uuid.UUID]*entities.Transcription
}

func newFakeTranscriptionRepo() *fakeTranscriptionRepo {
	return &fakeTranscriptionRepo{byID: make(map[uuid.UUID]*entities.Transcription)}
}

func (r *fakeTranscriptionRepo) Create(_ context.Context, t *entities.Transcription) error {
	r.byID[t.ID] = t
	return nil
}

func (r *fakeTranscriptionRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Transcription, error) {
	return r.byID[id], nil
}

func (r *fakeTranscriptionRepo) FindByProviderID(_ context.Context, providerID string) (*entities.Transcription, error) {
	for _, t := range r.byID {
		if t.ProviderID == providerID {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTranscriptionRepo) Update(_ context.Context, t *entities.Transcription) error {
	r.byID[t.ID] = t
	return nil
}

func (r *fakeTranscriptionRepo) UpdateText(_ context.Context, id uuid.UUID, text string) error {
	if t, ok := r.byID[id]; ok {
		t.Text = text
	}
	return nil
}

func (r *fakeTranscriptionRepo) List(_ context.Context, _ repositories.TranscriptionFilters) ([]*entities.Transcription, int64, error) {
	out := make([]*entities.Transcription, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTranscriptionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

type fakeUtteranceRepo struct {
	byTranscription map[uuid.UUID][]*entities.Utterance
}

func newFakeUtteranceRepo() *fakeUtteranceRepo {
	return &fakeUtteranceRepo{byTranscription: make(map[uuid.UUID][]*entities.Utterance)}
}

func (r *fakeUtteranceRepo) FindByTranscriptionID(_ context.Context, id uuid.UUID) ([]*entities.Utterance, error) {
	return r.byTranscription[id], nil
}

func (r *fakeUtteranceRepo) ReplaceAll(_ context.Context, id uuid.UUID, utterances []*entities.Utterance) error {
	r.byTranscription[id] = utterances
	return nil
}

func (r *fakeUtteranceRepo) DeleteByTranscriptionID(_ context.Context, id uuid.UUID) error {
	delete(r.byTranscription, id)
	return nil
}

type fakeSource struct {
	submitted []string
	result    transcription.Result
	resultErr error
}

func (s *fakeSource) SubmitURL(_ context.Context, mediaURL string) (string, error) {
	s.submitted = append(s.submitted, mediaURL)
	return "prov-123", nil
}

func (s *fakeSource) FetchResult(_ context.Context, _ string) (transcription.Result, error) {
	return s.result, s.resultErr
}

type serviceFixture struct {
	svc            Service
	transcriptions *fakeTranscriptionRepo
	utterances     *fakeUtteranceRepo
	labels         *fakeLabelRepo
	source         *fakeSource
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		transcriptions: newFakeTranscriptionRepo(),
		utterances:     newFakeUtteranceRepo(),
		labels:         newFakeLabelRepo(),
		source:         &fakeSource{},
	}
	coordinator := NewEditorCoordinator(cache.NewMemoryStore(), zap.NewNop())
	f.svc = NewService(f.transcriptions, f.utterances, f.labels, f.source, coordinator, zap.NewNop())
	return f
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	created, err := f.svc.Create(ctx, entities.SourceTypeTV, "Noticiero central")
	require.NoError(t, err)
	assert.Equal(t, entities.TranscriptionStatusPending, created.Status)

	require.NoError(t, f.svc.SubmitMedia(ctx, created.ID, "https://cdn.example.com/clip.mp3"))

	got, _, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "prov-123", got.ProviderID)
	assert.Equal(t, entities.TranscriptionStatusProcessing, got.Status)
	assert.Equal(t, []string{"https://cdn.example.com/clip.mp3"}, f.source.submitted)
}

func TestServiceHandleProviderWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("completed result is persisted with utterances", func(t *testing.T) {
		f := newServiceFixture(t)
		created, err := f.svc.Create(ctx, entities.SourceTypeRadio, "Entrevista matinal")
		require.NoError(t, err)
		require.NoError(t, f.svc.SubmitMedia(ctx, created.ID, "https://cdn.example.com/radio.mp3"))

		f.source.result = transcription.Result{
			Language: "es",
			Utterances: []transcription.Utterance{
				{Speaker: "1", Text: "Buenos días", StartMs: 0, EndMs: 1400},
				{Speaker: "2", Text: "Gracias por recibirme", StartMs: 1400, EndMs: 3100},
			},
		}

		payload := []byte(`{"transcript_id": "prov-123", "status": "completed"}`)
		require.NoError(t, f.svc.HandleProviderWebhook(ctx, payload))

		got, stored, err := f.svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.TranscriptionStatusCompleted, got.Status)
		assert.True(t, got.HasSpeakers)
		assert.Equal(t, "es", got.Language)
		assert.Equal(t, "SPEAKER 1: Buenos días\n\nSPEAKER 2: Gracias por recibirme", got.Text)
		require.Len(t, stored, 2)
		assert.Equal(t, 0, stored[0].Position)
		assert.Equal(t, 1, stored[1].Position)
	})

	t.Run("non-completed status marks the transcription failed", func(t *testing.T) {
		f := newServiceFixture(t)
		created, err := f.svc.Create(ctx, entities.SourceTypeTV, "Debate")
		require.NoError(t, err)
		require.NoError(t, f.svc.SubmitMedia(ctx, created.ID, "https://cdn.example.com/tv.mp4"))

		payload := []byte(`{"transcript_id": "prov-123", "status": "error"}`)
		require.NoError(t, f.svc.HandleProviderWebhook(ctx, payload))

		got, _, err := f.svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.TranscriptionStatusFailed, got.Status)
	})

	t.Run("webhook for unknown provider id is dropped", func(t *testing.T) {
		f := newServiceFixture(t)
		payload := []byte(`{"transcript_id": "prov-999", "status": "completed"}`)
		assert.NoError(t, f.svc.HandleProviderWebhook(ctx, payload))
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		assert.Error(t, f.svc.HandleProviderWebhook(ctx, []byte(`{`)))
		assert.Error(t, f.svc.HandleProviderWebhook(ctx, []byte(`{"status": "completed"}`)))
	})
}

func TestServiceUpdateText(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	created, err := f.svc.Create(ctx, entities.SourceTypePress, "Rueda de prensa")
	require.NoError(t, err)

	text := "SPEAKER 1: declaración oficial\n\nSPEAKER 2: primera pregunta"
	require.NoError(t, f.svc.UpdateText(ctx, created.ID, text))

	got, stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
	require.Len(t, stored, 2)
	assert.Equal(t, "1", stored[0].Speaker)
	assert.Equal(t, "primera pregunta", stored[1].Text)
}

func TestServiceExport(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	created, err := f.svc.Create(ctx, entities.SourceTypeTV, "Noticiero")
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateText(ctx, created.ID, "SPEAKER 1: titulares\n\nSPEAKER 2: el tiempo"))
	require.NoError(t, f.svc.SaveLabel(ctx, created.ID, "1", "Marta Díaz"))

	out, err := f.svc.Export(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marta Díaz: titulares\n\nSpeaker 2: el tiempo", out)
}

func TestServiceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	created, err := f.svc.Create(ctx, entities.SourceTypeSocial, "Hilo viral")
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateText(ctx, created.ID, "SPEAKER 1: contenido"))
	require.NoError(t, f.svc.SaveLabel(ctx, created.ID, "SPEAKER_1", "Autor"))

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	got, _, err := f.svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Empty(t, f.utterances.byTranscription)
	assert.Empty(t, f.labels.labels)

	// editor state for the deleted transcription is gone too
	session, err := f.svc.EditorSession(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Empty(t, session.State().Text)
}

func TestServiceEditorSessionKey(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	t.Run("draft sentinel", func(t *testing.T) {
		session, err := f.svc.EditorSession(ctx, DraftKey)
		require.NoError(t, err)
		require.NotNil(t, session)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := f.svc.EditorSession(ctx, "not-a-uuid")
		assert.Error(t, err)
	})
}
