package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prensalab/media-monitor/internal/infrastructure/cache"
	"github.com/prensalab/media-monitor/pkg/transcription"
)

func newTestCoordinator() *EditorCoordinator {
	return NewEditorCoordinator(cache.NewMemoryStore(), zap.NewNop())
}

func TestEditorSessionApplyResult(t *testing.T) {
	ctx := context.Background()

	t.Run("utterance result populates session", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)

		applied := s.ApplyResult(ctx, "tr-1", transcription.Result{
			Utterances: []transcription.Utterance{
				{Speaker: "SPEAKER_1", Text: "hola", StartMs: 0, EndMs: 1200},
				{Speaker: "SPEAKER_2", Text: "buenas", StartMs: 1200, EndMs: 2400},
			},
		})
		require.True(t, applied)

		state := s.State()
		assert.Equal(t, "SPEAKER 1: hola\n\nSPEAKER 2: buenas", state.Text)
		assert.True(t, state.HasTimestampData)
		assert.Equal(t, ViewModeInteractive, state.ViewMode)
		assert.Len(t, state.Utterances, 2)
	})

	t.Run("flat text result defaults to edit mode", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)

		applied := s.ApplyResult(ctx, "tr-1", transcription.Result{Text: "texto corrido"})
		require.True(t, applied)

		state := s.State()
		assert.Equal(t, "texto corrido", state.Text)
		assert.False(t, state.HasTimestampData)
		assert.Equal(t, ViewModeEdit, state.ViewMode)
	})

	t.Run("result for another transcription is dropped", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		s.SetText(ctx, "mi texto")

		applied := s.ApplyResult(ctx, "tr-2", transcription.Result{Text: "otro transcript"})
		assert.False(t, applied)
		assert.Equal(t, "mi texto", s.State().Text)
	})

	t.Run("empty result is ignored", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		assert.False(t, s.ApplyResult(ctx, "tr-1", transcription.Result{}))
	})

	t.Run("utterances do not clobber a newer user edit", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		s.SetText(ctx, "SPEAKER 1: versión corregida por el editor")

		applied := s.ApplyResult(ctx, "tr-1", transcription.Result{
			Utterances: []transcription.Utterance{
				{Speaker: "SPEAKER_1", Text: "versión vieja del proveedor"},
			},
		})
		assert.False(t, applied)
		assert.Equal(t, "SPEAKER 1: versión corregida por el editor", s.State().Text)
	})

	t.Run("utterances win when no edit followed the last reconciliation", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		s.SetText(ctx, "borrador inicial")

		// first result reconciles over the edit history
		require.False(t, s.ApplyResult(ctx, "tr-1", transcription.Result{
			Utterances: []transcription.Utterance{{Speaker: "SPEAKER_1", Text: "uno"}},
		}))

		s.Reset(ctx)
		require.True(t, s.ApplyResult(ctx, "tr-1", transcription.Result{
			Utterances: []transcription.Utterance{{Speaker: "SPEAKER_1", Text: "dos"}},
		}))
		assert.Equal(t, "SPEAKER 1: dos", s.State().Text)
	})
}

func TestEditorSessionSetText(t *testing.T) {
	ctx := context.Background()

	t.Run("re-derives utterances from the edit", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		s.SetText(ctx, "SPEAKER 1: hola\n\nSPEAKER 2: buenas")

		state := s.State()
		require.Len(t, state.Utterances, 2)
		assert.Equal(t, "1", state.Utterances[0].Speaker)
		assert.Equal(t, "buenas", state.Utterances[1].Text)
	})

	t.Run("emptying the text resets the session", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		require.True(t, s.ApplyResult(ctx, "tr-1", transcription.Result{
			Utterances: []transcription.Utterance{{Speaker: "SPEAKER_1", Text: "hola"}},
		}))
		s.SetEditing(ctx, true)

		s.SetText(ctx, "   ")

		state := s.State()
		assert.Empty(t, state.Text)
		assert.Empty(t, state.Utterances)
		assert.False(t, state.HasTimestampData)
		assert.False(t, state.IsEditing)
		assert.Equal(t, ViewModeEdit, state.ViewMode)
	})

	t.Run("a later result applies again after reset", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		s.SetText(ctx, "texto del usuario")
		s.SetText(ctx, "")

		require.True(t, s.ApplyResult(ctx, "tr-1", transcription.Result{Text: "resultado nuevo"}))
		assert.Equal(t, "resultado nuevo", s.State().Text)
	})
}

func TestEditorSessionViewMode(t *testing.T) {
	ctx := context.Background()

	t.Run("interactive requires timestamp data", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		s.SetText(ctx, "SPEAKER 1: hola")

		err := s.SetViewMode(ctx, ViewModeInteractive)
		require.Error(t, err)
		assert.Equal(t, ViewModeEdit, s.State().ViewMode)
	})

	t.Run("interactive allowed with real timestamps", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		require.True(t, s.ApplyResult(ctx, "tr-1", transcription.Result{
			Utterances: []transcription.Utterance{{Speaker: "SPEAKER_1", Text: "hola"}},
		}))

		require.NoError(t, s.SetViewMode(ctx, ViewModeEdit))
		require.NoError(t, s.SetViewMode(ctx, ViewModeInteractive))
		assert.Equal(t, ViewModeInteractive, s.State().ViewMode)
	})

	t.Run("rejects unknown modes", func(t *testing.T) {
		s := newTestCoordinator().Session(ctx, "tr-1", nil)
		assert.Error(t, s.SetViewMode(ctx, ViewMode("split")))
	})
}

func TestEditorSessionPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("state survives coordinator restart", func(t *testing.T) {
		store := cache.NewMemoryStore()

		c1 := NewEditorCoordinator(store, zap.NewNop())
		s1 := c1.Session(ctx, "tr-1", nil)
		s1.SetText(ctx, "SPEAKER 1: hola")
		s1.SetEditing(ctx, true)

		c2 := NewEditorCoordinator(store, zap.NewNop())
		s2 := c2.Session(ctx, "tr-1", nil)

		state := s2.State()
		assert.Equal(t, "SPEAKER 1: hola", state.Text)
		assert.True(t, state.IsEditing)
		require.Len(t, state.Utterances, 1)
	})

	t.Run("drop clears persisted state", func(t *testing.T) {
		store := cache.NewMemoryStore()

		c1 := NewEditorCoordinator(store, zap.NewNop())
		c1.Session(ctx, "tr-1", nil).SetText(ctx, "algo")
		c1.Drop(ctx, "tr-1")

		c2 := NewEditorCoordinator(store, zap.NewNop())
		assert.Empty(t, c2.Session(ctx, "tr-1", nil).State().Text)
	})
}

func TestEditorSessionEnsureUtterances(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch populates structured data", func(t *testing.T) {
		fetch := func(context.Context) ([]transcription.Utterance, error) {
			return []transcription.Utterance{{Speaker: "SPEAKER_1", Text: "hola", EndMs: 900}}, nil
		}
		s := newTestCoordinator().Session(ctx, "tr-1", fetch)

		require.NoError(t, s.EnsureUtterances(ctx))

		state := s.State()
		assert.True(t, state.HasTimestampData)
		assert.Equal(t, "SPEAKER 1: hola", state.Text)
	})

	t.Run("fetch failure synthesizes single-speaker text", func(t *testing.T) {
		calls := 0
		fetch := func(context.Context) ([]transcription.Utterance, error) {
			calls++
			return nil, errors.New("provider unavailable")
		}
		s := newTestCoordinator().Session(ctx, "tr-1", fetch)
		s.SetText(ctx, "texto plano sin estructura")

		err := s.EnsureUtterances(ctx)
		require.Error(t, err)
		assert.Equal(t, "SPEAKER 1: texto plano sin estructura", s.State().Text)

		// attempted at most once per session
		require.NoError(t, s.EnsureUtterances(ctx))
		assert.Equal(t, 1, calls)
	})

	t.Run("no-op when timestamps already present", func(t *testing.T) {
		calls := 0
		fetch := func(context.Context) ([]transcription.Utterance, error) {
			calls++
			return nil, nil
		}
		s := newTestCoordinator().Session(ctx, "tr-1", fetch)
		require.True(t, s.ApplyResult(ctx, "tr-1", transcription.Result{
			Utterances: []transcription.Utterance{{Speaker: "SPEAKER_1", Text: "hola"}},
		}))

		require.NoError(t, s.EnsureUtterances(ctx))
		assert.Zero(t, calls)
	})
}
