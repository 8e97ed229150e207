package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	"github.com/prensalab/media-monitor/internal/infrastructure/cache"
	"github.com/prensalab/media-monitor/pkg/transcription"
)

// ViewMode selects how the transcript editor renders
type ViewMode string

const (
	// ViewModeInteractive renders formatted text with timestamp UI; only
	// available when the session has real timestamp data
	ViewModeInteractive ViewMode = "interactive"
	// ViewModeEdit renders a plain editable text area
	ViewModeEdit ViewMode = "edit"
)

// DraftKey keys editor sessions for transcriptions that are not saved yet
const DraftKey = "draft"

const sessionTTL = 12 * time.Hour

// UtteranceFetcher retrieves structured utterances for a session that holds
// flat text only. Attempted at most once per session.
type UtteranceFetcher func(ctx context.Context) ([]transcription.Utterance, error)

// EditorState is a snapshot of one editor session
type EditorState struct {
	Text             string                    `json:"text"`
	Utterances       []transcription.Utterance `json:"utterances,omitempty"`
	IsEditing        bool                      `json:"is_editing"`
	ViewMode         ViewMode                  `json:"view_mode"`
	HasTimestampData bool                      `json:"has_timestamp_data"`
}

// persistedState is the session-store representation of an editor session
type persistedState struct {
	Text             string   `json:"text"`
	IsEditing        bool     `json:"is_editing"`
	ViewMode         ViewMode `json:"view_mode"`
	HasTimestampData bool     `json:"has_timestamp_data"`
}

// EditorSession is the single source of truth for the text being edited for
// one transcription. It reconciles asynchronously arriving transcription
// results against local edits and keeps view-mode state across reloads
// within a session.
//
// A monotonic logical clock orders user edits against reconciliations: a
// remote result never overwrites text when the last user edit is newer than
// the last reconciliation, so a stale result cannot clobber fresh typing.
type EditorSession struct {
	key    string
	store  cache.SessionStore
	fetch  UtteranceFetcher
	logger *zap.Logger

	mu             sync.Mutex
	text           string
	utterances     []transcription.Utterance
	viewMode       ViewMode // empty until first set
	isEditing      bool
	hasTimestamps  bool
	clock          uint64
	lastUserEdit   uint64
	lastReconcile  uint64
	fetchAttempted bool
}

// newEditorSession restores a session from the store, or starts empty
func newEditorSession(ctx context.Context, key string, store cache.SessionStore, fetch UtteranceFetcher, logger *zap.Logger) *EditorSession {
	s := &EditorSession{
		key:    key,
		store:  store,
		fetch:  fetch,
		logger: logger,
	}

	raw, err := store.Get(ctx, sessionKey(key))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Warn("failed to restore editor state",
				zap.String("key", key), zap.Error(err))
		}
		return s
	}

	var ps persistedState
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		logger.Warn("discarding unreadable editor state",
			zap.String("key", key), zap.Error(err))
		return s
	}

	s.text = ps.Text
	s.isEditing = ps.IsEditing
	s.viewMode = ps.ViewMode
	s.hasTimestamps = ps.HasTimestampData
	s.utterances = Decode(ps.Text)
	return s
}

func sessionKey(key string) string {
	return "editor:" + key
}

// ApplyResult reconciles an incoming transcription result. Results keyed to
// a different transcription are dropped to avoid cross-transcript
// contamination. Returns whether the result was applied.
func (s *EditorSession) ApplyResult(ctx context.Context, transcriptionID string, res transcription.Result) bool {
	if transcriptionID != s.key {
		s.logger.Debug("dropping stale transcription result",
			zap.String("session", s.key),
			zap.String("result", transcriptionID))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case res.HasUtterances():
		// Utterances are the higher-fidelity source and win over flat
		// text, but never over a user edit newer than the last
		// reconciliation.
		if s.lastUserEdit > s.lastReconcile {
			s.logger.Debug("keeping newer local edit over remote result",
				zap.String("session", s.key))
			return false
		}
		s.utterances = res.Utterances
		s.text = Encode(res.Utterances)
		s.hasTimestamps = true
		if s.viewMode == "" {
			s.viewMode = ViewModeInteractive
		}
	case strings.TrimSpace(res.Text) != "":
		if s.lastUserEdit > s.lastReconcile {
			return false
		}
		s.text = res.Text
		s.utterances = Decode(res.Text)
		s.hasTimestamps = false
		if s.viewMode == "" {
			s.viewMode = ViewModeEdit
		}
	default:
		return false
	}

	s.clock++
	s.lastReconcile = s.clock
	s.persistLocked(ctx)
	return true
}

// SetText applies a user edit. Utterances are re-derived immediately so an
// export right after typing reflects the latest text without a remote round
// trip. Emptying the text transitions the session back to NoData.
func (s *EditorSession) SetText(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		s.Reset(ctx)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.utterances = Decode(text)
	s.clock++
	s.lastUserEdit = s.clock
	s.persistLocked(ctx)
}

// SetViewMode switches rendering modes. Interactive mode requires real
// timestamp data.
func (s *EditorSession) SetViewMode(ctx context.Context, mode ViewMode) error {
	if mode != ViewModeInteractive && mode != ViewModeEdit {
		return apperrors.ErrInvalidArgument("unknown view mode")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == ViewModeInteractive && !s.hasTimestamps {
		return apperrors.ErrInvalidArgument("interactive view requires timestamp data")
	}
	s.viewMode = mode
	s.persistLocked(ctx)
	return nil
}

// SetEditing toggles whether the plain-text view is editable. Independent
// of the view mode.
func (s *EditorSession) SetEditing(ctx context.Context, editing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isEditing = editing
	s.persistLocked(ctx)
}

// EnsureUtterances fetches structured utterances for a session holding flat
// text only. The fetch runs at most once per session; on failure the session
// falls back to single-speaker synthesis instead of leaving the editor
// blank, and the returned error is a non-fatal warning.
func (s *EditorSession) EnsureUtterances(ctx context.Context) error {
	s.mu.Lock()
	if s.hasTimestamps || s.fetchAttempted || s.fetch == nil {
		s.mu.Unlock()
		return nil
	}
	s.fetchAttempted = true
	text := s.text
	s.mu.Unlock()

	utterances, err := s.fetch(ctx)
	if err != nil || len(utterances) == 0 {
		s.mu.Lock()
		s.text = FormatPlainTextAsSpeaker(text)
		s.utterances = Decode(s.text)
		s.persistLocked(ctx)
		s.mu.Unlock()

		s.logger.Warn("utterance fetch failed, synthesized single-speaker text",
			zap.String("session", s.key), zap.Error(err))
		if err != nil {
			return apperrors.ErrTranscriptionFailed(err)
		}
		return nil
	}

	s.ApplyResult(ctx, s.key, transcription.Result{Utterances: utterances})
	return nil
}

// Reset clears the transcript and all persisted editor state for this key
func (s *EditorSession) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = ""
	s.utterances = nil
	s.hasTimestamps = false
	s.viewMode = ViewModeEdit
	s.isEditing = false
	s.clock++
	s.lastUserEdit = 0
	s.lastReconcile = 0
	s.fetchAttempted = false

	if err := s.store.Delete(ctx, sessionKey(s.key)); err != nil {
		s.logger.Warn("failed to clear persisted editor state",
			zap.String("key", s.key), zap.Error(err))
	}
}

// State returns a snapshot of the session
func (s *EditorSession) State() EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()

	utterances := make([]transcription.Utterance, len(s.utterances))
	copy(utterances, s.utterances)

	viewMode := s.viewMode
	if viewMode == "" {
		viewMode = ViewModeEdit
	}

	return EditorState{
		Text:             s.text,
		Utterances:       utterances,
		IsEditing:        s.isEditing,
		ViewMode:         viewMode,
		HasTimestampData: s.hasTimestamps,
	}
}

// persistLocked writes the session to the store. Persistence failures are
// logged and otherwise ignored; the in-memory session stays authoritative.
// Callers must hold s.mu.
func (s *EditorSession) persistLocked(ctx context.Context) {
	viewMode := s.viewMode
	if viewMode == "" {
		viewMode = ViewModeEdit
	}
	raw, err := json.Marshal(persistedState{
		Text:             s.text,
		IsEditing:        s.isEditing,
		ViewMode:         viewMode,
		HasTimestampData: s.hasTimestamps,
	})
	if err != nil {
		s.logger.Warn("failed to encode editor state", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, sessionKey(s.key), string(raw), sessionTTL); err != nil {
		s.logger.Warn("failed to persist editor state",
			zap.String("key", s.key), zap.Error(err))
	}
}

// EditorCoordinator hands out editor sessions keyed by transcription id (or
// DraftKey for unsaved transcripts) and removes them when a transcription is
// deleted.
type EditorCoordinator struct {
	store  cache.SessionStore
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*EditorSession
}

// NewEditorCoordinator creates a coordinator backed by a session store
func NewEditorCoordinator(store cache.SessionStore, logger *zap.Logger) *EditorCoordinator {
	return &EditorCoordinator{
		store:    store,
		logger:   logger,
		sessions: make(map[string]*EditorSession),
	}
}

// Session returns the editor session for a key, creating it (and restoring
// persisted state) on first use.
func (c *EditorCoordinator) Session(ctx context.Context, key string, fetch UtteranceFetcher) *EditorSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sessions[key]; ok {
		return s
	}
	s := newEditorSession(ctx, key, c.store, fetch, c.logger)
	c.sessions[key] = s
	return s
}

// Drop resets and removes the session for a key. Called when the owning
// transcription is deleted.
func (c *EditorCoordinator) Drop(ctx context.Context, key string) {
	c.mu.Lock()
	s, ok := c.sessions[key]
	delete(c.sessions, key)
	c.mu.Unlock()

	if ok {
		s.Reset(ctx)
	} else if err := c.store.Delete(ctx, sessionKey(key)); err != nil {
		c.logger.Warn("failed to clear persisted editor state",
			zap.String("key", key), zap.Error(err))
	}
}
