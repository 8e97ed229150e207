package transcription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhook(t *testing.T) {
	t.Run("current payload shape", func(t *testing.T) {
		ev, err := ParseWebhook([]byte(`{"transcript_id": "abc-123", "status": "completed"}`))
		require.NoError(t, err)
		assert.Equal(t, "abc-123", ev.TranscriptID)
		assert.Equal(t, "completed", ev.Status)
	})

	t.Run("legacy id field", func(t *testing.T) {
		ev, err := ParseWebhook([]byte(`{"id": "abc-123", "status": "error"}`))
		require.NoError(t, err)
		assert.Equal(t, "abc-123", ev.TranscriptID)
		assert.Equal(t, "error", ev.Status)
	})

	t.Run("transcript_id wins over id", func(t *testing.T) {
		ev, err := ParseWebhook([]byte(`{"transcript_id": "new", "id": "old"}`))
		require.NoError(t, err)
		assert.Equal(t, "new", ev.TranscriptID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := ParseWebhook([]byte(`{"status": "completed"}`))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseWebhook([]byte(`not json`))
		assert.Error(t, err)
	})
}

func TestResultHasUtterances(t *testing.T) {
	assert.False(t, Result{Text: "plano"}.HasUtterances())
	assert.True(t, Result{Utterances: []Utterance{{Speaker: "1"}}}.HasUtterances())
}
