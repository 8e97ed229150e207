package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prensalab/media-monitor/pkg/transcription"
)

// namesFunc builds a DisplayNameFunc over a fixed mapping with the same
// generic fallback the label store produces.
func namesFunc(names map[string]string) DisplayNameFunc {
	return func(originalSpeaker string) string {
		if name, ok := names[originalSpeaker]; ok {
			return name
		}
		return "Speaker " + speakerNumber(originalSpeaker)
	}
}

func TestFormat(t *testing.T) {
	t.Run("loading guard returns text untouched", func(t *testing.T) {
		text := "SPEAKER 1: hola"
		got := Format(text, nil, namesFunc(map[string]string{"SPEAKER_1": "Ana"}), true)
		assert.Equal(t, text, got)
	})

	t.Run("utterances take precedence over flat text", func(t *testing.T) {
		utterances := []transcription.Utterance{
			{Speaker: "SPEAKER_1", Text: "hola"},
			{Speaker: "SPEAKER_2", Text: "buenas"},
		}
		names := namesFunc(map[string]string{"SPEAKER_1": "Ana García"})

		got := Format("texto obsoleto", utterances, names, false)
		assert.Equal(t, "Ana García: hola\n\nSpeaker 2: buenas", got)
	})

	t.Run("flat text substitutes line-start labels only", func(t *testing.T) {
		text := "SPEAKER 1: dijo SPEAKER 2: en medio\n\nSPEAKER 2: cierto"
		names := namesFunc(map[string]string{"SPEAKER_1": "Ana", "SPEAKER_2": "Luis"})

		got := Format(text, nil, names, false)
		assert.Equal(t, "Ana: dijo SPEAKER 2: en medio\n\nLuis: cierto", got)
	})

	t.Run("utterance bodies are never rewritten", func(t *testing.T) {
		utterances := []transcription.Utterance{
			{Speaker: "SPEAKER_1", Text: "como dijo SPEAKER 2: no"},
		}
		names := namesFunc(map[string]string{"SPEAKER_1": "Ana", "SPEAKER_2": "Luis"})

		got := Format("", utterances, names, false)
		assert.Equal(t, "Ana: como dijo SPEAKER 2: no", got)
	})

	t.Run("tolerates parenthetical name annotations", func(t *testing.T) {
		text := "SPEAKER 1 (Juan Pérez): Juan Pérez: Buenas tardes"
		names := namesFunc(map[string]string{"SPEAKER_1": "Juan Pérez"})

		got := Format(text, nil, names, false)
		assert.Equal(t, "Juan Pérez: Juan Pérez: Buenas tardes", got)
	})

	t.Run("underscore spelling at line start", func(t *testing.T) {
		text := "SPEAKER_1: hola"
		names := namesFunc(map[string]string{"SPEAKER_1": "Ana"})

		got := Format(text, nil, names, false)
		assert.Equal(t, "Ana: hola", got)
	})

	t.Run("no labels leaves text as is", func(t *testing.T) {
		text := "texto corrido sin hablantes"
		got := Format(text, nil, namesFunc(nil), false)
		assert.Equal(t, text, got)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Equal(t, "", Format("", nil, namesFunc(nil), false))
	})
}

func TestResolveName(t *testing.T) {
	t.Run("probes raw-id spellings in priority order", func(t *testing.T) {
		names := namesFunc(map[string]string{
			"SPEAKER_1": "canonical",
			"SPEAKER 1": "spaced",
		})
		assert.Equal(t, "canonical", resolveName("1", names))
	})

	t.Run("falls through to later spellings", func(t *testing.T) {
		names := namesFunc(map[string]string{"speaker_2": "lowercase"})
		assert.Equal(t, "lowercase", resolveName("2", names))
	})

	t.Run("bare numeric id", func(t *testing.T) {
		names := namesFunc(map[string]string{"3": "bare"})
		assert.Equal(t, "bare", resolveName("3", names))
	})

	t.Run("generic fallback when nothing matches", func(t *testing.T) {
		assert.Equal(t, "Speaker 4", resolveName("4", namesFunc(nil)))
	})
}
