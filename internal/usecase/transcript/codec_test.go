package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensalab/media-monitor/pkg/transcription"
)

func TestEncode(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Encode(nil))
		assert.Equal(t, "", Encode([]transcription.Utterance{}))
	})

	t.Run("numbers speakers from raw ids", func(t *testing.T) {
		utterances := []transcription.Utterance{
			{Speaker: "SPEAKER_1", Text: "Hola a todos."},
			{Speaker: "speaker_2", Text: "Buenas tardes."},
			{Speaker: "3", Text: "Gracias."},
		}

		got := Encode(utterances)
		want := "SPEAKER 1: Hola a todos.\n\nSPEAKER 2: Buenas tardes.\n\nSPEAKER 3: Gracias."
		assert.Equal(t, want, got)
	})

	t.Run("preserves inline name as annotation", func(t *testing.T) {
		utterances := []transcription.Utterance{
			{Speaker: "SPEAKER_1", Text: "Juan Pérez: Buenas tardes"},
		}

		got := Encode(utterances)
		assert.Equal(t, "SPEAKER 1 (Juan Pérez): Juan Pérez: Buenas tardes", got)
	})

	t.Run("sentence colon is not a name", func(t *testing.T) {
		utterances := []transcription.Utterance{
			{Speaker: "SPEAKER_1", Text: "la cifra es clara: 40 por ciento"},
		}

		got := Encode(utterances)
		assert.Equal(t, "SPEAKER 1: la cifra es clara: 40 por ciento", got)
	})
}

func TestDecode(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Decode(""))
		assert.Nil(t, Decode("   \n\n  "))
	})

	t.Run("parses annotated paragraphs", func(t *testing.T) {
		text := "SPEAKER 1: Hola a todos.\n\nSPEAKER 2: Buenas tardes."

		got := Decode(text)
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].Speaker)
		assert.Equal(t, "Hola a todos.", got[0].Text)
		assert.Equal(t, "2", got[1].Speaker)
		assert.Equal(t, "Buenas tardes.", got[1].Text)
	})

	t.Run("synthesizes ordered placeholder timestamps", func(t *testing.T) {
		text := "SPEAKER 1: uno\n\nSPEAKER 2: dos\n\nSPEAKER 1: tres"

		got := Decode(text)
		require.Len(t, got, 3)
		for i, u := range got {
			assert.Equal(t, int64(i)*placeholderSpacingMs, u.StartMs)
			assert.Equal(t, int64(i+1)*placeholderSpacingMs, u.EndMs)
		}
	})

	t.Run("block without speaker prefix gets sentinel id", func(t *testing.T) {
		text := "SPEAKER 1: Hola.\n\nun párrafo sin hablante"

		got := Decode(text)
		require.Len(t, got, 2)
		assert.Equal(t, sentinelSpeaker, got[1].Speaker)
		assert.Equal(t, "un párrafo sin hablante", got[1].Text)
	})

	t.Run("folds parenthetical name into body", func(t *testing.T) {
		got := Decode("SPEAKER 1 (Juan Pérez): Buenas tardes")
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].Speaker)
		assert.Equal(t, "Juan Pérez: Buenas tardes", got[0].Text)
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{
			name: "plain speakers",
			text: "SPEAKER 1: Hola a todos.\n\nSPEAKER 2: Buenas tardes.",
		},
		{
			name: "tv content with inline names",
			text: "SPEAKER 1 (Juan Pérez): Juan Pérez: Buenas tardes\n\nSPEAKER 2 (María López): María López: Gracias por la invitación",
		},
		{
			name: "mixed annotated and inline",
			text: "SPEAKER 1: informe del día\n\nSPEAKER 2 (Carlos Ruiz): Carlos Ruiz: estamos en vivo",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded := Decode(tc.text)
			require.NotEmpty(t, decoded)
			assert.Equal(t, tc.text, Encode(decoded))
		})
	}
}

func TestFormatPlainTextAsSpeaker(t *testing.T) {
	t.Run("prefixes each paragraph", func(t *testing.T) {
		got := FormatPlainTextAsSpeaker("primer párrafo\n\nsegundo párrafo")
		assert.Equal(t, "SPEAKER 1: primer párrafo\n\nSPEAKER 1: segundo párrafo", got)
	})

	t.Run("idempotent on annotated text", func(t *testing.T) {
		text := "SPEAKER 1: hola\n\nSPEAKER 2: adiós"
		once := FormatPlainTextAsSpeaker(text)
		assert.Equal(t, text, once)
		assert.Equal(t, once, FormatPlainTextAsSpeaker(once))
	})

	t.Run("empty input still gets a prefix", func(t *testing.T) {
		assert.Equal(t, "SPEAKER 1: ", FormatPlainTextAsSpeaker(""))
	})
}
