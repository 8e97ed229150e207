package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prensalab/media-monitor/pkg/transcription"
)

// placeholderSpacingMs is the synthetic spacing between decoded blocks.
// Real timestamps are not recoverable from flat text, so decoded start/end
// values are ordering hints only, never authoritative time positions.
const placeholderSpacingMs = 5000

// sentinelSpeaker tags blocks that carry no recognizable speaker prefix
const sentinelSpeaker = "0"

var (
	// speakerLineRe matches an annotated paragraph head: "SPEAKER <id>:",
	// optionally with a parenthetical display name ("SPEAKER 1 (Juan Pérez):").
	speakerLineRe = regexp.MustCompile(`^SPEAKER\s+(\S+?)(?:\s*\(([^)]+)\))?:\s*`)

	// anySpeakerLineRe detects whether text is already in annotated form
	anySpeakerLineRe = regexp.MustCompile(`(?m)^SPEAKER\s+\S+:`)

	// namePrefixRe matches an inline "<Name>: " prefix that batch-analyzed TV
	// content carries inside the utterance text itself. Names start with an
	// uppercase letter and contain no digits, which keeps ordinary sentence
	// colons from being mistaken for labels.
	namePrefixRe = regexp.MustCompile(`^(\p{Lu}[\p{L}.\- ]{0,60}?):\s+`)

	blankLineRe = regexp.MustCompile(`\n\s*\n`)
)

// speakerNumber extracts the display number from a raw speaker id:
// "speaker_1", "SPEAKER_1" and "SPEAKER 1" all yield "1", a bare id is
// used as is.
func speakerNumber(raw string) string {
	if i := strings.LastIndexAny(raw, "_ "); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// Encode renders utterances as flat annotated text, one paragraph per turn,
// separated by blank lines. When the utterance text begins with an inline
// "<Name>: " label the name is preserved both as a parenthetical annotation
// and inline, since downstream consumers read either form.
func Encode(utterances []transcription.Utterance) string {
	if len(utterances) == 0 {
		return ""
	}

	lines := make([]string, 0, len(utterances))
	for _, u := range utterances {
		num := speakerNumber(u.Speaker)
		if m := namePrefixRe.FindStringSubmatch(u.Text); m != nil {
			lines = append(lines, fmt.Sprintf("SPEAKER %s (%s): %s", num, m[1], u.Text))
		} else {
			lines = append(lines, fmt.Sprintf("SPEAKER %s: %s", num, u.Text))
		}
	}
	return strings.Join(lines, "\n\n")
}

// Decode parses flat annotated text back into utterances. Blocks without a
// recognizable speaker prefix get the sentinel speaker id. Timestamps are
// synthesized at a fixed spacing per block index.
func Decode(text string) []transcription.Utterance {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	blocks := blankLineRe.Split(strings.TrimSpace(text), -1)
	utterances := make([]transcription.Utterance, 0, len(blocks))
	for i, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		speaker := sentinelSpeaker
		body := block
		if m := speakerLineRe.FindStringSubmatch(block); m != nil {
			speaker = m[1]
			body = block[len(m[0]):]
			// A parenthetical name is folded back into the body so the
			// inline form survives a decode/encode round trip.
			if name := m[2]; name != "" && !strings.HasPrefix(body, name+":") {
				body = name + ": " + body
			}
		}

		start := int64(i) * placeholderSpacingMs
		utterances = append(utterances, transcription.Utterance{
			Speaker: speaker,
			Text:    body,
			StartMs: start,
			EndMs:   start + placeholderSpacingMs,
		})
	}
	return utterances
}

// FormatPlainTextAsSpeaker converts unstructured text into annotated form
// under a single-speaker assumption. Text that already carries speaker lines
// is returned unchanged, which makes the helper idempotent.
func FormatPlainTextAsSpeaker(text string) string {
	if anySpeakerLineRe.MatchString(text) {
		return text
	}
	if strings.TrimSpace(text) == "" {
		return "SPEAKER 1: " + text
	}

	paragraphs := blankLineRe.Split(strings.TrimSpace(text), -1)
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, "SPEAKER 1: "+p)
	}
	return strings.Join(out, "\n\n")
}
