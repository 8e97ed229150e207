package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prensalab/media-monitor/pkg/transcription"
)

// DisplayNameFunc resolves a raw speaker id to a display name. It returns a
// generic "Speaker <n>" fallback when no custom name is stored.
type DisplayNameFunc func(originalSpeaker string) string

// flatSpeakerLabelRe matches a "SPEAKER <n>:" label at a line start,
// tolerating the parenthetical name annotation of TV content. Substitution
// is anchored to line starts so utterance body text is never rewritten.
var flatSpeakerLabelRe = regexp.MustCompile(`(?mi)^SPEAKER[ _](\d+)\b\s*(?:\([^)]*\)\s*)?:`)

// genericNameRe recognizes the Label Store's fallback naming so the prober
// can tell a real custom name from the default.
var genericNameRe = regexp.MustCompile(`^Speaker\s+\S+$`)

// Format produces a copy/export-ready rendering of a transcript with custom
// speaker names substituted for raw ids.
//
// While labels are still loading the text is returned untouched; guessing
// names mid-load would flash wrong names at the user. Utterances are the
// preferred path since they carry a stable raw speaker id; the flat-text
// fallback has to probe several raw-id spellings because upstream sources
// persist the same conceptual speaker under different shapes.
func Format(text string, utterances []transcription.Utterance, getDisplayName DisplayNameFunc, isLoading bool) string {
	if isLoading {
		return text
	}

	if len(utterances) > 0 {
		lines := make([]string, 0, len(utterances))
		for _, u := range utterances {
			lines = append(lines, fmt.Sprintf("%s: %s", getDisplayName(u.Speaker), u.Text))
		}
		return strings.Join(lines, "\n\n")
	}

	if text == "" {
		return text
	}

	matches := flatSpeakerLabelRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text
	}

	names := make(map[string]string)
	for _, m := range matches {
		num := m[1]
		if _, ok := names[num]; ok {
			continue
		}
		names[num] = resolveName(num, getDisplayName)
	}

	return flatSpeakerLabelRe.ReplaceAllStringFunc(text, func(label string) string {
		m := flatSpeakerLabelRe.FindStringSubmatch(label)
		if m == nil {
			return label
		}
		return names[m[1]] + ":"
	})
}

// resolveName probes the candidate raw-id spellings for a numeric speaker id
// in priority order and accepts the first that yields a real custom name.
// When none does, the canonical "SPEAKER_<n>" spelling decides, which may
// legitimately return the generic fallback.
func resolveName(num string, getDisplayName DisplayNameFunc) string {
	candidates := []string{
		"SPEAKER_" + num,
		"SPEAKER " + num,
		num,
		"speaker_" + num,
	}
	for _, candidate := range candidates {
		if name := getDisplayName(candidate); !genericNameRe.MatchString(name) {
			return name
		}
	}
	return getDisplayName("SPEAKER_" + num)
}
