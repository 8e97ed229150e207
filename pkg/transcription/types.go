package transcription

// Utterance is one continuous speech turn as delivered by a transcription
// provider. Speaker carries the raw identifier exactly as produced upstream;
// different sources use different shapes ("1", "SPEAKER_1", "SPEAKER 1") for
// the same conceptual speaker.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	StartMs    int64   `json:"start"`
	EndMs      int64   `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Result is the payload a transcription source delivers for one media item.
// Utterances may be empty when the provider ran without speaker diarization.
type Result struct {
	Text       string      `json:"text"`
	Utterances []Utterance `json:"utterances,omitempty"`
	Language   string      `json:"language,omitempty"`
}

// HasUtterances reports whether the result carries structured speaker turns
func (r Result) HasUtterances() bool {
	return len(r.Utterances) > 0
}
