package transcript

// CreateTranscriptionRequest creates a new monitored media item
type CreateTranscriptionRequest struct {
	SourceType string `json:"source_type" validate:"required,oneof=press radio tv social"`
	Title      string `json:"title" validate:"max=255"`
}

// ListTranscriptionsRequest filters the transcription listing
type ListTranscriptionsRequest struct {
	SourceType string `query:"source_type" validate:"omitempty,oneof=press radio tv social"`
	Status     string `query:"status" validate:"omitempty,oneof=pending processing completed failed"`
	Search     string `query:"search"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// UpdateTextRequest saves an edited transcript text
type UpdateTextRequest struct {
	Text string `json:"text"`
}

// SaveSpeakerLabelRequest names one raw speaker. A blank name removes the
// label.
type SaveSpeakerLabelRequest struct {
	OriginalSpeaker string `json:"original_speaker" validate:"required,max=50,speaker_id"`
	CustomName      string `json:"custom_name" validate:"max=255"`
}

// ClearSpeakerLabelsRequest resets all names; Confirm guards against
// accidental bulk deletes.
type ClearSpeakerLabelsRequest struct {
	Confirm bool `json:"confirm" validate:"required"`
}

// UpdateEditorStateRequest mutates the editor session
type UpdateEditorStateRequest struct {
	Text      *string `json:"text,omitempty"`
	ViewMode  *string `json:"view_mode,omitempty" validate:"omitempty,oneof=interactive edit"`
	IsEditing *bool   `json:"is_editing,omitempty"`
}

// SubmitMediaRequest submits an already uploaded media URL for transcription
type SubmitMediaRequest struct {
	MediaURL string `json:"media_url" validate:"required,url"`
}
