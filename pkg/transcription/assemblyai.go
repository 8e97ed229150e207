package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/prensalab/media-monitor/pkg/config"
)

// AssemblyAIClient submits media for transcription with speaker labels and
// retrieves completed results.
type AssemblyAIClient struct {
	sdk    *aai.Client
	cfg    *config.AssemblyAIConfig
	logger *zap.Logger
}

// NewAssemblyAIClient creates a client using the provided config
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, logger *zap.Logger) *AssemblyAIClient {
	return &AssemblyAIClient{
		sdk:    aai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// Submit uploads media content and requests a diarized transcription. The
// provider calls back on the configured webhook when done. Returns the
// provider job id. Submission is retried with exponential backoff since
// uploads are the flakiest leg.
func (c *AssemblyAIClient) Submit(ctx context.Context, media io.Reader) (string, error) {
	var providerID string

	submitFn := func() error {
		uploadURL, err := c.sdk.Upload(ctx, media)
		if err != nil {
			return fmt.Errorf("failed to upload media: %w", err)
		}

		params := &aai.TranscriptOptionalParams{
			SpeakerLabels:     aai.Bool(true),
			LanguageDetection: aai.Bool(true),
		}
		if c.cfg.WebhookURL != "" {
			params.WebhookURL = &c.cfg.WebhookURL
		}

		t, err := c.sdk.Transcripts.SubmitFromURL(ctx, uploadURL, params)
		if err != nil {
			return fmt.Errorf("failed to submit transcription: %w", err)
		}
		if t.ID != nil {
			providerID = *t.ID
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}

	c.logger.Info("submitted media for transcription",
		zap.String("provider_id", providerID))
	return providerID, nil
}

// SubmitURL requests a diarized transcription of an already accessible URL
// (e.g. a presigned object-storage link).
func (c *AssemblyAIClient) SubmitURL(ctx context.Context, mediaURL string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels:     aai.Bool(true),
		LanguageDetection: aai.Bool(true),
	}
	if c.cfg.WebhookURL != "" {
		params.WebhookURL = &c.cfg.WebhookURL
	}

	t, err := c.sdk.Transcripts.SubmitFromURL(ctx, mediaURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcription: %w", err)
	}
	if t.ID == nil {
		return "", fmt.Errorf("provider returned no transcript id")
	}
	return *t.ID, nil
}

// FetchResult retrieves a completed transcription as a Result. Transient
// provider errors are retried with exponential backoff.
func (c *AssemblyAIClient) FetchResult(ctx context.Context, providerID string) (Result, error) {
	var transcript aai.Transcript

	fetchFn := func() error {
		t, err := c.sdk.Transcripts.Get(ctx, providerID)
		if err != nil {
			return err
		}
		if t.Status == aai.TranscriptStatusError {
			msg := "transcription failed"
			if t.Error != nil {
				msg = *t.Error
			}
			return backoff.Permanent(fmt.Errorf("%s", msg))
		}
		if t.Status != aai.TranscriptStatusCompleted {
			return fmt.Errorf("transcript %s not ready (status %s)", providerID, t.Status)
		}
		transcript = t
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 15 * time.Second
	bo.MaxElapsedTime = time.Minute

	if err := backoff.Retry(fetchFn, backoff.WithContext(bo, ctx)); err != nil {
		return Result{}, err
	}

	return resultFromTranscript(transcript), nil
}

func resultFromTranscript(t aai.Transcript) Result {
	var res Result
	if t.Text != nil {
		res.Text = *t.Text
	}
	if t.LanguageCode != "" {
		res.Language = string(t.LanguageCode)
	}
	for _, u := range t.Utterances {
		var ut Utterance
		if u.Speaker != nil {
			ut.Speaker = *u.Speaker
		}
		if u.Text != nil {
			ut.Text = *u.Text
		}
		if u.Start != nil {
			ut.StartMs = *u.Start
		}
		if u.End != nil {
			ut.EndMs = *u.End
		}
		if u.Confidence != nil {
			ut.Confidence = *u.Confidence
		}
		res.Utterances = append(res.Utterances, ut)
	}
	return res
}

// WebhookEvent is the payload AssemblyAI posts on completion
type WebhookEvent struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
}

// ParseWebhook decodes a completion webhook payload. Older payloads carry
// the id under "id" instead of "transcript_id".
func ParseWebhook(payload []byte) (WebhookEvent, error) {
	var body struct {
		TranscriptID string `json:"transcript_id"`
		ID           string `json:"id"`
		Status       string `json:"status"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return WebhookEvent{}, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	ev := WebhookEvent{TranscriptID: body.TranscriptID, Status: body.Status}
	if ev.TranscriptID == "" {
		ev.TranscriptID = body.ID
	}
	if ev.TranscriptID == "" {
		return WebhookEvent{}, fmt.Errorf("transcript id missing in webhook")
	}
	return ev, nil
}
