package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	dto "github.com/prensalab/media-monitor/internal/adapter/dto/transcript"
	"github.com/prensalab/media-monitor/internal/usecase/transcript"
)

// SpeakerHandler serves the speaker-label naming surface
type SpeakerHandler struct {
	service transcript.Service
	logger  *zap.Logger
}

// NewSpeakerHandler creates a speaker label handler
func NewSpeakerHandler(service transcript.Service, logger *zap.Logger) *SpeakerHandler {
	return &SpeakerHandler{service: service, logger: logger}
}

// List godoc
// @Summary      List speaker labels
// @Tags         Speakers
// @Produce      json
// @Param        id   path      string  true  "Transcription ID (UUID)"
// @Success      200  {object}  dto.SpeakerLabelsResponse
// @Security     BearerAuth
// @Router       /transcriptions/{id}/speakers [get]
func (h *SpeakerHandler) List(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	labels, err := h.service.Labels(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.SpeakerLabelsResponse{
		TranscriptionID: id.String(),
		Labels:          labels,
	})
}

// Save godoc
// @Summary      Name a speaker
// @Description  Upserts the custom name for a raw speaker id; a blank name deletes the label
// @Tags         Speakers
// @Accept       json
// @Param        id       path  string                       true  "Transcription ID (UUID)"
// @Param        request  body  dto.SaveSpeakerLabelRequest  true  "Speaker label"
// @Success      200
// @Security     BearerAuth
// @Router       /transcriptions/{id}/speakers [put]
func (h *SpeakerHandler) Save(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dto.SaveSpeakerLabelRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	if err := h.service.SaveLabel(c.Request().Context(), id, req.OriginalSpeaker, req.CustomName); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Delete godoc
// @Summary      Remove a speaker name
// @Tags         Speakers
// @Param        id       path  string  true  "Transcription ID (UUID)"
// @Param        speaker  path  string  true  "Raw speaker id"
// @Success      200
// @Security     BearerAuth
// @Router       /transcriptions/{id}/speakers/{speaker} [delete]
func (h *SpeakerHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	speaker := c.Param("speaker")
	if speaker == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("speaker id is required"))
	}

	if err := h.service.DeleteLabel(c.Request().Context(), id, speaker); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Clear godoc
// @Summary      Reset all speaker names
// @Description  Removes every custom name for the transcription; requires explicit confirmation
// @Tags         Speakers
// @Accept       json
// @Param        id       path  string                         true  "Transcription ID (UUID)"
// @Param        request  body  dto.ClearSpeakerLabelsRequest  true  "Confirmation"
// @Success      200
// @Security     BearerAuth
// @Router       /transcriptions/{id}/speakers/clear [post]
func (h *SpeakerHandler) Clear(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dto.ClearSpeakerLabelsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if !req.Confirm {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("confirmation is required to reset all names"))
	}

	if err := h.service.ClearLabels(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}
