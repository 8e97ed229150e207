package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	"github.com/prensalab/media-monitor/internal/adapter/dto/common"
	dto "github.com/prensalab/media-monitor/internal/adapter/dto/transcript"
	"github.com/prensalab/media-monitor/internal/domain/entities"
	"github.com/prensalab/media-monitor/internal/domain/repositories"
	"github.com/prensalab/media-monitor/internal/usecase/transcript"
)

// TranscriptionHandler serves transcription CRUD, text editing and export
type TranscriptionHandler struct {
	service transcript.Service
	logger  *zap.Logger
}

// NewTranscriptionHandler creates a transcription handler
func NewTranscriptionHandler(service transcript.Service, logger *zap.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{service: service, logger: logger}
}

// Create godoc
// @Summary      Create transcription
// @Description  Creates a new pending transcription for a monitored media item
// @Tags         Transcriptions
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateTranscriptionRequest  true  "Transcription to create"
// @Success      200      {object}  dto.TranscriptionResponse
// @Security     BearerAuth
// @Router       /transcriptions [post]
func (h *TranscriptionHandler) Create(c echo.Context) error {
	var req dto.CreateTranscriptionRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	t, err := h.service.Create(c.Request().Context(), entities.SourceType(req.SourceType), req.Title)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.NewTranscriptionResponse(t, nil))
}

// Get godoc
// @Summary      Get transcription
// @Tags         Transcriptions
// @Produce      json
// @Param        id   path      string  true  "Transcription ID (UUID)"
// @Success      200  {object}  dto.TranscriptionResponse
// @Security     BearerAuth
// @Router       /transcriptions/{id} [get]
func (h *TranscriptionHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	t, utterances, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.NewTranscriptionResponse(t, utterances))
}

// List godoc
// @Summary      List transcriptions
// @Tags         Transcriptions
// @Produce      json
// @Param        source_type  query     string  false  "Filter by source type"
// @Param        status       query     string  false  "Filter by status"
// @Param        search       query     string  false  "Search in titles"
// @Param        page         query     int     false  "Page number"
// @Param        page_size    query     int     false  "Page size"
// @Success      200          {object}  common.ListResponse
// @Security     BearerAuth
// @Router       /transcriptions [get]
func (h *TranscriptionHandler) List(c echo.Context) error {
	var req dto.ListTranscriptionsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	filters := repositories.TranscriptionFilters{
		Search: req.Search,
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	}
	if req.SourceType != "" {
		st := entities.SourceType(req.SourceType)
		filters.SourceType = &st
	}
	if req.Status != "" {
		status := entities.TranscriptionStatus(req.Status)
		filters.Status = &status
	}

	transcriptions, total, err := h.service.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items := make([]dto.TranscriptionResponse, 0, len(transcriptions))
	for _, t := range transcriptions {
		items = append(items, dto.NewTranscriptionResponse(t, nil))
	}

	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	return HandleSuccess(h.logger, c, common.ListResponse{
		Data: items,
		Pagination: &common.PaginationResponse{
			Page:       req.Page,
			PageSize:   req.PageSize,
			TotalPages: totalPages,
			TotalItems: total,
		},
	})
}

// Delete godoc
// @Summary      Delete transcription
// @Description  Removes a transcription with its utterances, speaker labels and editor state
// @Tags         Transcriptions
// @Param        id  path  string  true  "Transcription ID (UUID)"
// @Success      200
// @Security     BearerAuth
// @Router       /transcriptions/{id} [delete]
func (h *TranscriptionHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// UpdateText godoc
// @Summary      Save edited transcript text
// @Description  Stores the canonical text and re-derives utterances from it
// @Tags         Transcriptions
// @Accept       json
// @Param        id       path  string                 true  "Transcription ID (UUID)"
// @Param        request  body  dto.UpdateTextRequest  true  "New text"
// @Success      200
// @Security     BearerAuth
// @Router       /transcriptions/{id}/text [put]
func (h *TranscriptionHandler) UpdateText(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dto.UpdateTextRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	if err := h.service.UpdateText(c.Request().Context(), id, req.Text); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Export godoc
// @Summary      Export transcript with custom speaker names
// @Description  Renders the transcript substituting custom names for raw speaker ids
// @Tags         Transcriptions
// @Produce      json
// @Param        id   path      string  true  "Transcription ID (UUID)"
// @Success      200  {object}  dto.ExportResponse
// @Security     BearerAuth
// @Router       /transcriptions/{id}/export [get]
func (h *TranscriptionHandler) Export(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	text, err := h.service.Export(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.ExportResponse{
		TranscriptionID: id.String(),
		Text:            text,
	})
}

// parseID reads the :id path param as a UUID
func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidArgument("invalid transcription id")
	}
	return id, nil
}
