package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	dto "github.com/prensalab/media-monitor/internal/adapter/dto/transcript"
	"github.com/prensalab/media-monitor/internal/usecase/transcript"
)

// EditorHandler serves per-transcription editor session state. The key path
// param is a transcription id or the "draft" sentinel for unsaved work.
type EditorHandler struct {
	service transcript.Service
	logger  *zap.Logger
}

// NewEditorHandler creates an editor handler
func NewEditorHandler(service transcript.Service, logger *zap.Logger) *EditorHandler {
	return &EditorHandler{service: service, logger: logger}
}

// Get godoc
// @Summary      Get editor state
// @Tags         Editor
// @Produce      json
// @Param        key  path      string  true  "Transcription ID or 'draft'"
// @Success      200  {object}  dto.EditorStateResponse
// @Security     BearerAuth
// @Router       /editor/{key} [get]
func (h *EditorHandler) Get(c echo.Context) error {
	key := c.Param("key")

	session, err := h.service.EditorSession(c.Request().Context(), key)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	// A session holding flat text only gets one chance per session to pull
	// structured utterances; failure degrades to synthesized speaker text.
	if warn := session.EnsureUtterances(c.Request().Context()); warn != nil {
		h.logger.Warn("editor continuing without structured utterances",
			zap.String("key", key), zap.Error(warn))
	}

	return HandleSuccess(h.logger, c, editorStateResponse(key, session.State()))
}

// Update godoc
// @Summary      Update editor state
// @Description  Applies text edits and view/edit mode toggles to the session
// @Tags         Editor
// @Accept       json
// @Produce      json
// @Param        key      path      string                        true  "Transcription ID or 'draft'"
// @Param        request  body      dto.UpdateEditorStateRequest  true  "State changes"
// @Success      200      {object}  dto.EditorStateResponse
// @Security     BearerAuth
// @Router       /editor/{key} [put]
func (h *EditorHandler) Update(c echo.Context) error {
	key := c.Param("key")

	var req dto.UpdateEditorStateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	session, err := h.service.EditorSession(c.Request().Context(), key)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	if req.Text != nil {
		session.SetText(ctx, *req.Text)
	}
	if req.ViewMode != nil {
		if err := session.SetViewMode(ctx, transcript.ViewMode(*req.ViewMode)); err != nil {
			return HandleError(h.logger, c, err)
		}
	}
	if req.IsEditing != nil {
		session.SetEditing(ctx, *req.IsEditing)
	}

	return HandleSuccess(h.logger, c, editorStateResponse(key, session.State()))
}

// Reset godoc
// @Summary      Reset editor state
// @Description  Clears the transcript text and persisted view preferences for the key
// @Tags         Editor
// @Param        key  path  string  true  "Transcription ID or 'draft'"
// @Success      200
// @Security     BearerAuth
// @Router       /editor/{key} [delete]
func (h *EditorHandler) Reset(c echo.Context) error {
	key := c.Param("key")

	if err := h.service.ResetEditor(c.Request().Context(), key); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

func editorStateResponse(key string, state transcript.EditorState) dto.EditorStateResponse {
	resp := dto.EditorStateResponse{
		Key:              key,
		Text:             state.Text,
		ViewMode:         string(state.ViewMode),
		IsEditing:        state.IsEditing,
		HasTimestampData: state.HasTimestampData,
	}
	for _, u := range state.Utterances {
		resp.Utterances = append(resp.Utterances, dto.UtteranceResponse{
			Speaker:    u.Speaker,
			Text:       u.Text,
			StartMs:    u.StartMs,
			EndMs:      u.EndMs,
			Confidence: u.Confidence,
		})
	}
	return resp
}
