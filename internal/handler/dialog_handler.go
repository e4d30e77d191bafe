package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lecture-attendance-api/internal/dto"
	"github.com/noah-isme/lecture-attendance-api/internal/service"
	"github.com/noah-isme/lecture-attendance-api/internal/view"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
	"github.com/noah-isme/lecture-attendance-api/pkg/response"
)

const defaultDialogWait = 5 * time.Second

type dialogService interface {
	Open(ctx context.Context, req dto.OpenDialogRequest) (*service.DialogSession, error)
	Get(id string) (*service.DialogSession, error)
	Update(ctx context.Context, id string, req dto.UpdateDialogRequest) (*service.DialogSession, error)
	Refresh(id string) (*service.DialogSession, error)
	Close(id string) (*service.DialogSession, error)
	Delete(id string) error
}

// DialogHandler exposes server-held attendance dialogs.
type DialogHandler struct {
	dialogs dialogService
	maxWait time.Duration
}

// NewDialogHandler constructs the handler. maxWait bounds ?wait=true polls.
func NewDialogHandler(dialogs dialogService, maxWait time.Duration) *DialogHandler {
	if maxWait <= 0 {
		maxWait = defaultDialogWait
	}
	return &DialogHandler{dialogs: dialogs, maxWait: maxWait}
}

// Open godoc
// @Summary Open an attendance dialog
// @Description Opens a dialog for a lecture and starts loading its attendance.
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param payload body dto.OpenDialogRequest true "Dialog props"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance-dialogs [post]
func (h *DialogHandler) Open(c *gin.Context) {
	var req dto.OpenDialogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dialog payload"))
		return
	}
	if req.Locale == "" {
		req.Locale = requestLocale(c)
	}
	session, err := h.dialogs.Open(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session.Response(req.Locale))
}

// Get godoc
// @Summary Attendance dialog state
// @Tags Dialogs
// @Produce json
// @Param id path string true "Dialog ID"
// @Param wait query bool false "Block until the pending fetch settles"
// @Param lang query string false "Locale"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance-dialogs/{id} [get]
func (h *DialogHandler) Get(c *gin.Context) {
	session, err := h.dialogs.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if wait, _ := strconv.ParseBool(c.Query("wait")); wait {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.maxWait)
		// A timeout still answers with the current, loading, state.
		_ = session.Dialog.Wait(ctx)
		cancel()
	}
	response.JSON(c, http.StatusOK, session.Response(requestLocale(c)))
}

// HTML godoc
// @Summary Rendered attendance dialog
// @Tags Dialogs
// @Produce html
// @Param id path string true "Dialog ID"
// @Param lang query string false "Locale"
// @Success 200 {string} string
// @Failure 404 {object} response.Envelope
// @Router /attendance-dialogs/{id}/html [get]
func (h *DialogHandler) HTML(c *gin.Context) {
	session, err := h.dialogs.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	locale := requestLocale(c)
	if locale == "" {
		locale = session.Locale
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := view.DialogComponent(session.Dialog.View(locale)).Render(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// Update godoc
// @Summary Update attendance dialog props
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param id path string true "Dialog ID"
// @Param payload body dto.UpdateDialogRequest true "Props to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance-dialogs/{id} [put]
func (h *DialogHandler) Update(c *gin.Context) {
	var req dto.UpdateDialogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dialog payload"))
		return
	}
	session, err := h.dialogs.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session.Response(requestLocale(c)))
}

// Refresh godoc
// @Summary Reload an attendance dialog
// @Description Re-reads the lecture attendance of an open dialog, bypassing the roster cache.
// @Tags Dialogs
// @Produce json
// @Param id path string true "Dialog ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance-dialogs/{id}/refresh [post]
func (h *DialogHandler) Refresh(c *gin.Context) {
	session, err := h.dialogs.Refresh(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session.Response(requestLocale(c)))
}

// Close godoc
// @Summary Dismiss an attendance dialog
// @Description Hides the dialog. Loaded records are kept for the next open.
// @Tags Dialogs
// @Produce json
// @Param id path string true "Dialog ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance-dialogs/{id}/close [post]
func (h *DialogHandler) Close(c *gin.Context) {
	session, err := h.dialogs.Close(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session.Response(requestLocale(c)))
}

// Delete godoc
// @Summary Dispose an attendance dialog
// @Tags Dialogs
// @Param id path string true "Dialog ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /attendance-dialogs/{id} [delete]
func (h *DialogHandler) Delete(c *gin.Context) {
	if err := h.dialogs.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
