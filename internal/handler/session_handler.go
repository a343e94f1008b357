package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rinsetu/internal/service"
)

// maxUploadBytes caps a single document upload at 20MB.
const maxUploadBytes = 20 << 20

// SessionHandler handles verification session endpoints.
type SessionHandler struct {
	evalService   service.EvaluationService
	reportService service.ReportService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(evalService service.EvaluationService, reportService service.ReportService) *SessionHandler {
	return &SessionHandler{evalService: evalService, reportService: reportService}
}

// CreateSessionRequest is the body for POST /api/v1/sessions.
type CreateSessionRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	sess, err := h.evalService.CreateSession(c.Request.Context(), userID, req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, sess)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	sess, err := h.evalService.GetSession(c.Request.Context(), sessionID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sess)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	if err := h.evalService.DeleteSession(c.Request.Context(), sessionID, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "session deleted"})
}

// UploadDocument handles POST /api/v1/sessions/:id/documents
// Accepts multipart form data: file (required), document_type (optional hint).
func (h *SessionHandler) UploadDocument(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, maxUploadBytes)); err != nil {
		RespondError(c, http.StatusBadRequest, "READ_FAILED", "could not read uploaded file")
		return
	}

	input := service.AddDocumentInput{
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		FileBytes:    buf.Bytes(),
		DocumentType: c.PostForm("document_type"),
	}

	doc, err := h.evalService.AddDocument(c.Request.Context(), sessionID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// Evaluate handles POST /api/v1/sessions/:id/evaluate
func (h *SessionHandler) Evaluate(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	sess, err := h.evalService.Evaluate(c.Request.Context(), sessionID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sess)
}

// GetDecision handles GET /api/v1/sessions/:id/decision
func (h *SessionHandler) GetDecision(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	decision, err := h.evalService.GetDecision(c.Request.Context(), sessionID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, decision)
}

// GetConsistency handles GET /api/v1/sessions/:id/consistency
func (h *SessionHandler) GetConsistency(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	report, err := h.evalService.GetConsistencyReport(c.Request.Context(), sessionID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// GetIncome handles GET /api/v1/sessions/:id/income
func (h *SessionHandler) GetIncome(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	profile, err := h.evalService.GetIncomeProfile(c.Request.Context(), sessionID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, profile)
}

// GetCredit handles GET /api/v1/sessions/:id/credit
func (h *SessionHandler) GetCredit(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	breakdown, err := h.evalService.GetCreditBreakdown(c.Request.Context(), sessionID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, breakdown)
}

// ExportCSV handles GET /api/v1/sessions/:id/export/csv
func (h *SessionHandler) ExportCSV(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.reportService.ExportCSV(c.Request.Context(), sessionID, userID, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/v1/sessions/:id/export/xlsx
func (h *SessionHandler) ExportXLSX(c *gin.Context) {
	userID, sessionID, ok := h.sessionContext(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.reportService.ExportXLSX(c.Request.Context(), sessionID, userID, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ListAudits handles GET /api/v1/audits
func (h *SessionHandler) ListAudits(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	entries, total, err := h.reportService.ListAudits(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// sessionContext pulls the authenticated user and the :id path parameter.
func (h *SessionHandler) sessionContext(c *gin.Context) (userID, sessionID uuid.UUID, ok bool) {
	userID, _, ok = extractAuthContext(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid session id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, sessionID, true
}
