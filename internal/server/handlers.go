package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/engine"
	"github.com/tabvc/tabvc/internal/operations"
	"github.com/tabvc/tabvc/internal/translator"
	"io"
	"mime/multipart"
	"net/http"
)

type service interface {
	CreateSession(name string) engine.Session
	CreateEmptyWorkbook(sessionID, filename, sheetName string) (*engine.WorkbookInfo, error)
	UploadWorkbook(sessionID, filename string, data []byte) (*engine.WorkbookInfo, error)
	Preview(sessionID, filename, sheetName string, limit int) (*engine.Preview, error)
	ApplyOperations(sessionID, filename, message string,
		ops []operations.Operation) (*engine.ApplyResult, error)
	History(sessionID, filename string) ([]engine.CommitSummary, error)
	Rollback(sessionID, filename, commitID string) (*engine.CommitSummary, error)
	Export(sessionID, filename, format string) (*engine.Export, error)
	Batch(sessionID, message string, ops []operations.Operation,
		files []engine.File) ([]engine.BatchResult, error)
	Parse(ctx context.Context, text, defaultSheet string) (*translator.Result, error)
}

type handlers struct {
	service service
}

type createSessionRequest struct {
	Name string `json:"name"`
}

type createEmptyRequest struct {
	Filename  string `json:"filename"`
	SheetName string `json:"sheet_name"`
}

type previewRequest struct {
	Sheet string `json:"sheet"`
	Limit int    `json:"limit" binding:"omitempty,min=1,max=1000"`
}

type operationsRequest struct {
	Message    string          `json:"message"`
	Operations operations.List `json:"operations"`
}

type rollbackRequest struct {
	CommitID string `json:"commit_id" binding:"required"`
}

type parseRequest struct {
	Message string `json:"message" binding:"required"`
	Sheet   string `json:"sheet"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handlers) createSession(c *gin.Context) {
	var req createSessionRequest
	if !bindOptional(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.service.CreateSession(req.Name))
}

func (h *handlers) createEmpty(c *gin.Context) {
	var req createEmptyRequest
	if !bindOptional(c, &req) {
		return
	}
	info, err := h.service.CreateEmptyWorkbook(c.Param("session"), req.Filename, req.SheetName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handlers) upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, fmt.Errorf("%w: %v", ErrMissingFile, err))
		return
	}
	data, err := readFile(header)
	if err != nil {
		fail(c, err)
		return
	}
	info, err := h.service.UploadWorkbook(c.Param("session"), header.Filename, data)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handlers) preview(c *gin.Context) {
	var req previewRequest
	if !bindOptional(c, &req) {
		return
	}
	p, err := h.service.Preview(c.Param("session"), c.Param("filename"), req.Sheet, req.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) applyOperations(c *gin.Context) {
	var req operationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, payloadError(err))
		return
	}
	res, err := h.service.ApplyOperations(c.Param("session"), c.Param("filename"), req.Message,
		req.Operations)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) history(c *gin.Context) {
	commits, err := h.service.History(c.Param("session"), c.Param("filename"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commits": commits})
}

func (h *handlers) rollback(c *gin.Context) {
	var req rollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, payloadError(err))
		return
	}
	commit, err := h.service.Rollback(c.Param("session"), c.Param("filename"), req.CommitID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commit": commit})
}

func (h *handlers) export(c *gin.Context) {
	out, err := h.service.Export(c.Param("session"), c.Param("filename"),
		c.DefaultQuery("format", engine.FormatXLSX))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.MediaType, out.Data)
}

func (h *handlers) batch(c *gin.Context) {
	var req operationsRequest
	if err := json.Unmarshal([]byte(c.PostForm("payload")), &req); err != nil {
		fail(c, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, fmt.Errorf("%w: %v", ErrMissingFile, err))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		fail(c, ErrMissingFile)
		return
	}

	files := make([]engine.File, 0, len(headers))
	for _, header := range headers {
		data, err := readFile(header)
		if err != nil {
			fail(c, err)
			return
		}
		files = append(files, engine.File{Filename: header.Filename, Data: data})
	}

	results, err := h.service.Batch(c.Param("session"), req.Message, req.Operations, files)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *handlers) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, payloadError(err))
		return
	}
	res, err := h.service.Parse(c.Request.Context(), req.Message, req.Sheet)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindOptional binds a JSON body that may be absent. It reports false after writing an error.
func bindOptional(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		fail(c, payloadError(err))
		return false
	}
	return true
}

// payloadError keeps operation decode errors and reports everything else as a bad payload.
func payloadError(err error) error {
	if errors.Is(err, operations.ErrInvalidOperation) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
}

func fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("request rejected")
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": code})
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
