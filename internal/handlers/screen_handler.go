package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/export"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

// BatchScreener is the screening pipeline as seen by the HTTP layer.
type BatchScreener interface {
	Screen(ctx context.Context, job models.Job, docs []models.UploadedDocument) (models.ScreeningResult, error)
}

type ScreenHandler struct {
	screener    BatchScreener
	maxFileSize int64
	logger      *zap.Logger
}

func NewScreenHandler(screener BatchScreener, maxFileSize int64, log *zap.Logger) *ScreenHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScreenHandler{
		screener:    screener,
		maxFileSize: maxFileSize,
		logger:      log,
	}
}

// HandleProcess handles POST /api/v1/process-cvs
func (h *ScreenHandler) HandleProcess(c *fiber.Ctx) error {
	result, err := h.screen(c)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(result)
}

// HandleExport handles POST /api/v1/process-cvs/export
func (h *ScreenHandler) HandleExport(c *fiber.Ctx) error {
	result, err := h.screen(c)
	if err != nil {
		return h.writeError(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, result); err != nil {
		return h.writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.FileName(result)))
	return c.Send(buf.Bytes())
}

func (h *ScreenHandler) screen(c *fiber.Ctx) (models.ScreeningResult, error) {
	job, docs, err := h.parseBatch(c)
	if err != nil {
		return models.ScreeningResult{}, err
	}
	return h.screener.Screen(c.UserContext(), job, docs)
}

// parseBatch reads jobTitle, jobDescription and the repeated files field.
func (h *ScreenHandler) parseBatch(c *fiber.Ctx) (models.Job, []models.UploadedDocument, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return models.Job{}, nil, fmt.Errorf("%w: failed to parse multipart form", services.ErrInputValidation)
	}

	job := models.Job{
		Title:       strings.TrimSpace(firstValue(form, "jobTitle")),
		Description: strings.TrimSpace(firstValue(form, "jobDescription")),
	}
	if job.Title == "" || job.Description == "" {
		return models.Job{}, nil, fmt.Errorf("%w: job title and description are required", services.ErrInputValidation)
	}

	files := form.File["files"]
	if len(files) == 0 {
		return models.Job{}, nil, fmt.Errorf("%w: at least one CV file is required", services.ErrInputValidation)
	}

	docs := make([]models.UploadedDocument, 0, len(files))
	for _, file := range files {
		doc, err := services.LoadUpload(file, h.maxFileSize)
		if err != nil {
			return models.Job{}, nil, err
		}
		docs = append(docs, doc)
	}

	return job, docs, nil
}

func (h *ScreenHandler) writeError(c *fiber.Ctx, err error) error {
	if services.IsClientError(err) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Success: false,
			Error:   clientMessage(err),
		})
	}

	h.logger.Error("cv processing failed",
		zap.Any("request_id", c.Locals("requestid")),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Success: false,
		Error:   "Failed to process CVs",
	})
}

// clientMessage drops the sentinel prefix so callers see only the detail.
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{services.ErrInputValidation, services.ErrEmptyResult} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
	}
	return msg
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
