package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/fadilmartias/resume-analyzer/internal/logger"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	HeaderHistoryRecorded = "X-History-Recorded"
	HeaderAnalysisID      = "X-Analysis-Id"
)

type AnalysisUsecase interface {
	Submit(ctx context.Context, in usecase.SubmitInput) (*usecase.SubmitResult, error)
	GetByID(ctx context.Context, id string) (*model.Analysis, error)
}

type HistoryUsecase interface {
	ListHistory(ctx context.Context, p usecase.ListParams) (*dto.HistoryDTO, error)
	FilterOptions(ctx context.Context) (*dto.FilterOptionsDTO, error)
}

type AnalysisHandler struct {
	analysis  AnalysisUsecase
	history   HistoryUsecase
	uploadDir string
	maxBytes  int64
}

func NewAnalysisHandler(analysis AnalysisUsecase, history HistoryUsecase, uploadDir string, maxBytes int64) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, history: history, uploadDir: uploadDir, maxBytes: maxBytes}
}

func (h *AnalysisHandler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api")
	api.Post("/analyze", h.Analyze)
	api.Get("/history", h.History)
	api.Get("/history/:id", h.GetByID)
	api.Get("/filter-options", h.FilterOptions)
}

type analyzeRequest struct {
	Text  string `json:"text" form:"text"`
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	const op = "analyze"

	var req analyzeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return util.ErrorResponse(c, apperr.InvalidInput(op, "Malformed request body"))
		}
	}
	// form values may alias the request buffer, which is reused after the handler returns
	in := usecase.SubmitInput{
		Text:  utils.CopyString(req.Text),
		Name:  utils.CopyString(req.Name),
		Email: utils.CopyString(req.Email),
	}

	if file, err := c.FormFile("resume"); err == nil {
		if file.Size > h.maxBytes {
			return util.ErrorResponse(c, apperr.InvalidInput(op, fmt.Sprintf("File is too large (max %d bytes)", h.maxBytes)))
		}
		mediaType := util.ResolveMediaType(file.Header.Get(fiber.HeaderContentType), file.Filename)
		if !util.IsSupportedMediaType(mediaType) {
			return util.ErrorResponse(c, apperr.UnsupportedMediaType(op, mediaType))
		}

		path, err := h.stage(file)
		if path != "" {
			defer removeStaged(path)
		}
		if err != nil {
			logger.Error().Str("op", op).Str("kind", "internal").Err(err).Msg("failed to stage upload")
			return util.ErrorResponse(c, err)
		}
		in.File = &usecase.StagedFile{Path: path, MediaType: mediaType}
	}

	res, err := h.analysis.Submit(c.UserContext(), in)
	if err != nil {
		return util.ErrorResponse(c, err)
	}

	c.Set(HeaderHistoryRecorded, strconv.FormatBool(res.Recorded))
	if res.Recorded {
		c.Set(HeaderAnalysisID, res.ID.String())
	}
	return util.SuccessResponse(c, fiber.StatusOK, res.Summary)
}

// stage copies the upload into a fresh temp file. A non-empty path is returned
// whenever a file was created, even on error, so the caller can remove it.
func (h *AnalysisHandler) stage(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o700); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(h.uploadDir, "resume-*"+filepath.Ext(filepath.Base(file.Filename)))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()

	src, err := file.Open()
	if err != nil {
		_ = tmp.Close()
		return path, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(tmp, io.LimitReader(src, h.maxBytes)); err != nil {
		_ = tmp.Close()
		return path, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return path, fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func removeStaged(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Str("op", "analyze").Str("path", path).Err(err).Msg("failed to remove staged upload")
	}
}

func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	params, err := usecase.ParseListParams(usecase.ListQuery{
		Page:           c.Query("page"),
		Limit:          c.Query("limit"),
		Skills:         c.Query("skills"),
		SuggestedRoles: c.Query("suggested_roles"),
		MinScore:       c.Query("minScore"),
		MaxScore:       c.Query("maxScore"),
		SortBy:         c.Query("sortBy"),
		SortOrder:      c.Query("sortOrder"),
	})
	if err != nil {
		return util.ErrorResponse(c, err)
	}

	out, err := h.history.ListHistory(c.UserContext(), params)
	if err != nil {
		return util.ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, fiber.StatusOK, out)
}

func (h *AnalysisHandler) GetByID(c *fiber.Ctx) error {
	a, err := h.analysis.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, fiber.StatusOK, dto.NewAnalysisDetailDTO(*a))
}

func (h *AnalysisHandler) FilterOptions(c *fiber.Ctx) error {
	opts, err := h.history.FilterOptions(c.UserContext())
	if err != nil {
		return util.ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, fiber.StatusOK, opts)
}
