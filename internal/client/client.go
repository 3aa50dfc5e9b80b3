package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/domain/fiber/handler"
	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/go-resty/resty/v2"
)

// Client talks to the resume analysis HTTP API.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Kind, e.Message)
}

// AnalyzeRequest carries either pasted Text or a FilePath to upload. FilePath wins.
type AnalyzeRequest struct {
	Name     string
	Email    string
	Text     string
	FilePath string
}

type AnalyzeResult struct {
	Summary  model.AiSummary
	ID       string
	Recorded bool
}

type HistoryQuery struct {
	Page           int
	Limit          int
	Skills         []string
	SuggestedRoles []string
	MinScore       *float64
	MaxScore       *float64
	SortBy         string
	SortOrder      string
}

func (q HistoryQuery) params() map[string]string {
	p := map[string]string{}
	if q.Page > 0 {
		p["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		p["limit"] = strconv.Itoa(q.Limit)
	}
	if len(q.Skills) > 0 {
		p["skills"] = strings.Join(q.Skills, ",")
	}
	if len(q.SuggestedRoles) > 0 {
		p["suggested_roles"] = strings.Join(q.SuggestedRoles, ",")
	}
	if q.MinScore != nil {
		p["minScore"] = strconv.FormatFloat(*q.MinScore, 'f', -1, 64)
	}
	if q.MaxScore != nil {
		p["maxScore"] = strconv.FormatFloat(*q.MaxScore, 'f', -1, 64)
	}
	if q.SortBy != "" {
		p["sortBy"] = q.SortBy
	}
	if q.SortOrder != "" {
		p["sortOrder"] = q.SortOrder
	}
	return p
}

func (c *Client) Analyze(ctx context.Context, in AnalyzeRequest) (*AnalyzeResult, error) {
	form := map[string]string{}
	if in.Name != "" {
		form["name"] = in.Name
	}
	if in.Email != "" {
		form["email"] = in.Email
	}

	var summary model.AiSummary
	req := c.http.R().SetContext(ctx).SetResult(&summary).SetError(&util.ErrorBody{})
	if in.FilePath != "" {
		req.SetFile("resume", in.FilePath)
	} else {
		form["text"] = in.Text
	}
	req.SetFormData(form)

	resp, err := req.Post("/api/analyze")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &AnalyzeResult{
		Summary:  summary,
		ID:       resp.Header().Get(handler.HeaderAnalysisID),
		Recorded: resp.Header().Get(handler.HeaderHistoryRecorded) == "true",
	}, nil
}

func (c *Client) History(ctx context.Context, q HistoryQuery) (*dto.HistoryDTO, error) {
	var out dto.HistoryDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(q.params()).
		SetResult(&out).
		SetError(&util.ErrorBody{}).
		Get("/api/history")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*dto.AnalysisDetailDTO, error) {
	var out dto.AnalysisDetailDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		SetError(&util.ErrorBody{}).
		Get("/api/history/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FilterOptions(ctx context.Context) (*dto.FilterOptionsDTO, error) {
	var out dto.FilterOptionsDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&util.ErrorBody{}).
		Get("/api/filter-options")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status(), Kind: "internal"}
	if body, ok := resp.Error().(*util.ErrorBody); ok && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Kind = body.Kind
	}
	return apiErr
}
