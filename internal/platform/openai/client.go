package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/studyplan-backend/internal/domain/planning"
	"github.com/yungbote/studyplan-backend/internal/platform/httpx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

var (
	// ErrNotConfigured means no API key was provided.
	ErrNotConfigured = errors.New("plan generator not configured")
	// ErrPlanGeneration covers every failure to obtain a usable plan from the model.
	ErrPlanGeneration = errors.New("plan generation failed")
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// PlanRequest is the syllabus to decompose.
type PlanRequest struct {
	SubjectName    string
	UniversityName string
	SyllabusText   string
}

// PlanGenerator turns a syllabus into a validated, normalized learning plan.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (planning.LearningPlanDocument, error)
}

type Client struct {
	log        *logger.Logger
	api        *goopenai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryBase  time.Duration
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNotConfigured
	}

	oc := goopenai.DefaultConfig(key)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		oc.BaseURL = base
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = time.Second
	}

	return &Client{
		log:        log.With("service", "OpenAIClient"),
		api:        goopenai.NewClientWithConfig(oc),
		model:      model,
		timeout:    timeout,
		maxRetries: retries,
		retryBase:  retryBase,
	}, nil
}

// GeneratePlan asks the model for a plan through a forced create_learning_plan tool call,
// then validates and normalizes the returned document. Resolved video fields are always empty.
func (c *Client) GeneratePlan(ctx context.Context, req PlanRequest) (planning.LearningPlanDocument, error) {
	if strings.TrimSpace(req.SubjectName) == "" || strings.TrimSpace(req.SyllabusText) == "" {
		return planning.LearningPlanDocument{}, fmt.Errorf("%w: subject name and syllabus are required", ErrPlanGeneration)
	}

	schema := planSchema()
	chatReq := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: planSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: planUserPrompt(req)},
		},
		Tools: []goopenai.Tool{{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        planToolName,
				Description: "Create a structured learning plan from the parsed syllabus",
				Parameters:  &schema,
			},
		}},
		ToolChoice: goopenai.ToolChoice{
			Type:     goopenai.ToolTypeFunction,
			Function: goopenai.ToolFunction{Name: planToolName},
		},
	}

	start := time.Now()
	resp, err := c.createWithRetry(ctx, chatReq)
	if err != nil {
		return planning.LearningPlanDocument{}, fmt.Errorf("%w: %w", ErrPlanGeneration, err)
	}

	args, err := toolArguments(resp)
	if err != nil {
		return planning.LearningPlanDocument{}, fmt.Errorf("%w: %w", ErrPlanGeneration, err)
	}
	var doc planning.LearningPlanDocument
	if err := json.Unmarshal([]byte(args), &doc); err != nil {
		return planning.LearningPlanDocument{}, fmt.Errorf("%w: decode plan: %w", ErrPlanGeneration, err)
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return planning.LearningPlanDocument{}, fmt.Errorf("%w: %w", ErrPlanGeneration, err)
	}

	c.log.Info("learning plan generated",
		"subject", doc.SubjectName,
		"units", len(doc.Units),
		"topics", doc.TopicCount(),
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

func (c *Client) createWithRetry(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := httpx.JitterSleep(httpx.Backoff(c.retryBase, 10*time.Second, attempt))
			c.log.Warn("openai call retrying", "attempt", attempt, "wait", wait, "error", lastErr)
			if err := httpx.Sleep(ctx, wait); err != nil {
				return goopenai.ChatCompletionResponse{}, err
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		cancel()
		if err == nil {
			return resp, nil
		}
		lastErr = classify(err)
		if ctx.Err() != nil || !httpx.IsRetryableError(lastErr) {
			break
		}
	}
	return goopenai.ChatCompletionResponse{}, lastErr
}

func toolArguments(resp goopenai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	for _, tc := range resp.Choices[0].Message.ToolCalls {
		if tc.Function.Name == planToolName || tc.Function.Name == "" {
			if strings.TrimSpace(tc.Function.Arguments) == "" {
				return "", fmt.Errorf("empty tool arguments")
			}
			return tc.Function.Arguments, nil
		}
	}
	return "", fmt.Errorf("response has no %s tool call", planToolName)
}

type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string       { return e.err.Error() }
func (e *statusError) Unwrap() error       { return e.err }
func (e *statusError) HTTPStatusCode() int { return e.code }

func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &statusError{code: apiErr.HTTPStatusCode, err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &statusError{code: reqErr.HTTPStatusCode, err: err}
	}
	return err
}
