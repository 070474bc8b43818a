package enhance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/models"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// contentGenerator is the part of *genai.Models the enhancer calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is an Enhancer backed by the Gemini API.
type Gemini struct {
	models     contentGenerator
	model      string
	timeout    time.Duration
	maxRetries int
	sleep      func(time.Duration)
	logger     logger.Logger
}

// NewGemini creates a Gemini enhancer. An empty model selects the default.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, log logger.Logger) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, model, timeout, log), nil
}

func newGemini(models contentGenerator, model string, timeout time.Duration, log logger.Logger) *Gemini {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Gemini{
		models:     models,
		model:      model,
		timeout:    timeout,
		maxRetries: 2,
		sleep:      time.Sleep,
		logger:     log.WithFields(map[string]interface{}{"model": model}),
	}
}

func (g *Gemini) Model() string { return g.model }

// Enhance asks the model for a recommendation. Server-side and rate-limit
// failures are retried with a linear back-off.
func (g *Gemini) Enhance(ctx context.Context, c models.CandidateFeatures, j models.JobCriteria, res models.MatchResult) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       genai.Ptr[float32](0.2),
		MaxOutputTokens:   256,
	}
	contents := genai.Text(buildPrompt(c, j, res))

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			g.sleep(time.Duration(attempt) * time.Second)
		}

		resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			text := responseText(resp)
			if text == "" {
				return "", apperrors.NewEnhancerError(errors.New("empty response"))
			}
			return text, nil
		}

		lastErr = err
		if !isTemporary(err) || ctx.Err() != nil {
			break
		}
		g.logger.Debug("gemini call failed, retrying", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err,
		})
	}
	if ctx.Err() != nil {
		return "", apperrors.NewTimeoutError("gemini_enhance", ctx.Err())
	}
	return "", apperrors.NewEnhancerError(lastErr)
}

func isTemporary(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
