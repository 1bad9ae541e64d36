package summary

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	domainsvcs "github.com/ghuser/salesdesk/services/sales/domain/services"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini summarizes through the Google GenAI SDK.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	company     string
	dailyTarget int
}

// GeminiOptions configures NewGemini.
type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string // optional override of the API endpoint
	MaxTokens   int
	Temperature float64
	Company     string
	DailyTarget int
}

// NewGemini creates the client. It does not contact the API.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if opts.Model == "" {
		opts.Model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       opts.Model,
		maxTokens:   int32(opts.MaxTokens),
		temperature: float32(opts.Temperature),
		company:     opts.Company,
		dailyTarget: opts.DailyTarget,
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Summarize generates the narrative for r.
func (g *Gemini) Summarize(ctx context.Context, r *models.Report) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(domainsvcs.SummaryUserPrompt(r, g.company, g.dailyTarget), genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(domainsvcs.SummarySystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %w", salesdomain.ErrProvider, err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty gemini response", salesdomain.ErrProvider)
	}
	return text, nil
}
