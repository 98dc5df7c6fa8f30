package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/appinventory/internal/observability/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const systemInstruction = `You write catalog descriptions for internal data applications.
Reply with two or three plain sentences describing what the app most likely does
and who would use it. Do not use markdown, lists or headings.`

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GenAISummarizer struct {
	models  generator
	model   string
	timeout time.Duration
	log     *zap.Logger
}

func NewGenAI(ctx context.Context, apiKey, model string, timeout time.Duration, log *zap.Logger) (*GenAISummarizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenAI(client.Models, model, timeout, log), nil
}

func newGenAI(models generator, model string, timeout time.Duration, log *zap.Logger) *GenAISummarizer {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GenAISummarizer{
		models:  models,
		model:   model,
		timeout: timeout,
		log:     log.Named("summarizer.genai"),
	}
}

func (g *GenAISummarizer) Summarize(ctx context.Context, location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return Sentinel("location is required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	temperature := float32(0.2)
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt(location)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       &temperature,
	})
	if err != nil {
		logger.WithContext(ctx, g.log).Warn("summary request failed", zap.String("location", location), zap.Error(err))
		return Sentinel(err.Error())
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Sentinel("the model returned an empty summary")
	}
	return text
}

func prompt(location string) string {
	parts := strings.FieldsFunc(location, func(r rune) bool { return r == '.' || r == '/' })
	name := location
	if len(parts) > 0 {
		name = parts[len(parts)-1]
	}
	return fmt.Sprintf("Describe the internal app %q deployed at %q.", strings.ReplaceAll(name, "_", " "), location)
}
