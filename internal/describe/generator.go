// Package describe generates promotional rental descriptions with a
// generative text model.
package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// FallbackDescription is returned whenever generation fails.
const FallbackDescription = "A versatile and useful item ready for your next project or adventure!"

// Generation defaults.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 100
)

// ErrEmptyResponse is reported when the model returns no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

const promptTemplate = `
Generate a compelling, short, and enticing rental description for the following item.
Be creative and highlight its potential uses. The description should be a single paragraph, maximum 3 sentences.
Do not use markdown or lists.

Item Name: %q
User's notes: %q

Rental Description:
`

// ContentGenerator is the subset of the genai models API used here.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Result is the outcome of a description request.
type Result struct {
	Text string
	// Fallback is true when Text is FallbackDescription because
	// generation failed.
	Fallback bool
}

// Options tunes the generation request.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxOutputTokens == 0 {
		o.MaxOutputTokens = DefaultMaxOutputTokens
	}
	return o
}

// Generator produces item descriptions. Failures never reach the caller.
type Generator struct {
	models ContentGenerator
	opts   Options
	logger *zap.Logger
}

// NewGenerator creates a Generator on top of an existing model client.
func NewGenerator(models ContentGenerator, opts Options, logger *zap.Logger) *Generator {
	return &Generator{
		models: models,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// NewGeminiGenerator creates a Generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey string, opts Options, logger *zap.Logger) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("creating gemini client: API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return NewGenerator(client.Models, opts, logger), nil
}

// Generate returns a short promotional paragraph for the item, or
// FallbackDescription if the model could not produce one.
func (g *Generator) Generate(ctx context.Context, name, notes string) string {
	return g.Describe(ctx, name, notes).Text
}

// Describe is Generate with the fallback made visible.
func (g *Generator) Describe(ctx context.Context, name, notes string) Result {
	text, err := g.generate(ctx, name, notes)
	if err != nil {
		g.logger.Error("error generating description",
			zap.String("model", g.opts.Model),
			zap.String("item_name", name),
			zap.Error(err),
		)
		return Result{Text: FallbackDescription, Fallback: true}
	}

	return Result{Text: text}
}

func (g *Generator) generate(ctx context.Context, name, notes string) (text string, err error) {
	// The SDK can panic on unexpected payloads; treat that like any other failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generate content: panic: %v", r)
		}
	}()

	resp, err := g.models.GenerateContent(
		ctx,
		g.opts.Model,
		genai.Text(Prompt(name, notes)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(g.opts.Temperature),
			MaxOutputTokens: g.opts.MaxOutputTokens,
			ThinkingConfig: &genai.ThinkingConfig{
				ThinkingBudget: genai.Ptr[int32](0),
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	text = strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// Prompt renders the instruction sent to the model.
func Prompt(name, notes string) string {
	return fmt.Sprintf(promptTemplate, name, notes)
}
