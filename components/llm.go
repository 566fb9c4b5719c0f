package components

import (
	"context"
	"errors"
	"strings"

	gemini "github.com/google/generative-ai-go/genai"

	"github.com/bububa/platelens/schema"
)

// LLM is the language model boundary. Replies are free text: callers that
// need structure extract the embedded JSON object themselves.
type LLM interface {
	// GenerateText sends a text-only prompt
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateVision sends an image alongside an instruction prompt
	GenerateVision(ctx context.Context, img schema.Image, prompt string) (string, error)
}

// ErrEmptyReply model response contains no candidates
var ErrEmptyReply = errors.New("model returned no candidates")

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini implements LLM on top of the Google generative AI client.
type Gemini struct {
	client      *gemini.Client
	model       string
	temperature *float32
	maxTokens   int32
}

var _ LLM = (*Gemini)(nil)

type GeminiOption func(*Gemini)

func WithModel(model string) GeminiOption {
	return func(g *Gemini) {
		g.model = model
	}
}

func WithTemperature(temperature float32) GeminiOption {
	return func(g *Gemini) {
		g.temperature = &temperature
	}
}

func WithMaxTokens(maxTokens int32) GeminiOption {
	return func(g *Gemini) {
		g.maxTokens = maxTokens
	}
}

func NewGemini(client *gemini.Client, opts ...GeminiOption) *Gemini {
	ret := &Gemini{
		client: client,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.model == "" {
		ret.model = defaultGeminiModel
	}
	return ret
}

func (g *Gemini) generate(ctx context.Context, parts ...gemini.Part) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if g.temperature != nil {
		model.SetTemperature(*g.temperature)
	}
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(g.maxTokens)
	}
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return ResponseText(resp)
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, gemini.Text(prompt))
}

func (g *Gemini) GenerateVision(ctx context.Context, img schema.Image, prompt string) (string, error) {
	return g.generate(ctx, gemini.ImageData(img.Format(), img.Data), gemini.Text(prompt))
}

// ResponseText flattens candidate text parts into one trimmed string.
func ResponseText(resp *gemini.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyReply
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(gemini.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
