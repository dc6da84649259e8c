package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/lib/imgcompress"
	"dreamdesign/internal/providers"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini image editing models
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

// New returns a new Gemini provider. An empty apiKey yields a provider whose
// EnsureCapability fails, so no credits are charged for calls that cannot work.
func New(ctx context.Context, apiKey, model string, temperature float64) (*Gemini, error) {
	g := &Gemini{model: model, temperature: float32(temperature)}

	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	g.client = client

	return g, nil
}

func (g *Gemini) EnsureCapability(ctx context.Context) error {
	if g.client == nil {
		return providers.ErrMissingAPIKey
	}
	return nil
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// ValidateSource accepts only base64 data URIs, the model gets the image bytes inline.
func (g *Gemini) ValidateSource(src string) error {
	if _, _, err := imgcompress.ParseDataURI(src); err != nil {
		return fmt.Errorf("source image: %w", err)
	}
	return nil
}

// Generate sends the room photo and prompt and returns the first image part as a data URI.
func (g *Gemini) Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
	if err := g.EnsureCapability(ctx); err != nil {
		return models.GenerationOutput{}, err
	}

	mimeType, data, err := imgcompress.ParseDataURI(req.SourceImage)
	if err != nil {
		return models.GenerationOutput{}, fmt.Errorf("source image: %w", err)
	}

	model := g.client.GenerativeModel(g.model)
	if g.temperature > 0 {
		model.SetTemperature(g.temperature)
	}

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(strings.TrimPrefix(mimeType, "image/"), data),
		genai.Text(providers.BuildPrompt(req)),
	)
	if err != nil {
		return models.GenerationOutput{}, fmt.Errorf("failed to generate content: %w", err)
	}

	return parseResponse(resp)
}

func parseResponse(resp *genai.GenerateContentResponse) (models.GenerationOutput, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return models.GenerationOutput{}, fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return models.GenerationOutput{}, fmt.Errorf("empty content returned from Gemini")
	}

	var out models.GenerationOutput
	var notes []string

	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Blob:
			if out.ImageURL == "" && len(p.Data) > 0 {
				out.ImageURL = "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
			}
		case genai.Text:
			if s := strings.TrimSpace(string(p)); s != "" {
				notes = append(notes, s)
			}
		}
	}

	if out.ImageURL == "" {
		return models.GenerationOutput{}, fmt.Errorf("no image returned from Gemini")
	}

	out.Notes = strings.Join(notes, "\n")

	return out, nil
}
