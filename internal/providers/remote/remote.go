package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/providers"

	"github.com/go-resty/resty/v2"
)

// Remote calls an HTTP generation service that speaks the JSON contract below.
type Remote struct {
	client *resty.Client
	apiKey string
}

func New(endpoint, apiKey string, timeout time.Duration) *Remote {
	c := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}

	return &Remote{client: c, apiKey: apiKey}
}

type generateRequest struct {
	SourceImage      string `json:"sourceImage"`
	RoomType         string `json:"roomType"`
	StyleID          string `json:"styleId"`
	StyleDescription string `json:"styleDescription"`
	Prompt           string `json:"prompt"`
}

type generateResponse struct {
	ImageURL string `json:"imageUrl"`
	Notes    string `json:"notes"`
}

func (r *Remote) EnsureCapability(ctx context.Context) error {
	if r.apiKey == "" {
		return providers.ErrMissingAPIKey
	}
	return nil
}

func (r *Remote) Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
	reqBody := generateRequest{
		SourceImage:      req.SourceImage,
		RoomType:         string(req.RoomType),
		StyleID:          req.StyleID,
		StyleDescription: req.StyleDescription,
		Prompt:           providers.BuildPrompt(req),
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/generate")
	if err != nil {
		return models.GenerationOutput{}, fmt.Errorf("generation request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.GenerationOutput{}, fmt.Errorf("generation status %d: %s", resp.StatusCode(), resp.String())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return models.GenerationOutput{}, fmt.Errorf("decode response: %w", err)
	}
	if gr.ImageURL == "" {
		return models.GenerationOutput{}, fmt.Errorf("generation response has no image")
	}

	return models.GenerationOutput{ImageURL: gr.ImageURL, Notes: gr.Notes}, nil
}
