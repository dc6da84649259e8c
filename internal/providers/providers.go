package providers

import (
	"context"
	"errors"
	"fmt"

	"dreamdesign/internal/domain/models"
)

var ErrMissingAPIKey = errors.New("generation api key is not configured")

// Provider defines the interface for an image generation backend
type Provider interface {
	Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error)
}

// BuildPrompt renders the redesign instruction sent along with the room photo.
func BuildPrompt(req models.GenerationRequest) string {
	prompt := fmt.Sprintf(
		"Redesign this %s in a %s interior design style.", req.RoomType, req.StyleID)

	if req.StyleDescription != "" {
		prompt += " Style characteristics: " + req.StyleDescription
	}

	return prompt + " Keep the room's architecture, windows, doors and camera perspective unchanged. " +
		"Replace furniture, materials, colors and decor to match the style. " +
		"Return the redesigned photo and a short note describing the key changes."
}
