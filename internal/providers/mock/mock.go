package mock

import (
	"context"
	"fmt"
	"time"

	"dreamdesign/internal/domain/models"
)

// Generator echoes the source image back after a delay. Used for local runs
// and demos without an API key.
type Generator struct {
	Delay time.Duration
}

func New(delay time.Duration) *Generator {
	return &Generator{Delay: delay}
}

func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest) (models.GenerationOutput, error) {
	if g.Delay > 0 {
		t := time.NewTimer(g.Delay)
		defer t.Stop()

		select {
		case <-t.C:
		case <-ctx.Done():
			return models.GenerationOutput{}, ctx.Err()
		}
	}

	return models.GenerationOutput{
		ImageURL: req.SourceImage,
		Notes:    fmt.Sprintf("Preview of a %s %s. %s", req.StyleID, req.RoomType, req.StyleDescription),
	}, nil
}
