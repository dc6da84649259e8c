package gemini

import (
	"context"
	"testing"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/providers"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemini_WithoutKey(t *testing.T) {
	g, err := New(context.Background(), "", "gemini-2.5-flash-image", 0)
	require.NoError(t, err)

	assert.ErrorIs(t, g.EnsureCapability(context.Background()), providers.ErrMissingAPIKey)

	_, err = g.Generate(context.Background(), models.GenerationRequest{SourceImage: "data:image/jpeg;base64,AA=="})
	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)

	assert.NoError(t, g.Close())
}

func TestGemini_ValidateSource(t *testing.T) {
	g, err := New(context.Background(), "", "gemini-2.5-flash-image", 0)
	require.NoError(t, err)

	assert.NoError(t, g.ValidateSource("data:image/jpeg;base64,AA=="))
	assert.Error(t, g.ValidateSource("https://images.example.com/room.jpg"))
	assert.Error(t, g.ValidateSource(""))
}

func TestParseResponse(t *testing.T) {
	t.Run("image and notes", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{
					genai.Text("Swapped the sofa for a linen sectional."),
					genai.Blob{MIMEType: "image/png", Data: []byte("png")},
				}},
			}},
		}

		out, err := parseResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,cG5n", out.ImageURL)
		assert.Equal(t, "Swapped the sofa for a linen sectional.", out.Notes)
	})

	t.Run("text only", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("I cannot do that")}},
			}},
		}

		_, err := parseResponse(resp)
		assert.ErrorContains(t, err, "no image")
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := parseResponse(&genai.GenerateContentResponse{})
		assert.Error(t, err)
	})
}
