package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationResult is one redesigned image. Results live only in studio memory.
type GenerationResult struct {
	Style    string `json:"style"`
	ImageURL string `json:"imageUrl"`
	Notes    string `json:"notes"`
}

// GenerationRequest is what the external generator receives for a single style.
type GenerationRequest struct {
	SourceImage      string
	RoomType         RoomType
	StyleID          string
	StyleDescription string
}

// GenerationOutput is what the external generator returns for a single style.
type GenerationOutput struct {
	ImageURL string `json:"imageUrl"`
	Notes    string `json:"notes"`
}

// GenerationBatch is the outcome of one successful generate call.
type GenerationBatch struct {
	ID          uuid.UUID          `json:"id"`
	Account     Account            `json:"account"`
	Cost        int                `json:"cost"`
	Results     []GenerationResult `json:"results"`
	StartedAt   time.Time          `json:"startedAt"`
	CompletedAt time.Time          `json:"completedAt"`
}
