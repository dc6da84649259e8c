package response

import "dreamdesign/internal/domain/models"

type ResultsResponse struct {
	Results     []models.GenerationResult `json:"results"`
	ActiveIndex int                       `json:"activeIndex"`
	InProgress  bool                      `json:"inProgress"`
}

type CreditPacksResponse struct {
	Packs []int `json:"packs"`
}
