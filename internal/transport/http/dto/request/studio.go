package request

type GenerateRequest struct {
	// Image is the room photo. The gemini provider accepts only data URIs,
	// the mock and remote providers also take a hosted URL.
	Image    string   `json:"image" validate:"required"`
	RoomType string   `json:"roomType" validate:"required"`
	Styles   []string `json:"styles" validate:"required,min=1,dive,required"`
}

type ActiveResultRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}
