package request

type ImageURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ImagePatch leaves omitted fields unchanged, an empty string clears the field.
type ImagePatch struct {
	ID    string  `json:"id" validate:"required"`
	Label *string `json:"label,omitempty"`
	Src   *string `json:"src,omitempty"`
}

type BatchUpdateRequest struct {
	Images []ImagePatch `json:"images" validate:"required,min=1,dive"`
}
