package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Section string

type ImageType string

const (
	SectionHero    Section = "hero"
	SectionAuth    Section = "auth"
	SectionGallery Section = "gallery"
	SectionStyle   Section = "style"
	SectionFeature Section = "feature"
)

const (
	ImageTypeBefore ImageType = "before"
	ImageTypeAfter  ImageType = "after"
	ImageTypeSingle ImageType = "single"
)

// ImageRecord is a single catalog entry. ID never changes after the seed defines it.
type ImageRecord struct {
	ID         string    `json:"id" yaml:"id"`
	OriginalID string    `json:"originalId" yaml:"originalId"`
	Section    Section   `json:"section" yaml:"section"`
	Type       ImageType `json:"type" yaml:"type"`
	Label      string    `json:"label" yaml:"label"`
	Src        string    `json:"src" yaml:"src"`
}

// ImagePatch changes one record. A nil field is left as is, an empty string clears it.
type ImagePatch struct {
	ID    string
	Label *string
	Src   *string
}

// UnmarshalJSON accepts originalId written either as a string or as a number,
// older snapshots store section indexes numerically.
func (r *ImageRecord) UnmarshalJSON(data []byte) error {
	type plain ImageRecord
	aux := struct {
		*plain
		OriginalID json.RawMessage `json:"originalId"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.OriginalID = ""
	if len(aux.OriginalID) == 0 || string(aux.OriginalID) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(aux.OriginalID, &s); err == nil {
		r.OriginalID = s
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(aux.OriginalID, &n); err != nil {
		return fmt.Errorf("originalId: %w", err)
	}
	r.OriginalID = n.String()

	return nil
}

// PairID builds the id of a paired record, e.g. hero_0_before.
func PairID(section Section, index int, typ ImageType) string {
	return fmt.Sprintf("%s_%d_%s", section, index, typ)
}

// SectionIndexID builds the id of an unpaired section record, e.g. gallery_3.
func SectionIndexID(section Section, index int) string {
	return fmt.Sprintf("%s_%d", section, index)
}

// StyleImageID builds the id of the record overriding a style thumbnail.
func StyleImageID(styleID string) string {
	return "style_" + styleID
}

// SectionIndex returns the numeric index embedded after the first underscore of the id.
func (r ImageRecord) SectionIndex() (int, bool) {
	parts := strings.Split(r.ID, "_")
	if len(parts) < 2 {
		return 0, false
	}

	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	return idx, true
}

// Validate checks record fields loaded from an external seed file.
func (r ImageRecord) Validate() error {
	var validationErrors []string

	if r.ID == "" {
		validationErrors = append(validationErrors, "id is required")
	}
	if r.Src == "" {
		validationErrors = append(validationErrors, "src is required")
	}

	switch r.Section {
	case SectionHero, SectionAuth, SectionGallery, SectionStyle, SectionFeature:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid section '%s'", r.Section))
	}

	switch r.Type {
	case ImageTypeBefore, ImageTypeAfter, ImageTypeSingle:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid type '%s'", r.Type))
	}

	if len(validationErrors) > 0 {
		return &ImageValidationError{
			ID:     r.ID,
			Errors: validationErrors,
		}
	}

	return nil
}

// ImageValidationError collects every problem found in one record.
type ImageValidationError struct {
	ID     string
	Errors []string
}

func (e *ImageValidationError) Error() string {
	return fmt.Sprintf("image record %q validation failed: %s", e.ID, strings.Join(e.Errors, "; "))
}

// IsImageValidationError reports whether err is an ImageValidationError.
func IsImageValidationError(err error) bool {
	_, ok := err.(*ImageValidationError)
	return ok
}
