package models_test

import (
	"encoding/json"
	"testing"

	"dreamdesign/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRecord_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"numeric originalId", `{"id":"hero_0_before","originalId":0}`, "0"},
		{"string originalId", `{"id":"style_Modern","originalId":"Modern"}`, "Modern"},
		{"missing originalId", `{"id":"gallery_1"}`, ""},
		{"null originalId", `{"id":"gallery_1","originalId":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec models.ImageRecord
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &rec))
			assert.Equal(t, tt.want, rec.OriginalID)
		})
	}

	t.Run("invalid originalId", func(t *testing.T) {
		var rec models.ImageRecord
		assert.Error(t, json.Unmarshal([]byte(`{"id":"x","originalId":{}}`), &rec))
	})
}

func TestImageRecord_SectionIndex(t *testing.T) {
	idx, ok := models.ImageRecord{ID: "gallery_10"}.SectionIndex()
	assert.True(t, ok)
	assert.Equal(t, 10, idx)

	idx, ok = models.ImageRecord{ID: "hero_2_after"}.SectionIndex()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = models.ImageRecord{ID: "style_Modern"}.SectionIndex()
	assert.False(t, ok)
}

func TestImageRecord_Validate(t *testing.T) {
	valid := models.ImageRecord{ID: "gallery_0", Section: models.SectionGallery, Type: models.ImageTypeSingle, Src: "https://x"}
	assert.NoError(t, valid.Validate())

	err := models.ImageRecord{Section: "basement", Type: "middle"}.Validate()
	require.Error(t, err)
	assert.True(t, models.IsImageValidationError(err))

	var verr *models.ImageValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 4)
}

func TestRoomType_Valid(t *testing.T) {
	assert.True(t, models.RoomType("Kitchen").Valid())
	assert.False(t, models.RoomType("Garage").Valid())
	assert.Len(t, models.RoomTypes, 17)
	assert.Len(t, models.StyleOptions, 26)
}
