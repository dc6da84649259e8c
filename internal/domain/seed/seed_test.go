package seed_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/domain/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	records := seed.Default()

	counts := map[models.Section]int{}
	ids := map[string]struct{}{}
	for _, r := range records {
		counts[r.Section]++
		ids[r.ID] = struct{}{}
		assert.NoError(t, r.Validate())
	}

	assert.Len(t, ids, len(records), "ids must be unique")
	assert.Equal(t, 6, counts[models.SectionHero])
	assert.Equal(t, 6, counts[models.SectionAuth])
	assert.Equal(t, 2, counts[models.SectionFeature])
	assert.Equal(t, 11, counts[models.SectionGallery])
	assert.Equal(t, 26, counts[models.SectionStyle])

	assert.Equal(t, "hero_0_before", records[0].ID)
	assert.Equal(t, "Modern Living (Before)", records[0].Label)

	_, ok := ids["style_Mid-Century Modern"]
	assert.True(t, ok)
}

func TestMarshalParse(t *testing.T) {
	records := seed.Default()

	data, err := seed.Marshal(records, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Catalog seed exported on 2026-03-01.")

	parsed, err := seed.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}

func TestParseErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := seed.Parse([]byte("images: []\n"))
		assert.ErrorIs(t, err, seed.ErrEmptySeed)
	})

	t.Run("invalid record", func(t *testing.T) {
		_, err := seed.Parse([]byte("images:\n  - id: x\n    section: attic\n    type: single\n    src: a\n"))
		var verr *models.ImageValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("duplicate id", func(t *testing.T) {
		doc := "images:\n" +
			"  - {id: gallery_0, section: gallery, type: single, src: a}\n" +
			"  - {id: gallery_0, section: gallery, type: single, src: b}\n"
		_, err := seed.Parse([]byte(doc))
		assert.ErrorContains(t, err, "duplicate image id")
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")

	data, err := seed.Marshal(seed.Default()[:2], time.Now())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	got, err := seed.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = seed.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
