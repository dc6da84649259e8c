package seed

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"dreamdesign/internal/domain/models"

	"gopkg.in/yaml.v3"
)

var ErrEmptySeed = errors.New("seed contains no records")

const unsplash = "https://images.unsplash.com/"

type pair struct {
	label  string
	before string
	after  string
}

var heroPairs = []pair{
	{"Modern Living", "photo-1554995207-c18c203602cb?q=80&w=1200&auto=format&fit=crop", "photo-1600210492486-724fe5c67fb0?q=80&w=1200&auto=format&fit=crop"},
	{"Scandi Bedroom", "photo-1595846519845-68e298c2edd8?q=80&w=1200&auto=format&fit=crop", "photo-1595515106969-1ce29566ff1c?q=80&w=1200&auto=format&fit=crop"},
	{"Industrial Kitchen", "photo-1584622050111-993a426fbf0a?q=80&w=1200&auto=format&fit=crop", "photo-1615529182904-14819c35db37?q=80&w=1200&auto=format&fit=crop"},
}

var authPairs = []pair{
	{"Auth Modern", "photo-1581553612845-63529b380b06?q=80&w=1200&auto=format&fit=crop", "photo-1502005229766-3c8ef9558553?q=80&w=1200&auto=format&fit=crop"},
	{"Auth Scandi", "photo-1598928636135-d146006ff4be?q=80&w=1200&auto=format&fit=crop", "photo-1595515106969-1ce29566ff1c?q=80&w=1200&auto=format&fit=crop"},
	{"Auth Luxury", "photo-1493809842364-78817add7ffb?q=80&w=1200&auto=format&fit=crop", "photo-1600607687939-ce8a6c25118c?q=80&w=1200&auto=format&fit=crop"},
}

var gallery = []struct {
	label string
	src   string
}{
	{"Mediterranean Kitchen", "photo-1600210492486-724fe5c67fb0?q=80&w=500&auto=format&fit=crop"},
	{"Bohemian Living", "photo-1616486338812-3dadae4b4ace?q=80&w=500&auto=format&fit=crop"},
	{"Zen Sanctuary", "photo-1598928506311-c55ded91a20c?q=80&w=500&auto=format&fit=crop"},
	{"Modern Minimalist", "photo-1556911220-e15b29be8c8f?q=80&w=500&auto=format&fit=crop"},
	{"Coastal Retreat", "photo-1616594039964-40891a909d99?q=80&w=500&auto=format&fit=crop"},
	{"Transitional Home", "photo-1556228453-efd6c1ff04f6?q=80&w=500&auto=format&fit=crop"},
	{"Scandi Bathroom", "photo-1524758631624-e2822e304c36?q=80&w=500&auto=format&fit=crop"},
	{"Farmhouse Dining", "photo-1505691938895-1758d7feb511?q=80&w=500&auto=format&fit=crop"},
	{"Industrial Loft", "photo-1615529182904-14819c35db37?q=80&w=500&auto=format&fit=crop"},
	{"Eclectic Mix", "photo-1583847661884-37839262f56f?q=80&w=500&auto=format&fit=crop"},
	{"Mid-Century Modern", "photo-1556912172-45b7abe8d7e1?q=80&w=500&auto=format&fit=crop"},
}

// Default returns the built-in catalog seed in presentation order:
// hero, auth, feature, gallery, style.
func Default() []models.ImageRecord {
	var records []models.ImageRecord

	records = append(records, pairRecords(models.SectionHero, heroPairs)...)
	records = append(records, pairRecords(models.SectionAuth, authPairs)...)

	records = append(records,
		models.ImageRecord{
			ID:         models.PairID(models.SectionFeature, 0, models.ImageTypeBefore),
			OriginalID: "0",
			Section:    models.SectionFeature,
			Type:       models.ImageTypeBefore,
			Label:      "Feature Section (Original)",
			Src:        unsplash + "photo-1554995207-c18c203602cb?q=80&w=600",
		},
		models.ImageRecord{
			ID:         models.PairID(models.SectionFeature, 0, models.ImageTypeAfter),
			OriginalID: "0",
			Section:    models.SectionFeature,
			Type:       models.ImageTypeAfter,
			Label:      "Feature Section (Result)",
			Src:        unsplash + "photo-1600210492486-724fe5c67fb0?q=80&w=600",
		},
	)

	for i, item := range gallery {
		records = append(records, models.ImageRecord{
			ID:         models.SectionIndexID(models.SectionGallery, i),
			OriginalID: fmt.Sprint(i),
			Section:    models.SectionGallery,
			Type:       models.ImageTypeSingle,
			Label:      item.label,
			Src:        unsplash + item.src,
		})
	}

	for _, style := range models.StyleOptions {
		records = append(records, models.ImageRecord{
			ID:         models.StyleImageID(style.ID),
			OriginalID: style.ID,
			Section:    models.SectionStyle,
			Type:       models.ImageTypeSingle,
			Label:      style.Name + " Style",
			Src:        style.Image,
		})
	}

	return records
}

func pairRecords(section models.Section, pairs []pair) []models.ImageRecord {
	records := make([]models.ImageRecord, 0, len(pairs)*2)

	for i, p := range pairs {
		records = append(records,
			models.ImageRecord{
				ID:         models.PairID(section, i, models.ImageTypeBefore),
				OriginalID: fmt.Sprint(i),
				Section:    section,
				Type:       models.ImageTypeBefore,
				Label:      p.label + " (Before)",
				Src:        unsplash + p.before,
			},
			models.ImageRecord{
				ID:         models.PairID(section, i, models.ImageTypeAfter),
				OriginalID: fmt.Sprint(i),
				Section:    section,
				Type:       models.ImageTypeAfter,
				Label:      p.label + " (After)",
				Src:        unsplash + p.after,
			},
		)
	}

	return records
}

// Document is the on-disk layout of an exported seed.
type Document struct {
	ExportedAt time.Time            `yaml:"exported_at"`
	Images     []models.ImageRecord `yaml:"images"`
}

// Marshal renders records as a seed document that LoadFile accepts.
func Marshal(records []models.ImageRecord, exportedAt time.Time) ([]byte, error) {
	const op = "seed.Marshal"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Catalog seed exported on %s.\n", exportedAt.Format("2006-01-02"))
	fmt.Fprintln(&buf, "# Point catalog.seed_path at this file to make it the new default image set.")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(Document{ExportedAt: exportedAt.UTC(), Images: records}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

// Parse decodes a seed document and validates every record.
func Parse(data []byte) ([]models.ImageRecord, error) {
	const op = "seed.Parse"

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(doc.Images) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySeed)
	}

	seen := make(map[string]struct{}, len(doc.Images))
	for _, rec := range doc.Images {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate image id %q", op, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}

	return doc.Images, nil
}

// LoadFile reads an exported seed document.
func LoadFile(path string) ([]models.ImageRecord, error) {
	const op = "seed.LoadFile"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Parse(data)
}
