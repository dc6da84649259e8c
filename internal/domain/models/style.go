package models

// StyleDefinition is a static design style. Only Image may be overridden by the catalog.
type StyleDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
}

const placeholderBase = "https://placehold.co/600x400/e2e8f0/1e293b?text="

// StyleOptions is the fixed style catalog offered in the studio.
var StyleOptions = []StyleDefinition{
	{ID: "Modern", Name: "Modern", Description: "Clean lines, neutral colors, sleek furniture.", Image: placeholderBase + "Modern"},
	{ID: "Cozy Minimal", Name: "Cozy Minimal", Description: "Warm textures, clutter-free, soft lighting.", Image: placeholderBase + "Cozy+Minimal"},
	{ID: "Scandinavian", Name: "Scandinavian", Description: "Light woods, functional, airy and bright.", Image: placeholderBase + "Scandinavian"},
	{ID: "Japandi", Name: "Japandi", Description: "Japanese functionality meets Scandinavian rustic minimalism.", Image: placeholderBase + "Japandi"},
	{ID: "Transitional", Name: "Transitional", Description: "Classic meets contemporary, balanced elegance.", Image: placeholderBase + "Transitional"},
	{ID: "Farmhouse", Name: "Farmhouse", Description: "Rustic charm, natural materials, inviting.", Image: placeholderBase + "Farmhouse"},
	{ID: "Mediterranean", Name: "Mediterranean", Description: "Warm tones, textured walls, arches, and natural materials.", Image: placeholderBase + "Mediterranean"},
	{ID: "Coastal", Name: "Coastal", Description: "Breezy, blues and whites, relaxed atmosphere.", Image: placeholderBase + "Coastal"},
	{ID: "Industrial", Name: "Industrial", Description: "Raw materials, exposed structural elements.", Image: placeholderBase + "Industrial"},
	{ID: "Bohemian", Name: "Bohemian", Description: "Eclectic, colorful, patterned, and organic.", Image: placeholderBase + "Bohemian"},
	{ID: "Mid-Century Modern", Name: "Mid-Century Modern", Description: "Retro 50s/60s vibe, geometric shapes, wood.", Image: placeholderBase + "Mid-Century"},
	{ID: "Traditional", Name: "Traditional", Description: "Classic details, antiques, rich colors, and symmetry.", Image: placeholderBase + "Traditional"},
	{ID: "Art Deco", Name: "Art Deco", Description: "Glamorous, gold accents, bold geometric patterns.", Image: placeholderBase + "Art+Deco"},
	{ID: "Rustic", Name: "Rustic", Description: "Natural rugged beauty, raw wood, stone, earthy.", Image: placeholderBase + "Rustic"},
	{ID: "Maximalist", Name: "Maximalist", Description: "Bold colors, patterns, textures. More is more.", Image: placeholderBase + "Maximalist"},
	{ID: "French Country", Name: "French Country", Description: "Soft colors, toile fabrics, distressed wood, romantic.", Image: placeholderBase + "French+Country"},
	{ID: "Biophilic", Name: "Biophilic", Description: "Nature-connected, abundant plants, natural light.", Image: placeholderBase + "Biophilic"},
	{ID: "Eclectic", Name: "Eclectic", Description: "A curated mix of textures, periods, and trends.", Image: placeholderBase + "Eclectic"},
	{ID: "Modern Glam", Name: "Modern Glam", Description: "Luxurious velvet, metallic accents, and plush comfort.", Image: placeholderBase + "Modern+Glam"},
	{ID: "Southwestern", Name: "Southwestern", Description: "Earth tones, desert textures, terracotta, and rugs.", Image: placeholderBase + "Southwestern"},
	{ID: "Zen", Name: "Zen", Description: "Minimalist Japanese influence, harmony, natural stone.", Image: placeholderBase + "Zen"},
	{ID: "Baroque", Name: "Baroque", Description: "Opulent, ornate details, rich drama, and luxury.", Image: placeholderBase + "Baroque"},
	{ID: "Tropical", Name: "Tropical", Description: "Lush greenery, vibrant colors, rattan, and airy.", Image: placeholderBase + "Tropical"},
	{ID: "Shabby Chic", Name: "Shabby Chic", Description: "Vintage furniture, soft pastels, distressed finish.", Image: placeholderBase + "Shabby+Chic"},
	{ID: "Cyberpunk", Name: "Cyberpunk", Description: "Futuristic, neon lights, high contrast, tech-inspired.", Image: placeholderBase + "Cyberpunk"},
	{ID: "Neoclassical", Name: "Neoclassical", Description: "Elegant, timeless, columns, and refined luxury.", Image: placeholderBase + "Neoclassical"},
}

// RoomType is the kind of room shown in the uploaded photo.
type RoomType string

var RoomTypes = []RoomType{
	"Living Room",
	"Family Room",
	"Bedroom",
	"Dining Room",
	"Kitchen",
	"Home Office",
	"Patio",
	"Bathroom",
	"Kids Room",
	"Gaming Room",
	"Entryway",
	"Home Gym",
	"Home Theater",
	"Laundry Room",
	"Walk-in Closet",
	"Library",
	"Sunroom",
}

func (r RoomType) Valid() bool {
	for _, rt := range RoomTypes {
		if rt == r {
			return true
		}
	}
	return false
}
