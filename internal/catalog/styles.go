// Package catalog holds the static headshot style catalog, plan tiers and the
// purchasable package table. Everything here is immutable after init.
package catalog

import "strings"

type HeadshotStyle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Prompt      string `json:"prompt"`
}

// DefaultStyleID is used when a style suggestion cannot be resolved.
const DefaultStyleID = "corporate"

var styles = []HeadshotStyle{
	{
		ID:          "corporate",
		Name:        "Corporate",
		Description: "Clean, professional, and confident. Perfect for LinkedIn and company websites.",
		ImageURL:    "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?q=80&w=800&auto=format&fit=crop",
		Prompt:      "Generate a range of professional corporate headshots. The subject should be in various modern corporate environments, like a sleek boardroom, a bright corner office with a cityscape, or a professional building lobby with striking architectural details. Attire should be varied but professional, including sharp blazers, classic business suits, and stylish blouses. Each image should have distinct, flattering lighting that conveys confidence and power. High-resolution, photorealistic.",
	},
	{
		ID:          "creative",
		Name:        "Creative",
		Description: "Expressive and artistic. Ideal for artists, designers, and innovators.",
		ImageURL:    "https://images.unsplash.com/photo-1522075469751-3a6694fb2f61?q=80&w=800&auto=format&fit=crop",
		Prompt:      "Generate an array of creative and artistic headshots. The subject should be featured in different inspiring environments, such as a gallery with abstract art, a studio filled with natural light and interesting textures, or an urban setting with unique architecture. Attire should be expressive and stylish. Each composition should be thoughtful and engaging, hinting at the subject's craft without being distracting. High-resolution, photorealistic.",
	},
	{
		ID:          "casual",
		Name:        "Casual",
		Description: "Friendly and approachable. Great for social media and personal branding.",
		ImageURL:    "https://images.unsplash.com/photo-1557862921-37829c790f19?q=80&w=800&auto=format&fit=crop",
		Prompt:      "Generate a collection of friendly and approachable casual headshots. The subject should be in a variety of warm and inviting settings, such as a bright, modern coffee shop with soft morning light, an artistic loft with exposed brick, or a scenic, relaxed outdoor setting with natural foliage. Clothing should be stylish and smart-casual, like high-quality sweaters, crisp shirts, or simple, elegant t-shirts. Each shot must feel authentic, with a genuine, warm expression. High-resolution, photorealistic.",
	},
	{
		ID:          "dramatic",
		Name:        "Dramatic",
		Description: "Bold and impactful. For actors, public speakers, and thought leaders.",
		ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?q=80&w=800&auto=format&fit=crop",
		Prompt:      "Generate several dramatic and impactful headshots. Each image should utilize a different striking, minimalist background, perhaps with bold architectural lines, deep, rich textures, or stark gradients. The lighting must be cinematic and high-contrast, sculpting the face differently in each shot to create powerful and memorable images. The expression should be intense and captivating. Explore both black and white and desaturated color palettes. High-resolution, photorealistic.",
	},
}

// Styles returns the catalog in display order.
func Styles() []HeadshotStyle {
	out := make([]HeadshotStyle, len(styles))
	copy(out, styles)
	return out
}

// Lookup resolves a style by id or display name, ignoring case.
func Lookup(key string) (HeadshotStyle, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return HeadshotStyle{}, false
	}
	for _, s := range styles {
		if strings.EqualFold(s.ID, key) || strings.EqualFold(s.Name, key) {
			return s, true
		}
	}
	return HeadshotStyle{}, false
}

// IDs lists the catalog ids in display order.
func IDs() []string {
	ids := make([]string, len(styles))
	for i, s := range styles {
		ids[i] = s.ID
	}
	return ids
}
