package generation

import "stature-backend/internal/catalog"

// Selection tracks the chosen styles and total headshot count within a plan's limits.
type Selection struct {
	plan   catalog.Plan
	styles []catalog.HeadshotStyle
	count  int
}

func NewSelection(plan catalog.Plan) *Selection {
	return &Selection{plan: plan, count: plan.DefaultImages}
}

// Toggle adds the style when absent and the plan allows another, removes it
// when present. It reports whether the style is selected afterwards.
func (s *Selection) Toggle(style catalog.HeadshotStyle) bool {
	for i, existing := range s.styles {
		if existing.ID == style.ID {
			s.styles = append(s.styles[:i], s.styles[i+1:]...)
			return false
		}
	}
	if len(s.styles) >= s.plan.MaxStyles {
		return false
	}
	s.styles = append(s.styles, style)
	return true
}

// SetCount clamps n into the plan's image range and returns the stored value.
func (s *Selection) SetCount(n int) int {
	if n < s.plan.MinImages {
		n = s.plan.MinImages
	}
	if n > s.plan.MaxImages {
		n = s.plan.MaxImages
	}
	s.count = n
	return n
}

func (s *Selection) Count() int { return s.count }

func (s *Selection) Plan() catalog.Plan { return s.plan }

// Styles returns the selected styles in selection order.
func (s *Selection) Styles() []catalog.HeadshotStyle {
	out := make([]catalog.HeadshotStyle, len(s.styles))
	copy(out, s.styles)
	return out
}

func (s *Selection) Split() ([]int, error) {
	return Split(s.count, len(s.styles))
}
