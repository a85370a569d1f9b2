package generation

const defaultGroupName = "General"

// Gallery is the result of a successful run.
type Gallery struct {
	Images []GeneratedImage `json:"images"`
}

// Group is a labelled section of a gallery.
type Group struct {
	StyleName string           `json:"styleName"`
	Images    []GeneratedImage `json:"images"`
}

// Groups buckets images by style name in first-seen order.
func (g Gallery) Groups() []Group {
	index := make(map[string]int)
	var groups []Group
	for _, img := range g.Images {
		name := img.StyleName
		if name == "" {
			name = defaultGroupName
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{StyleName: name})
		}
		groups[i].Images = append(groups[i].Images, img)
	}
	return groups
}

// ToggleFavorite flips the favorite flag of image id.
func (g *Gallery) ToggleFavorite(id string) bool {
	for i := range g.Images {
		if g.Images[i].ID == id {
			g.Images[i].IsFavorite = !g.Images[i].IsFavorite
			return true
		}
	}
	return false
}

func (g Gallery) Favorites() []GeneratedImage {
	var out []GeneratedImage
	for _, img := range g.Images {
		if img.IsFavorite {
			out = append(out, img)
		}
	}
	return out
}
