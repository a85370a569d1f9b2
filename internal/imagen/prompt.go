package imagen

import (
	"fmt"
	"strings"
)

// HeadshotPrompt builds the image prompt for one headshot of the subject
// shown in the attached photos.
func HeadshotPrompt(stylePrompt, profession string, removePiercings bool) string {
	var b strings.Builder
	b.WriteString("Using the attached photos of the same person, create one new professional headshot of them. ")
	b.WriteString("Keep their facial features, skin tone and hair exactly as they are so the result is clearly the same person. ")
	fmt.Fprintf(&b, "Style: %s ", strings.TrimSpace(stylePrompt))
	if p := strings.TrimSpace(profession); p != "" {
		fmt.Fprintf(&b, "The person works as a %s, so the setting and attire should suit that profession. ", p)
	}
	if removePiercings {
		b.WriteString("Remove any facial piercings. ")
	}
	b.WriteString("Return only the image.")
	return b.String()
}

// SuggestStylePrompt asks the text model to pick one of the given style ids.
func SuggestStylePrompt(profession string, styleIDs []string) string {
	return fmt.Sprintf(
		"A person working as a %q wants a professional headshot. Choose the single best matching style from this list: %s. Answer with the style id only.",
		strings.TrimSpace(profession), strings.Join(styleIDs, ", "),
	)
}
