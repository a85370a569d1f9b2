package generation_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stature-backend/internal/catalog"
	"stature-backend/internal/generation"
	"stature-backend/internal/logger"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func photo(name string) generation.UploadFile {
	return generation.UploadFile{Filename: name, MimeType: "image/png", Data: pngHeader}
}

func style(id string) catalog.HeadshotStyle {
	s, ok := catalog.Lookup(id)
	if !ok {
		panic("unknown style " + id)
	}
	return s
}

func TestSplit(t *testing.T) {
	tests := []struct {
		total  int
		styles int
		want   []int
	}{
		{10, 1, []int{10}},
		{10, 2, []int{5, 5}},
		{11, 2, []int{6, 5}},
		{40, 3, []int{14, 13, 13}},
		{2, 5, []int{1, 1, 0, 0, 0}},
		{0, 2, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_over_%d", tt.total, tt.styles), func(t *testing.T) {
			got, err := generation.Split(tt.total, tt.styles)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_SumAndFloor(t *testing.T) {
	for total := 0; total <= 100; total++ {
		for n := 1; n <= 5; n++ {
			got, err := generation.Split(total, n)
			require.NoError(t, err)

			sum := 0
			for _, c := range got {
				sum += c
				assert.GreaterOrEqual(t, c, total/n)
				assert.LessOrEqual(t, c, total/n+1)
			}
			assert.Equal(t, total, sum)
		}
	}
}

func TestSplit_Invalid(t *testing.T) {
	_, err := generation.Split(10, 0)
	assert.ErrorIs(t, err, generation.ErrNoStyles)

	_, err = generation.Split(-1, 2)
	assert.Error(t, err)
}

func TestCollector_AddTruncatesAndOrders(t *testing.T) {
	c := generation.NewCollector()

	var batch []generation.UploadFile
	for i := 0; i < 12; i++ {
		batch = append(batch, photo(fmt.Sprintf("p%d.png", i)))
	}

	accepted, err := c.Add(batch...)
	require.NoError(t, err)
	assert.Len(t, accepted, generation.MaxUploads)
	assert.Equal(t, 0, c.Remaining())
	assert.True(t, c.Ready())

	files := c.Files()
	require.Len(t, files, generation.MaxUploads)
	assert.Equal(t, "p0.png", files[0].Filename)
	assert.Equal(t, "p9.png", files[9].Filename)
	assert.NotEqual(t, files[0].ID, files[1].ID)
	assert.True(t, strings.HasPrefix(files[0].Preview, "data:image/png;base64,"))

	more, err := c.Add(photo("extra.png"))
	require.NoError(t, err)
	assert.Empty(t, more)
}

func TestCollector_RemoveAndReady(t *testing.T) {
	c := generation.NewCollector()
	accepted, err := c.Add(photo("a.png"), photo("b.png"), photo("c.png"), photo("d.png"), photo("e.png"))
	require.NoError(t, err)
	assert.True(t, c.Ready())

	assert.True(t, c.Remove(accepted[2].ID))
	assert.False(t, c.Remove("missing"))
	assert.False(t, c.Ready())
	assert.Equal(t, 6, c.Remaining())

	names := []string{}
	for _, f := range c.Files() {
		names = append(names, f.Filename)
	}
	assert.Equal(t, []string{"a.png", "b.png", "d.png", "e.png"}, names)

	c.Reset()
	assert.Empty(t, c.Files())
}

func TestCollector_RejectsUnsupportedTypes(t *testing.T) {
	c := generation.NewCollector()
	_, err := c.Add(photo("ok.png"), generation.UploadFile{Filename: "doc.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc.pdf")
	assert.Empty(t, c.Files())
}

func TestCollector_IgnoresTypeOfDroppedFiles(t *testing.T) {
	c := generation.NewCollector()
	for i := 0; i < generation.MaxUploads-1; i++ {
		_, err := c.Add(photo(fmt.Sprintf("p%d.png", i)))
		require.NoError(t, err)
	}

	pdf := generation.UploadFile{Filename: "doc.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4")}
	accepted, err := c.Add(photo("last.png"), pdf)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, "last.png", accepted[0].Filename)
	assert.Equal(t, 0, c.Remaining())

	more, err := c.Add(pdf)
	require.NoError(t, err)
	assert.Empty(t, more)
}

func TestSelection_ToggleRespectsPlan(t *testing.T) {
	sel := generation.NewSelection(catalog.PlanFor(catalog.PackageStarter))
	assert.Equal(t, 10, sel.Count())

	assert.True(t, sel.Toggle(style("corporate")))
	assert.True(t, sel.Toggle(style("casual")))
	assert.False(t, sel.Toggle(style("dramatic")), "starter plan allows two styles")
	assert.Len(t, sel.Styles(), 2)

	assert.False(t, sel.Toggle(style("corporate")))
	assert.Equal(t, "casual", sel.Styles()[0].ID)
}

func TestSelection_SetCountClamps(t *testing.T) {
	sel := generation.NewSelection(catalog.PlanFor(catalog.PackagePro))
	assert.Equal(t, 40, sel.Count())
	assert.Equal(t, 4, sel.SetCount(1))
	assert.Equal(t, 100, sel.SetCount(500))
	assert.Equal(t, 11, sel.SetCount(11))

	sel.Toggle(style("corporate"))
	sel.Toggle(style("creative"))
	counts, err := sel.Split()
	require.NoError(t, err)
	assert.Equal(t, []int{6, 5}, counts)
}

type fakeGenerator struct {
	failOn string
	calls  []string
}

func (f *fakeGenerator) GenerateHeadshots(_ context.Context, _ []generation.UploadFile, s catalog.HeadshotStyle, count int, _ bool) ([]string, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s:%d", s.ID, count))
	if s.ID == f.failOn {
		return nil, errors.New("model unavailable")
	}
	out := make([]string, count)
	for i := range out {
		out[i] = fmt.Sprintf("data:image/png;base64,%s%d", s.ID, i)
	}
	return out, nil
}

func TestOrchestrator_GroupsByStyle(t *testing.T) {
	gen := &fakeGenerator{}
	var progress []string
	o := generation.NewOrchestrator(gen, func(m string) { progress = append(progress, m) }, logger.Nop())

	gallery, err := o.Run(context.Background(), generation.Run{
		Images: []generation.UploadFile{photo("a.png")},
		Styles: []catalog.HeadshotStyle{style("creative"), style("casual")},
		Total:  5,
	})
	require.NoError(t, err)
	assert.NoError(t, o.Err())

	assert.Equal(t, []string{"creative:3", "casual:2"}, gen.calls)
	assert.Equal(t, []string{
		"(1/2) Generating 3 images for 'Creative' style...",
		"(2/2) Generating 2 images for 'Casual' style...",
	}, progress)

	groups := gallery.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Creative", groups[0].StyleName)
	assert.Len(t, groups[0].Images, 3)
	assert.Equal(t, "Casual", groups[1].StyleName)
	assert.Len(t, groups[1].Images, 2)
	assert.True(t, strings.HasPrefix(groups[0].Images[1].ID, "creative-1-"))
}

func TestOrchestrator_FailureDiscardsPartialGallery(t *testing.T) {
	gen := &fakeGenerator{failOn: "casual"}
	o := generation.NewOrchestrator(gen, nil, logger.Nop())

	gallery, err := o.Run(context.Background(), generation.Run{
		Images: []generation.UploadFile{photo("a.png")},
		Styles: []catalog.HeadshotStyle{style("corporate"), style("casual"), style("dramatic")},
		Total:  9,
	})
	require.Error(t, err)
	assert.Empty(t, gallery.Images)

	var genErr *generation.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Casual", genErr.Style)
	assert.Contains(t, err.Error(), "model unavailable")
	assert.Equal(t, err, o.Err())
	assert.Equal(t, []string{"corporate:3", "casual:3"}, gen.calls, "later styles are not attempted")
}

func TestOrchestrator_RetryRerunsWholeSequence(t *testing.T) {
	gen := &fakeGenerator{failOn: "casual"}
	o := generation.NewOrchestrator(gen, nil, logger.Nop())

	_, err := o.Retry(context.Background())
	require.Error(t, err)

	_, err = o.Run(context.Background(), generation.Run{
		Images: []generation.UploadFile{photo("a.png")},
		Styles: []catalog.HeadshotStyle{style("corporate"), style("casual")},
		Total:  4,
	})
	require.Error(t, err)

	gen.failOn = ""
	gen.calls = nil
	gallery, err := o.Retry(context.Background())
	require.NoError(t, err)
	assert.Len(t, gallery.Images, 4)
	assert.Equal(t, []string{"corporate:2", "casual:2"}, gen.calls)
	assert.NoError(t, o.Err())
}

func TestOrchestrator_SingleStyleProgress(t *testing.T) {
	var progress []string
	o := generation.NewOrchestrator(&fakeGenerator{}, func(m string) { progress = append(progress, m) }, logger.Nop())

	_, err := o.Run(context.Background(), generation.Run{
		Images: []generation.UploadFile{photo("a.png")},
		Styles: []catalog.HeadshotStyle{style("dramatic")},
		Total:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Generating 4 images for 'Dramatic' style..."}, progress)
}

func TestGallery_GroupsAndFavorites(t *testing.T) {
	g := generation.Gallery{Images: []generation.GeneratedImage{
		{ID: "a", StyleName: "Corporate"},
		{ID: "b"},
		{ID: "c", StyleName: "Corporate"},
	}}

	groups := g.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Corporate", groups[0].StyleName)
	assert.Len(t, groups[0].Images, 2)
	assert.Equal(t, "General", groups[1].StyleName)

	assert.True(t, g.ToggleFavorite("b"))
	assert.False(t, g.ToggleFavorite("zzz"))
	require.Len(t, g.Favorites(), 1)
	assert.Equal(t, "b", g.Favorites()[0].ID)

	assert.True(t, g.ToggleFavorite("b"))
	assert.Empty(t, g.Favorites())
}
