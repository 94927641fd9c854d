package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aouyang1/betasalon/catalog"
)

func TestRenderMarkdown(t *testing.T) {
	r := NewRenderer()

	got, err := r.Render("**מקצועיות** ואיכות\n\nשורה שנייה")
	require.NoError(t, err)
	require.Contains(t, string(got), "<strong>מקצועיות</strong>")
	require.Equal(t, 2, strings.Count(string(got), "<p>"))
}

func TestRenderStripsScripts(t *testing.T) {
	r := NewRenderer()

	got, err := r.Render("hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	require.NotContains(t, string(got), "<script")
	require.NotContains(t, string(got), "javascript:")
}

func TestRenderLinksAreNoFollow(t *testing.T) {
	r := NewRenderer()

	got, err := r.Render("see https://example.com")
	require.NoError(t, err)
	require.Contains(t, string(got), `rel="nofollow`)
}

func TestRenderAboutUsesDefaults(t *testing.T) {
	r := NewRenderer()

	about, err := r.RenderAbout(catalog.About{Mission: "_our_ mission"})
	require.NoError(t, err)
	require.Equal(t, catalog.DefaultAbout.SalonName, about.SalonName)
	require.Contains(t, string(about.Mission), "<em>our</em>")
	require.NotEmpty(t, about.History)
	require.Len(t, about.Values, len(catalog.DefaultAbout.Values))
}
