package httpx

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_DefinesEveryPage(t *testing.T) {
	tr := RequireTemplateRenderer(t)

	set := tr.templates()
	for page, name := range ContentTemplateMap() {
		assert.NotNil(t, set.Lookup(name), "page %q has no %q template", page, name)
	}
	for _, layout := range []string{"layout", "auth-layout", "loading-layout", "error-layout"} {
		assert.NotNil(t, set.Lookup(layout), "missing layout %q", layout)
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	tr := RequireTemplateRenderer(t)

	rec := httptest.NewRecorder()
	err := tr.ExecuteTemplate(rec, "no-such-template", nil)
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
}

func TestNewTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}
