package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

func TestTemplateRenderer_LoadTemplates(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	require.NotNil(t, tr.t)

	loaded := map[string]bool{}
	for _, tmpl := range tr.t.Templates() {
		loaded[tmpl.Name()] = true
	}

	expected := []string{"layout", "content", "error-layout", "header", "flash", "listing-card", "listing-grid", "listing-form"}
	for _, name := range contentTemplates {
		expected = append(expected, name)
	}
	for _, name := range expected {
		assert.True(t, loaded[name], "template %s should be loaded", name)
	}
}

func TestTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestTemplateRenderer_RenderFullAndPartial(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	r := httptest.NewRequest(http.MethodGet, "/about", nil)
	data := NewTemplateData(r, PageMeta{Title: "About", PageTitle: "About EcoWorth", CurrentPage: PageAbout}).
		With("Categories", listing.Categories()).
		Build()

	full := httptest.NewRecorder()
	require.NoError(t, tr.RenderFull(full, r, data))
	assert.Equal(t, "text/html; charset=utf-8", full.Header().Get("Content-Type"))
	assert.True(t, ContainsAll(full.Body.String(), []string{"<html", "About EcoWorth", "PET", `id="content"`}))

	partial := httptest.NewRecorder()
	require.NoError(t, tr.RenderPartial(partial, r, data))
	assert.Contains(t, partial.Body.String(), "About EcoWorth")
	assert.NotContains(t, partial.Body.String(), "<html")
}

func TestTemplateRenderer_FailedRenderWritesNothing(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	tr.logger = discardLogger()
	w := httptest.NewRecorder()

	err := tr.RenderFragment(w, "no-such-template", nil)

	require.Error(t, err)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Type"))
}
