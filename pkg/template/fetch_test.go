package template

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aescanero/dago-template/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplateServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFromURL(t *testing.T) {
	srv := newTemplateServer(t, map[string]string{
		"/views/list.html": `<ul><template for-each="items: i"><li template-html="i"></li></template></ul>`,
	})

	tmpl, err := FromURL(context.Background(), srv.URL+"/views/list.html")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/views", tmpl.ExternalIncludeURL())

	tmpl.SetVariables(map[string]any{"items": []any{"a", "b"}})
	out, err := tmpl.RenderMarkup()
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", out)
}

func TestFromURL_NotFound(t *testing.T) {
	srv := newTemplateServer(t, nil)

	tmpl, err := FromURL(context.Background(), srv.URL+"/missing.html")
	require.Error(t, err)
	assert.Nil(t, tmpl)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, http.StatusNotFound, transport.StatusCode)
	assert.Equal(t, "Not Found", transport.Status)
	assert.Contains(t, err.Error(), "404 Not Found")
}

func TestFromURL_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/page.html"
	srv.Close()

	_, err := FromURL(context.Background(), url)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, 0, transport.StatusCode)
	assert.Error(t, transport.Cause)
	assert.Equal(t, url, transport.URL)
}

func TestFromURL_Canceled(t *testing.T) {
	srv := newTemplateServer(t, map[string]string{"/a.html": "<p>a</p>"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromURL(ctx, srv.URL+"/a.html")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromURL_MaxBytes(t *testing.T) {
	srv := newTemplateServer(t, map[string]string{"/big.html": strings.Repeat("x", 64)})

	_, err := FromURL(context.Background(), srv.URL+"/big.html", WithMaxBytes(16))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")

	_, err = FromURL(context.Background(), srv.URL+"/big.html", WithMaxBytes(64))
	assert.NoError(t, err)
}

func TestFromURL_HTTPClient(t *testing.T) {
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		fmt.Fprint(w, "<p>ok</p>")
	}))
	defer srv.Close()

	_, err := FromURL(context.Background(), srv.URL+"/p.html", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, "text/html", accept)
}

func TestFetchAll(t *testing.T) {
	srv := newTemplateServer(t, map[string]string{
		"/a.html": "<p>a</p>",
		"/b.html": "<p>b</p>",
		"/c.html": "<p>c</p>",
	})

	urls := []string{srv.URL + "/c.html", srv.URL + "/a.html", srv.URL + "/b.html"}
	templates, err := FetchAll(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, templates, 3)

	var got []string
	for _, tmpl := range templates {
		out, err := tmpl.RenderMarkup()
		require.NoError(t, err)
		got = append(got, out)
	}
	assert.Equal(t, []string{"<p>c</p>", "<p>a</p>", "<p>b</p>"}, got)
}

func TestFetchAll_FailsOnFirstError(t *testing.T) {
	srv := newTemplateServer(t, map[string]string{"/a.html": "<p>a</p>"})

	templates, err := FetchAll(context.Background(), []string{srv.URL + "/a.html", srv.URL + "/nope.html"})
	require.Error(t, err)
	assert.Nil(t, templates)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, http.StatusNotFound, transport.StatusCode)
}

func TestFromURL_Metrics(t *testing.T) {
	srv := newTemplateServer(t, map[string]string{"/a.html": "<p>a</p>"})
	registry := prometheus.NewRegistry()
	rec := metrics.NewRecorder(registry)

	_, err := FromURL(context.Background(), srv.URL+"/a.html", WithMetrics(rec))
	require.NoError(t, err)
	_, err = FromURL(context.Background(), srv.URL+"/b.html", WithMetrics(rec))
	require.Error(t, err)

	expected := `
# HELP template_fetches_total Total number of remote template fetches by result
# TYPE template_fetches_total counter
template_fetches_total{result="error"} 1
template_fetches_total{result="success"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "template_fetches_total"))
}
