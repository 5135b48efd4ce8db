package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compressionCase struct {
	method         string
	acceptEncoding string
	contentType    string
	encoding       string
	status         int
	body           string
}

func serveCompressed(t *testing.T, tc compressionCase) *http.Response {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if tc.contentType != "" {
			w.Header().Set("Content-Type", tc.contentType)
		}
		if tc.encoding != "" {
			w.Header().Set("Content-Encoding", tc.encoding)
		}
		status := tc.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if tc.body != "" {
			_, _ = io.WriteString(w, tc.body)
		}
	})

	method := tc.method
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, "/", nil)
	if tc.acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", tc.acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(CompressionConfig{Level: 6})(handler).ServeHTTP(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCompression_GzipsHTML(t *testing.T) {
	content := strings.Repeat("Inventory ", 500)
	resp := serveCompressed(t, compressionCase{
		acceptEncoding: "gzip, deflate",
		contentType:    "text/html; charset=utf-8",
		body:           content,
	})

	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", resp.Header.Get("Vary"))
	assert.Empty(t, resp.Header.Get("Content-Length"))

	gr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	defer gr.Close()
	body, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
}

func TestCompression_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		tc   compressionCase
	}{
		{"no accept-encoding", compressionCase{contentType: "text/html", body: "x"}},
		{"deflate only", compressionCase{acceptEncoding: "deflate", contentType: "text/html", body: "x"}},
		{"gzip disabled by q=0", compressionCase{acceptEncoding: "gzip;q=0", contentType: "text/html", body: "x"}},
		{"head request", compressionCase{method: http.MethodHead, acceptEncoding: "gzip", contentType: "text/html"}},
		{"image", compressionCase{acceptEncoding: "gzip", contentType: "image/png", body: "x"}},
		{"no content", compressionCase{acceptEncoding: "gzip", status: http.StatusNoContent}},
		{"not modified", compressionCase{acceptEncoding: "gzip", status: http.StatusNotModified}},
		{"already encoded", compressionCase{acceptEncoding: "gzip", contentType: "text/html", encoding: "br", body: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serveCompressed(t, tt.tc)
			assert.NotEqual(t, "gzip", resp.Header.Get("Content-Encoding"))
			if tt.tc.encoding != "" {
				assert.Equal(t, tt.tc.encoding, resp.Header.Get("Content-Encoding"))
			}
			if tt.tc.body != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.tc.body, string(body))
			}
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"gzip", true},
		{"gzip;q=1", true},
		{"gzip;q=0.5", true},
		{"deflate, gzip", true},
		{"GZIP", true},
		{"gzip;q=0", false},
		{"gzip; q=0.0", false},
		{"deflate", false},
		{"x-gzip", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, acceptsGzip(tt.in), "acceptsGzip(%q)", tt.in)
	}
}

func TestIsCompressibleContentType(t *testing.T) {
	assert.True(t, isCompressibleContentType("text/html; charset=utf-8"))
	assert.True(t, isCompressibleContentType("application/json"))
	assert.True(t, isCompressibleContentType("Text/CSS"))
	assert.False(t, isCompressibleContentType("image/jpeg"))
	assert.False(t, isCompressibleContentType(""))
}
