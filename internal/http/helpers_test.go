package httpapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"direct", "203.0.113.7:54321", "", "203.0.113.7"},
		{"behind proxy", "10.0.0.1:80", "198.51.100.4", "198.51.100.4"},
		{"proxy chain takes first hop", "10.0.0.1:80", "198.51.100.4, 10.0.0.2", "198.51.100.4"},
		{"no port", "203.0.113.7", "", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, parseInt("5", 3))
	assert.Equal(t, 3, parseInt("", 3))
	assert.Equal(t, 3, parseInt("abc", 3))
	assert.Equal(t, -1, parseInt("-1", 3))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-7", "1.5"} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Nil(t, nullIfEmpty("   "))
	value := nullIfEmpty("hello")
	require.NotNil(t, value)
	assert.Equal(t, "hello", *value)
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "abc", trimString("  abc  ", 10))
	assert.Equal(t, "ab", trimString("abcdef", 2))
	assert.Equal(t, "", trimString("   ", 10))
}

func multipartRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	r := httptest.NewRequest(http.MethodPut, "/", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestFormValueOrKeepsFallbackForOmittedFields(t *testing.T) {
	r := multipartRequest(t, map[string]string{"title": "New title", "category": ""})
	require.NoError(t, r.ParseMultipartForm(2<<20))

	assert.Equal(t, "New title", formValueOr(r, "title", "Old title"))
	// Sent empty means "set to empty", omitted means "keep".
	assert.Equal(t, "", formValueOr(r, "category", "old-category"))
	assert.Equal(t, "Old body", formValueOr(r, "content", "Old body"))
}

func TestReadImageUploadMissingFile(t *testing.T) {
	r := multipartRequest(t, map[string]string{"title": "No image here"})
	upload, err := readImageUpload(r)
	require.NoError(t, err)
	assert.Nil(t, upload)
}

func TestReadImageUploadEmptyFilenameMeansClear(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename=""`},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPut, "/", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	upload, err := readImageUpload(r)
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.True(t, upload.Clear)
	assert.Empty(t, upload.Data)
}

func TestReadImageUploadRejectsNonImage(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename="report.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	_, err = readImageUpload(r)
	assert.Error(t, err)
}

func TestReadImageUploadAcceptsSmallImage(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename="cover.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	upload, err := readImageUpload(r)
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.False(t, upload.Clear)
	assert.Equal(t, "image/png", upload.Mimetype)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, upload.Data)
}
