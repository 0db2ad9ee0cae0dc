package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDTO(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	mimetype := "image/jpeg"
	dto := postDTO(postRow{
		ID:            12,
		Title:         "Clean water for Kaduna",
		Content:       "Full story",
		Category:      "projects",
		HasImage:      true,
		ImageMimetype: &mimetype,
		AuthorID:      3,
		CreatedAt:     created,
		UpdatedAt:     created,
		CommentCount:  4,
		LikeCount:     9,
	})

	require.NotNil(t, dto.ImagePath)
	assert.Equal(t, "/api/blog/image/12", *dto.ImagePath)
	assert.Equal(t, "2026-03-14T09:26:53Z", dto.CreatedAt)
	assert.Equal(t, 4, dto.CommentCount)
	assert.Equal(t, 9, dto.LikeCount)
}

func TestPostDTOWithoutImage(t *testing.T) {
	dto := postDTO(postRow{ID: 5, HasImage: false})
	assert.Nil(t, dto.ImagePath)
	assert.Nil(t, dto.ImageMimetype)
}

func emptyImageForm(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	_, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename=""`},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/blog", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestCreatePostRejectsEmptyImageSelection(t *testing.T) {
	s := &Server{}
	fields := map[string]string{"title": "T", "content": "C", "category": "news"}

	w := httptest.NewRecorder()
	s.CreatePost(w, emptyImageForm(t, fields))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "No image selected", body.Error)
}

func TestCreateContentRejectsEmptyImageSelection(t *testing.T) {
	s := &Server{}
	fields := map[string]string{"title": "T", "body": "B", "category": "about"}

	w := httptest.NewRecorder()
	s.CreateContent(w, emptyImageForm(t, fields))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "No image selected", body.Error)
}

func TestContentDTOImagePath(t *testing.T) {
	dto := contentDTO(contentRow{ID: 8, HasImage: true})
	require.NotNil(t, dto.ImagePath)
	assert.Equal(t, "/api/content/image/8", *dto.ImagePath)
}
