package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type ContentDTO struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	Category      string  `json:"category"`
	ImagePath     *string `json:"image_path"`
	ImageMimetype *string `json:"image_mimetype"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type ContentListResponse struct {
	Contents    []ContentDTO `json:"contents"`
	Total       int          `json:"total"`
	Pages       int          `json:"pages"`
	CurrentPage int          `json:"current_page"`
}

type contentRow struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	Body          string    `db:"body"`
	Category      string    `db:"category"`
	HasImage      bool      `db:"has_image"`
	ImageMimetype *string   `db:"image_mimetype"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const contentSelect = `
SELECT id, title, body, category,
       image_data IS NOT NULL AS has_image, image_mimetype,
       created_at, updated_at
FROM content
`

func contentDTO(row contentRow) ContentDTO {
	var imagePath *string
	if row.HasImage {
		path := fmt.Sprintf("/api/content/image/%d", row.ID)
		imagePath = &path
	}
	return ContentDTO{
		ID:            row.ID,
		Title:         row.Title,
		Body:          row.Body,
		Category:      row.Category,
		ImagePath:     imagePath,
		ImageMimetype: row.ImageMimetype,
		CreatedAt:     row.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     row.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) ListContent(w http.ResponseWriter, r *http.Request) {
	page := parseInt(r.URL.Query().Get("page"), 1)
	perPage := parseInt(r.URL.Query().Get("per_page"), 10)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	where := ""
	args := []interface{}{}
	if category != "" {
		where = "WHERE category = $1"
		args = append(args, category)
	}
	var total int
	if err := s.DB.Get(&total, "SELECT count(*) FROM content "+where, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf("%s%s\nORDER BY created_at DESC\nLIMIT $%d OFFSET $%d", contentSelect, where, len(args)-1, len(args))
	rows := []contentRow{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ContentDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, contentDTO(row))
	}
	WriteJSON(w, http.StatusOK, ContentListResponse{
		Contents:    items,
		Total:       total,
		Pages:       int(math.Ceil(float64(total) / float64(perPage))),
		CurrentPage: page,
	})
}

func (s *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	row := contentRow{}
	if err := s.DB.Get(&row, contentSelect+"WHERE id = $1", id); err != nil {
		WriteError(w, http.StatusNotFound, "Content not found")
		return
	}
	WriteJSON(w, http.StatusOK, contentDTO(row))
}

func (s *Server) ContentByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	rows := []contentRow{}
	if err := s.DB.Select(&rows, contentSelect+"WHERE category = $1\nORDER BY created_at DESC", category); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ContentDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, contentDTO(row))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ContentImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	row := struct {
		ImageData     []byte    `db:"image_data"`
		ImageMimetype *string   `db:"image_mimetype"`
		UpdatedAt     time.Time `db:"updated_at"`
	}{}
	if err := s.DB.Get(&row, `SELECT image_data, image_mimetype, updated_at FROM content WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Content not found")
		return
	}
	if len(row.ImageData) == 0 {
		WriteError(w, http.StatusNotFound, "No image found for this content")
		return
	}
	if row.ImageMimetype != nil {
		w.Header().Set("Content-Type", *row.ImageMimetype)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", fmt.Sprintf(`"content-image-%d-%d"`, id, row.UpdatedAt.Unix()))
	_, _ = w.Write(row.ImageData)
}

// CreateContent stores uploaded images as-is. Unlike blog posts there is
// no re-encode pass, the admin panel serves these bytes back verbatim.
func (s *Server) CreateContent(w http.ResponseWriter, r *http.Request) {
	upload, err := readImageUpload(r)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	if upload != nil && upload.Clear {
		WriteError(w, http.StatusBadRequest, "No image selected")
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	body := strings.TrimSpace(r.FormValue("body"))
	category := strings.TrimSpace(r.FormValue("category"))
	if title == "" || body == "" || category == "" {
		WriteError(w, http.StatusBadRequest, "Title, body, and category are required")
		return
	}
	var imageData []byte
	var imageMimetype *string
	if upload != nil {
		imageData = upload.Data
		imageMimetype = &upload.Mimetype
	}
	userID := CurrentUserID(r)
	now := time.Now().UTC()
	var contentID int64
	err = s.DB.Get(&contentID, `
INSERT INTO content (title, body, category, image_data, image_mimetype, user_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
RETURNING id
`, title, body, category, imageData, imageMimetype, userID, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Content created successfully", "id": contentID})
}

func (s *Server) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	upload, err := readImageUpload(r)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	row := struct {
		Title    string `db:"title"`
		Body     string `db:"body"`
		Category string `db:"category"`
	}{}
	if err := s.DB.Get(&row, `SELECT title, body, category FROM content WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Content not found")
		return
	}

	title := formValueOr(r, "title", row.Title)
	body := formValueOr(r, "body", row.Body)
	category := formValueOr(r, "category", row.Category)
	now := time.Now().UTC()

	if upload != nil {
		var imageData []byte
		var imageMimetype *string
		if !upload.Clear {
			imageData = upload.Data
			imageMimetype = &upload.Mimetype
		}
		_, err = s.DB.Exec(`
UPDATE content SET title = $2, body = $3, category = $4, image_data = $5, image_mimetype = $6, updated_at = $7
WHERE id = $1
`, id, title, body, category, imageData, imageMimetype, now)
	} else {
		_, err = s.DB.Exec(`
UPDATE content SET title = $2, body = $3, category = $4, updated_at = $5
WHERE id = $1
`, id, title, body, category, now)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Content updated successfully"})
}

func (s *Server) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	result, err := s.DB.Exec(`DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		WriteError(w, http.StatusNotFound, "Content not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Content deleted successfully"})
}
