package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type TestimonialRequest struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Location string `json:"location"`
}

type TestimonialDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
}

type testimonialRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Content   string    `db:"content"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
}

func testimonialDTO(row testimonialRow) TestimonialDTO {
	return TestimonialDTO{
		ID:        row.ID,
		Name:      row.Name,
		Content:   row.Content,
		Location:  row.Location,
		CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req TestimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Content = strings.TrimSpace(req.Content)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Content == "" || req.Location == "" {
		WriteError(w, http.StatusBadRequest, "Name, content, and location are required")
		return
	}
	var testimonialID int64
	err := s.DB.Get(&testimonialID, `
INSERT INTO testimonials (name, content, location, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id
`, req.Name, req.Content, req.Location, time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Testimonial created successfully", "id": testimonialID})
}

func (s *Server) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	rows := []testimonialRow{}
	if err := s.DB.Select(&rows, `
SELECT id, name, content, location, created_at
FROM testimonials
ORDER BY created_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]TestimonialDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, testimonialDTO(row))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	row := testimonialRow{}
	if err := s.DB.Get(&row, `
SELECT id, name, content, location, created_at
FROM testimonials WHERE id = $1
`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	WriteJSON(w, http.StatusOK, testimonialDTO(row))
}

type TestimonialUpdateRequest struct {
	Name     *string `json:"name"`
	Content  *string `json:"content"`
	Location *string `json:"location"`
}

func (s *Server) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	var req TestimonialUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	row := testimonialRow{}
	if err := s.DB.Get(&row, `
SELECT id, name, content, location, created_at
FROM testimonials WHERE id = $1
`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	if req.Name != nil {
		row.Name = strings.TrimSpace(*req.Name)
	}
	if req.Content != nil {
		row.Content = strings.TrimSpace(*req.Content)
	}
	if req.Location != nil {
		row.Location = strings.TrimSpace(*req.Location)
	}
	if row.Name == "" || row.Content == "" || row.Location == "" {
		WriteError(w, http.StatusBadRequest, "Name, content, and location are required")
		return
	}
	if _, err := s.DB.Exec(`
UPDATE testimonials SET name = $2, content = $3, location = $4
WHERE id = $1
`, id, row.Name, row.Content, row.Location); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Testimonial updated successfully"})
}

func (s *Server) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	result, err := s.DB.Exec(`DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		WriteError(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Testimonial deleted successfully"})
}
