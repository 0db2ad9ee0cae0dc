package httpapi

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"senidea-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostDTO struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Category      string  `json:"category"`
	ImagePath     *string `json:"image_path"`
	ImageMimetype *string `json:"image_mimetype"`
	AuthorID      int64   `json:"author_id"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
	CommentCount  int     `json:"comment_count"`
	LikeCount     int     `json:"like_count"`
}

type PostListResponse struct {
	Posts []PostDTO `json:"posts"`
	Total int       `json:"total"`
}

type CommentDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type postRow struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	Content       string    `db:"content"`
	Category      string    `db:"category"`
	HasImage      bool      `db:"has_image"`
	ImageMimetype *string   `db:"image_mimetype"`
	AuthorID      int64     `db:"author_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	CommentCount  int       `db:"comment_count"`
	LikeCount     int       `db:"like_count"`
}

const postSelect = `
SELECT p.id, p.title, p.content, p.category,
       p.image_data IS NOT NULL AS has_image, p.image_mimetype,
       p.author_id, p.created_at, p.updated_at,
       (SELECT count(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
       (SELECT count(*) FROM likes l WHERE l.post_id = p.id) AS like_count
FROM blog_posts p
`

func postDTO(row postRow) PostDTO {
	var imagePath *string
	if row.HasImage {
		path := fmt.Sprintf("/api/blog/image/%d", row.ID)
		imagePath = &path
	}
	return PostDTO{
		ID:            row.ID,
		Title:         row.Title,
		Content:       row.Content,
		Category:      row.Category,
		ImagePath:     imagePath,
		ImageMimetype: row.ImageMimetype,
		AuthorID:      row.AuthorID,
		CreatedAt:     row.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     row.UpdatedAt.UTC().Format(time.RFC3339),
		CommentCount:  row.CommentCount,
		LikeCount:     row.LikeCount,
	}
}

func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	limit := parseInt(r.URL.Query().Get("limit"), 3)
	offset := parseInt(r.URL.Query().Get("offset"), 0)
	if limit < 1 {
		limit = 3
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []interface{}{}
	if category != "" {
		where = "WHERE p.category = $1"
		args = append(args, category)
	}
	var total int
	if err := s.DB.Get(&total, "SELECT count(*) FROM blog_posts p "+where, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf("%s%s\nORDER BY p.created_at DESC\nLIMIT $%d OFFSET $%d", postSelect, where, len(args)-1, len(args))
	rows := []postRow{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	posts := make([]PostDTO, 0, len(rows))
	var newest time.Time
	for _, row := range rows {
		posts = append(posts, postDTO(row))
		if row.UpdatedAt.After(newest) {
			newest = row.UpdatedAt
		}
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("ETag", fmt.Sprintf(`"posts-%d-%d"`, len(posts), newest.Unix()))
	WriteJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: total})
}

func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	row := postRow{}
	if err := s.DB.Get(&row, postSelect+"WHERE p.id = $1", id); err != nil {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("ETag", fmt.Sprintf(`"post-%d-%d"`, id, row.UpdatedAt.Unix()))
	WriteJSON(w, http.StatusOK, postDTO(row))
}

func (s *Server) PostImage(w http.ResponseWriter, r *http.Request) {
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
	if err := s.DB.Get(&row, `SELECT image_data, image_mimetype, updated_at FROM blog_posts WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	if len(row.ImageData) == 0 {
		WriteError(w, http.StatusNotFound, "No image found for this post")
		return
	}
	if row.ImageMimetype != nil {
		w.Header().Set("Content-Type", *row.ImageMimetype)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", fmt.Sprintf(`"image-%d-%d"`, id, row.UpdatedAt.Unix()))
	_, _ = w.Write(row.ImageData)
}

func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	upload, err := readImageUpload(r)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	if upload != nil && upload.Clear {
		WriteError(w, http.StatusBadRequest, "No image selected")
		return
	}
	var imageData []byte
	var imageMimetype *string
	if upload != nil {
		imageData, err = services.NormalizeImage(upload.Data, upload.Mimetype)
		if err != nil {
			mapServiceError(w, err)
			return
		}
		imageMimetype = &upload.Mimetype
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	category := strings.TrimSpace(r.FormValue("category"))
	if title == "" || content == "" || category == "" {
		WriteError(w, http.StatusBadRequest, "Title, content, and category are required")
		return
	}

	now := time.Now().UTC()
	var postID int64
	err = s.DB.Get(&postID, `
INSERT INTO blog_posts (title, content, category, image_data, image_mimetype, author_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
RETURNING id
`, title, content, category, imageData, imageMimetype, CurrentUserID(r), now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Blog post created successfully", "id": postID})
}

func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
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
		Content  string `db:"content"`
		Category string `db:"category"`
	}{}
	if err := s.DB.Get(&row, `SELECT title, content, category FROM blog_posts WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}

	title := formValueOr(r, "title", row.Title)
	content := formValueOr(r, "content", row.Content)
	category := formValueOr(r, "category", row.Category)
	now := time.Now().UTC()

	if upload != nil {
		var imageData []byte
		var imageMimetype *string
		if !upload.Clear {
			imageData, err = services.NormalizeImage(upload.Data, upload.Mimetype)
			if err != nil {
				mapServiceError(w, err)
				return
			}
			imageMimetype = &upload.Mimetype
		}
		_, err = s.DB.Exec(`
UPDATE blog_posts SET title = $2, content = $3, category = $4, image_data = $5, image_mimetype = $6, updated_at = $7
WHERE id = $1
`, id, title, content, category, imageData, imageMimetype, now)
	} else {
		_, err = s.DB.Exec(`
UPDATE blog_posts SET title = $2, content = $3, category = $4, updated_at = $5
WHERE id = $1
`, id, title, content, category, now)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Blog post updated successfully"})
}

// DeletePost removes the post together with its comments and likes in one
// transaction.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	tx, err := s.DB.Beginx()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		_ = tx.Rollback()
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if _, err := tx.Exec(`DELETE FROM likes WHERE post_id = $1`, id); err != nil {
		_ = tx.Rollback()
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	result, err := tx.Exec(`DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		_ = tx.Rollback()
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	if err := tx.Commit(); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Blog post deleted successfully"})
}

func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	if !s.postExists(id) {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	rows := []struct {
		ID        int64     `db:"id"`
		Username  string    `db:"username"`
		Content   string    `db:"content"`
		CreatedAt time.Time `db:"created_at"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT id, username, content, created_at FROM comments
WHERE post_id = $1
ORDER BY created_at DESC
`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]CommentDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, CommentDTO{
			ID:        row.ID,
			Username:  row.Username,
			Content:   row.Content,
			CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	WriteJSON(w, http.StatusOK, items)
}

type CommentRequest struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	if !s.postExists(id) {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	if req.Username == "" || req.Content == "" {
		WriteError(w, http.StatusBadRequest, "Username and comment content are required")
		return
	}
	if len(req.Username) > 100 {
		WriteError(w, http.StatusBadRequest, "Username must be 100 characters or less")
		return
	}
	if len(req.Content) > 1000 {
		WriteError(w, http.StatusBadRequest, "Comment must be 1000 characters or less")
		return
	}
	var commentID int64
	err = s.DB.Get(&commentID, `
INSERT INTO comments (post_id, user_id, username, content, created_at)
VALUES ($1,NULL,$2,$3,$4)
RETURNING id
`, id, req.Username, req.Content, time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Comment added successfully", "id": commentID})
}

// ToggleLike flips the like state for (post, caller IP). The unique
// constraint on that pair settles concurrent first-time likes: the loser
// of the race sees a conflict and reports the winner's count.
func (s *Server) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	if !s.postExists(id) {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	ip := clientIP(r)
	if ip == "" {
		WriteError(w, http.StatusBadRequest, "Unable to detect IP address")
		return
	}
	var likeID int64
	err = s.DB.Get(&likeID, `SELECT id FROM likes WHERE post_id = $1 AND ip_address = $2`, id, ip)
	switch {
	case err == nil:
		if _, err := s.DB.Exec(`DELETE FROM likes WHERE id = $1`, likeID); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Like removed successfully", "like_count": s.likeCount(id)})
	case errors.Is(err, sql.ErrNoRows):
		_, err := s.DB.Exec(`
INSERT INTO likes (post_id, user_id, ip_address, created_at)
VALUES ($1,NULL,$2,$3)
`, id, ip, time.Now().UTC())
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				// Lost a concurrent toggle. The row exists now.
				WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Like added successfully", "like_count": s.likeCount(id)})
				return
			}
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Like added successfully", "like_count": s.likeCount(id)})
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) GetLikes(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	if !s.postExists(id) {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	ip := clientIP(r)
	var liked bool
	_ = s.DB.Get(&liked, `SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND ip_address = $2)`, id, ip)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"like_count": s.likeCount(id), "user_liked": liked})
}

func (s *Server) postExists(id int64) bool {
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE id = $1)`, id); err != nil {
		return false
	}
	return exists
}

func (s *Server) likeCount(postID int64) int {
	var count int
	_ = s.DB.Get(&count, `SELECT count(*) FROM likes WHERE post_id = $1`, postID)
	return count
}
