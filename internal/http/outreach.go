package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type SubscribeRequest struct {
	Email string `json:"email"`
}

func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	_, err := s.DB.Exec(`
INSERT INTO newsletter_subscriptions (email, subscribed_at)
VALUES ($1,$2)
`, email, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			WriteError(w, http.StatusBadRequest, "Email already subscribed")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"message": "Subscribed successfully"})
}

func (s *Server) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	rows := []struct {
		ID           int64     `db:"id"`
		Email        string    `db:"email"`
		SubscribedAt time.Time `db:"subscribed_at"`
	}{}
	if err := s.DB.Select(&rows, `SELECT id, email, subscribed_at FROM newsletter_subscriptions ORDER BY subscribed_at DESC`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		items = append(items, map[string]interface{}{
			"id":            row.ID,
			"email":         row.Email,
			"subscribed_at": row.SubscribedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	result, err := s.DB.Exec(`DELETE FROM newsletter_subscriptions WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		WriteError(w, http.StatusNotFound, "Subscription not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Subscription deleted successfully"})
}

type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

func (s *Server) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		WriteError(w, http.StatusBadRequest, "Name, email, and message are required")
		return
	}
	var contactID int64
	err := s.DB.Get(&contactID, `
INSERT INTO contact_messages (name, email, message, phone_number, address, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, req.Name, req.Email, req.Message, nullIfEmpty(req.PhoneNumber), nullIfEmpty(req.Address), time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Message sent successfully", "id": contactID})
}

type contactRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Message     string    `db:"message"`
	PhoneNumber *string   `db:"phone_number"`
	Address     *string   `db:"address"`
	CreatedAt   time.Time `db:"created_at"`
}

func contactJSON(row contactRow) map[string]interface{} {
	return map[string]interface{}{
		"id":           row.ID,
		"name":         row.Name,
		"email":        row.Email,
		"message":      row.Message,
		"phone_number": row.PhoneNumber,
		"address":      row.Address,
		"created_at":   row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) ListContacts(w http.ResponseWriter, r *http.Request) {
	rows := []contactRow{}
	if err := s.DB.Select(&rows, `
SELECT id, name, email, message, phone_number, address, created_at
FROM contact_messages
ORDER BY created_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		items = append(items, contactJSON(row))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	row := contactRow{}
	if err := s.DB.Get(&row, `
SELECT id, name, email, message, phone_number, address, created_at
FROM contact_messages WHERE id = $1
`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Contact message not found")
		return
	}
	WriteJSON(w, http.StatusOK, contactJSON(row))
}

func (s *Server) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	result, err := s.DB.Exec(`DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		WriteError(w, http.StatusNotFound, "Contact message not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Contact message deleted successfully"})
}

// PartnershipInfo is a static describe endpoint for the partner page.
func (s *Server) PartnershipInfo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Submit your organization details to partner with us",
	})
}

type PartnershipRequest struct {
	Organization string `json:"organization"`
	Email        string `json:"email"`
	Message      string `json:"message"`
}

func (s *Server) SubmitPartnership(w http.ResponseWriter, r *http.Request) {
	var req PartnershipRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	req.Organization = strings.TrimSpace(req.Organization)
	req.Email = strings.TrimSpace(req.Email)
	if req.Organization == "" || req.Email == "" {
		WriteError(w, http.StatusBadRequest, "Organization and email are required")
		return
	}
	var partnershipID int64
	err := s.DB.Get(&partnershipID, `
INSERT INTO partnerships (organization, email, message, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id
`, req.Organization, req.Email, nullIfEmpty(req.Message), time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Partnership request submitted successfully", "id": partnershipID})
}

func (s *Server) ListPartnerships(w http.ResponseWriter, r *http.Request) {
	rows := []struct {
		ID           int64     `db:"id"`
		Organization string    `db:"organization"`
		Email        string    `db:"email"`
		Message      *string   `db:"message"`
		CreatedAt    time.Time `db:"created_at"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT id, organization, email, message, created_at
FROM partnerships
ORDER BY created_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		items = append(items, map[string]interface{}{
			"id":           row.ID,
			"organization": row.Organization,
			"email":        row.Email,
			"message":      row.Message,
			"created_at":   row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) DeletePartnership(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	result, err := s.DB.Exec(`DELETE FROM partnerships WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		WriteError(w, http.StatusNotFound, "Partnership not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Partnership deleted successfully"})
}

type VolunteerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Skills string `json:"skills"`
}

func (s *Server) CreateVolunteer(w http.ResponseWriter, r *http.Request) {
	var req VolunteerRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		WriteError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	var volunteerID int64
	err := s.DB.Get(&volunteerID, `
INSERT INTO volunteers (name, email, skills, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id
`, req.Name, req.Email, nullIfEmpty(req.Skills), time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": "Volunteer registered successfully", "id": volunteerID})
}

func (s *Server) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	rows := []struct {
		ID        int64     `db:"id"`
		Name      string    `db:"name"`
		Email     string    `db:"email"`
		Skills    *string   `db:"skills"`
		CreatedAt time.Time `db:"created_at"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT id, name, email, skills, created_at
FROM volunteers
ORDER BY created_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		items = append(items, map[string]interface{}{
			"id":         row.ID,
			"name":       row.Name,
			"email":      row.Email,
			"skills":     row.Skills,
			"created_at": row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, items)
}
