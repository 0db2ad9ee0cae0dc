package httpapi

import (
	"net/http"
	"strings"
	"time"

	"senidea-backend-go/internal/models"
	"senidea-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type DonationRequest struct {
	Amount      float64 `json:"amount"`
	Email       string  `json:"email"`
	Frequency   string  `json:"frequency"`
	Recognition string  `json:"recognition"`
}

// Admin tooling filters on these values; keep them spelled this way.
func applyDonationDefaults(req *DonationRequest) {
	if req.Frequency == "" {
		req.Frequency = "One-time"
	}
	if req.Recognition == "" {
		req.Recognition = "Private"
	}
}

type DonationDTO struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Email       string  `json:"email"`
	Frequency   string  `json:"frequency"`
	Recognition string  `json:"recognition"`
	Reference   string  `json:"paystack_transaction_ref"`
	Status      string  `json:"status"`
	UserEmail   *string `json:"user_email"`
	CreatedAt   string  `json:"created_at"`
}

// InitiateDonation opens a Paystack checkout session and records the
// donation as PENDING under the returned reference. Authentication is
// optional, a logged-in donor gets the row bound to their account.
func (s *Server) InitiateDonation(w http.ResponseWriter, r *http.Request) {
	var req DonationRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Amount <= 0 {
		WriteError(w, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}
	if req.Email == "" {
		WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}
	applyDonationDefaults(&req)

	var userID *int64
	if id := CurrentUserID(r); id != 0 {
		userID = &id
		// A logged-in donor's account email wins over whatever the form sent.
		if email := CurrentEmail(r); email != "" {
			req.Email = email
		}
	}

	result, err := s.Gateway.InitializeTransaction(r.Context(), services.InitializeRequest{
		Email:       req.Email,
		AmountMinor: int64(req.Amount * 100),
		CallbackURL: s.Config.PaystackCallbackURL,
		Metadata: map[string]interface{}{
			"frequency":   req.Frequency,
			"recognition": req.Recognition,
		},
	})
	if err != nil {
		if !mapServiceError(w, err) {
			WriteError(w, http.StatusBadGateway, "Payment gateway unavailable")
		}
		return
	}

	_, err = s.DB.Exec(`
INSERT INTO donations (user_id, amount, email, frequency, recognition, paystack_transaction_ref, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, userID, req.Amount, req.Email, req.Frequency, req.Recognition, result.Reference, models.DonationPending, time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"authorization_url": result.AuthorizationURL,
		"access_code":       result.AccessCode,
		"reference":         result.Reference,
	})
}

// VerifyDonation re-checks a reference against the gateway and settles the
// stored status accordingly.
func (s *Server) VerifyDonation(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM donations WHERE paystack_transaction_ref = $1)`, reference); err != nil || !exists {
		WriteError(w, http.StatusNotFound, "Donation not found")
		return
	}
	success, err := s.Gateway.VerifyTransaction(r.Context(), reference)
	if err != nil {
		if serr, ok := err.(services.ServiceError); ok {
			_ = services.SettleDonation(s.DB, reference, models.DonationFailed)
			WriteError(w, serr.Status, serr.Message)
			return
		}
		WriteError(w, http.StatusBadGateway, "Payment gateway unavailable")
		return
	}
	if !success {
		_ = services.SettleDonation(s.DB, reference, models.DonationFailed)
		WriteError(w, http.StatusBadRequest, "Payment verification failed")
		return
	}
	if err := services.SettleDonation(s.DB, reference, models.DonationVerified); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"status": models.DonationVerified, "verified": true})
}

func (s *Server) ListDonations(w http.ResponseWriter, r *http.Request) {
	rows := []struct {
		ID          int64     `db:"id"`
		Amount      float64   `db:"amount"`
		Email       string    `db:"email"`
		Frequency   string    `db:"frequency"`
		Recognition string    `db:"recognition"`
		Reference   string    `db:"paystack_transaction_ref"`
		Status      string    `db:"status"`
		UserEmail   *string   `db:"user_email"`
		CreatedAt   time.Time `db:"created_at"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT d.id, d.amount, d.email, d.frequency, d.recognition,
       d.paystack_transaction_ref, d.status, u.email AS user_email, d.created_at
FROM donations d
LEFT JOIN users u ON u.id = d.user_id
ORDER BY d.created_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]DonationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, DonationDTO{
			ID:          row.ID,
			Amount:      row.Amount,
			Email:       row.Email,
			Frequency:   row.Frequency,
			Recognition: row.Recognition,
			Reference:   row.Reference,
			Status:      row.Status,
			UserEmail:   row.UserEmail,
			CreatedAt:   row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

type DonationUpdateRequest struct {
	Amount      *float64 `json:"amount"`
	Frequency   *string  `json:"frequency"`
	Recognition *string  `json:"recognition"`
	UserEmail   *string  `json:"user_email"`
}

func (s *Server) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	var req DonationUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		mapServiceError(w, err)
		return
	}
	row := struct {
		Amount      float64 `db:"amount"`
		Frequency   string  `db:"frequency"`
		Recognition string  `db:"recognition"`
		UserID      *int64  `db:"user_id"`
	}{}
	if err := s.DB.Get(&row, `SELECT amount, frequency, recognition, user_id FROM donations WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Donation not found")
		return
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			WriteError(w, http.StatusBadRequest, "Amount must be greater than zero")
			return
		}
		row.Amount = *req.Amount
	}
	if req.Frequency != nil {
		row.Frequency = *req.Frequency
	}
	if req.Recognition != nil {
		row.Recognition = *req.Recognition
	}
	if req.UserEmail != nil {
		user, err := services.FindUserByEmail(s.DB, strings.TrimSpace(*req.UserEmail))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user == nil {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		row.UserID = &user.ID
	}
	if _, err := s.DB.Exec(`
UPDATE donations SET amount = $2, frequency = $3, recognition = $4, user_id = $5
WHERE id = $1
`, id, row.Amount, row.Frequency, row.Recognition, row.UserID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Donation updated successfully"})
}

func (s *Server) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	result, err := s.DB.Exec(`DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		WriteError(w, http.StatusNotFound, "Donation not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Donation deleted successfully"})
}
