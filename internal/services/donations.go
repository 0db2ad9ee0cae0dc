package services

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"senidea-backend-go/internal/models"
)

// SettleDonation records the outcome of a gateway verification.
func SettleDonation(db *sqlx.DB, reference, status string) error {
	_, err := db.Exec(`UPDATE donations SET status = $1 WHERE paystack_transaction_ref = $2`, status, reference)
	return err
}

// ReconcilePending re-verifies donations stuck in PENDING against the
// gateway. Rows younger than the grace period are skipped so that donors
// still on the checkout page are not marked FAILED under them.
func ReconcilePending(ctx context.Context, db *sqlx.DB, gateway *Paystack, grace time.Duration) {
	refs := []string{}
	cutoff := time.Now().UTC().Add(-grace)
	if err := db.Select(&refs, `
SELECT paystack_transaction_ref FROM donations
WHERE status = $1 AND created_at < $2
ORDER BY created_at ASC
LIMIT 50
`, models.DonationPending, cutoff); err != nil {
		log.Printf("reconcile: list pending: %v", err)
		return
	}
	for _, ref := range refs {
		success, err := gateway.VerifyTransaction(ctx, ref)
		if err != nil {
			if serr, ok := err.(ServiceError); ok {
				// The gateway answered and rejected the reference.
				log.Printf("reconcile: %s rejected: %s", ref, serr.Message)
				_ = SettleDonation(db, ref, models.DonationFailed)
			} else {
				log.Printf("reconcile: %s verify: %v", ref, err)
			}
			continue
		}
		status := models.DonationFailed
		if success {
			status = models.DonationVerified
		}
		if err := SettleDonation(db, ref, status); err != nil {
			log.Printf("reconcile: %s settle: %v", ref, err)
		}
	}
}
