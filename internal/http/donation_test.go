package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDonationDefaults(t *testing.T) {
	req := DonationRequest{Amount: 50, Email: "donor@example.org"}
	applyDonationDefaults(&req)
	assert.Equal(t, "One-time", req.Frequency)
	assert.Equal(t, "Private", req.Recognition)

	req = DonationRequest{Amount: 50, Email: "donor@example.org", Frequency: "Monthly", Recognition: "Public"}
	applyDonationDefaults(&req)
	assert.Equal(t, "Monthly", req.Frequency)
	assert.Equal(t, "Public", req.Recognition)
}
