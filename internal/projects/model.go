package projects

import "time"

// Project lifecycle statuses. A project starts pending until the prospect
// accepts both consents, then moves through provisioning.
const (
	StatusPendingConsent  = "pending_consent"
	StatusQueued          = "queued"
	StatusProvisioned     = "provisioned"
	StatusProvisionFailed = "provision_failed"
)

// Project is one implementation engagement for a lead: the modules the
// prospect confirmed plus the access payload collected during onboarding.
type Project struct {
	ID              string
	LeadID          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Status          string
	SelectedModules []string
	Access          map[string]any
	Notes           string
}

func validStatus(status string) bool {
	switch status {
	case StatusPendingConsent, StatusQueued, StatusProvisioned, StatusProvisionFailed:
		return true
	}
	return false
}
