package leads

import (
	"time"

	"kan-backend/internal/engine"
)

// Lead is one diagnosed prospect. The intake answers are kept verbatim and
// the analysis is persisted wholesale as JSON. Only the hash of the portal
// access code is stored; the plain code is returned once at creation.
type Lead struct {
	ID             string
	CreatedAt      time.Time
	Intake         engine.BusinessIntake
	AccessCodeHash string
	AccessCodeHint string
	Diagnosis      engine.AnalysisOutput
}
