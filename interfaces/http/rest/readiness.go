package rest

import (
	"context"

	"retroboard/application/ports"
	"retroboard/domain/core/valueobjects"
)

// readinessProbeID never exists; looking it up exercises the storage path
// without depending on any data
var readinessProbeID = valueobjects.MustSessionID("readiness-probe")

// StorageReadiness reports ready when the session store answers a lookup
func StorageReadiness(sessions ports.SessionRepository) ReadinessCheck {
	return func(ctx context.Context) error {
		_, err := sessions.GetByIDs(ctx, []valueobjects.SessionID{readinessProbeID})
		return err
	}
}
