// Package usage defines the port to the billing/usage backend.
package usage

import (
	"context"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
)

// Source returns a subscriber's recent usage summary.
type Source interface {
	FetchUsage(ctx context.Context, userID string) (*roaming.Usage, error)
}
