// Package catalog defines the port to the roaming-plan catalog service.
package catalog

import (
	"context"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
)

// PlanCatalog looks up the roaming plans offered for a destination.
type PlanCatalog interface {
	FetchPlans(ctx context.Context, destination string) ([]roaming.Plan, error)
}
