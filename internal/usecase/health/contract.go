package health

import "context"

// Checker checks availability of one external dependency.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
