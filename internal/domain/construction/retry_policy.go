package construction

// DefaultMaxPlacementAttempts bounds how many scheduling passes a request may
// fail to find a site before its reservation is released.
const DefaultMaxPlacementAttempts = 12

// RetryPolicy bounds placement retries so an unplaceable request cannot
// starve the shared resource pool.
type RetryPolicy struct {
	MaxAttempts int
}

// NewRetryPolicy creates a policy; non-positive limits fall back to the default
func NewRetryPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPlacementAttempts
	}
	return RetryPolicy{MaxAttempts: maxAttempts}
}

// Exhausted reports whether a request has used up its attempts
func (p RetryPolicy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}
