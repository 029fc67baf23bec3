package domain

// GuardStatus tags the outcome of an access decision.
type GuardStatus string

const (
	GuardAuthorized   GuardStatus = "AUTHORIZED"
	GuardUnauthorized GuardStatus = "UNAUTHORIZED"
	GuardPending      GuardStatus = "PENDING"
)

// Reasons attached to unauthorized results.
const (
	ReasonNoToken      = "no-token"
	ReasonInvalidToken = "invalid-token"
	ReasonForbidden    = "forbidden"
)

// GuardResult is recomputed on every navigation and never persisted.
type GuardResult struct {
	Status GuardStatus
	Reason string
}

// Authorized builds an authorized result.
func Authorized() GuardResult { return GuardResult{Status: GuardAuthorized} }

// Pending builds a result for a store that has not finished hydrating.
func Pending() GuardResult { return GuardResult{Status: GuardPending} }

// Unauthorized builds a denial with the given reason.
func Unauthorized(reason string) GuardResult {
	return GuardResult{Status: GuardUnauthorized, Reason: reason}
}

func (r GuardResult) IsAuthorized() bool { return r.Status == GuardAuthorized }
func (r GuardResult) IsPending() bool    { return r.Status == GuardPending }
