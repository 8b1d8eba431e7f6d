package entities

// Decision is the outcome of comparing a required role with the actual one.
type Decision struct {
	Allowed bool
	Target  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectTo(target string) Decision {
	return Decision{Target: target}
}

type GuardState string

const (
	GuardLoading   GuardState = "loading"
	GuardRender    GuardState = "render"
	GuardRedirect  GuardState = "redirect"
	GuardCancelled GuardState = "cancelled"
)

// GuardOutcome is what a gated surface should do. Target is set only for
// GuardRedirect.
type GuardOutcome struct {
	State    GuardState
	Target   string
	Reason   string
	CacheHit bool
}

func (o GuardOutcome) Navigates() bool {
	return o.State == GuardRedirect
}
