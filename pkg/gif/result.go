package gif

// Outcome tells how a search settled.
type Outcome int

const (
	// OutcomeNoMatch is the zero value: the provider answered with no candidate.
	OutcomeNoMatch Outcome = iota
	// OutcomeFailed means the request or its payload could not be used.
	OutcomeFailed
	// OutcomeFound means a GIF URL was selected.
	OutcomeFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeFailed:
		return "failed"
	case OutcomeFound:
		return "found"
	default:
		return "unknown"
	}
}

// Result is either a GIF URL or an absence. Absences keep the reason
// (no match or failure) so callers can log them differently, even though
// both are displayed the same way.
type Result struct {
	url     string
	outcome Outcome
	err     error
}

func Found(url string) Result {
	if url == "" {
		return NoMatch()
	}

	return Result{url: url, outcome: OutcomeFound}
}

func NoMatch() Result {
	return Result{outcome: OutcomeNoMatch}
}

func Failed(err error) Result {
	return Result{outcome: OutcomeFailed, err: err}
}

// URL returns the selected GIF URL and true, or false for an absence.
func (r Result) URL() (string, bool) {
	if r.outcome != OutcomeFound {
		return "", false
	}

	return r.url, true
}

func (r Result) Absent() bool {
	return r.outcome != OutcomeFound
}

func (r Result) Outcome() Outcome {
	return r.outcome
}

// Err returns the failure cause of an OutcomeFailed result, nil otherwise.
func (r Result) Err() error {
	return r.err
}
