package harness

// CraftTrace records what one craft step produced.
type CraftTrace struct {
	Step   int    `json:"step"`
	Match  bool   `json:"match"`
	Recipe string `json:"recipe,omitempty"`
	Output string `json:"output,omitempty"`

	// Remaining holds the non-empty leftover stacks by slot.
	Remaining map[int]string `json:"remaining,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every craft matched its expectation.
	Pass bool `json:"pass"`

	// Trace contains one entry per craft step, in order.
	Trace []CraftTrace `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ReloadID identifies the registry reload the scenario ran against.
	ReloadID string `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []CraftTrace{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
