package entities

// StepStatus is the outcome of a single verification step
type StepStatus string

// Step outcomes
const (
	StatusPass StepStatus = "pass"
	StatusFail StepStatus = "fail"
	StatusSkip StepStatus = "skip"
)

// StepResult records what a step checked and how it went
type StepResult struct {
	Step    string     `json:"step"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

// Failed reports whether the step failed; skipped steps count as passed
func (r StepResult) Failed() bool {
	return r.Status == StatusFail
}

// Report is the outcome of a verification or fixture run
type Report struct {
	Repository     string       `json:"repository"`
	Branch         string       `json:"branch"`
	File           string       `json:"file,omitempty"`
	MatchedPattern string       `json:"matched_pattern,omitempty"`
	Steps          []StepResult `json:"steps"`
	Passed         bool         `json:"passed"`
}

// Add appends a step result
func (r *Report) Add(res StepResult) {
	r.Steps = append(r.Steps, res)
}

// Finalize sets Passed from the recorded steps
func (r *Report) Finalize() {
	r.Passed = len(r.Steps) > 0
	for _, s := range r.Steps {
		if s.Failed() {
			r.Passed = false
			return
		}
	}
}

// PassedCount returns the number of steps that did not fail
func (r *Report) PassedCount() int {
	n := 0
	for _, s := range r.Steps {
		if !s.Failed() {
			n++
		}
	}
	return n
}
