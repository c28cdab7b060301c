package check

// Status is the outcome category of a single check execution.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored"
	StatusSkipped Status = "skipped"
)

// Metric is a named measurement captured during check execution, such as a
// similarity score or a latency.
type Metric struct {
	Name   string            `json:"name"`
	Value  float64           `json:"value"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Result is the immutable outcome of running a check.
// Construct results through Pass, Fail, Error and Skip so that status and
// message stay consistent.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Metrics []Metric       `json:"metrics,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ResultOption attaches optional data to a result.
type ResultOption func(*Result)

// WithDetails attaches a structured payload with additional context.
func WithDetails(details map[string]any) ResultOption {
	return func(r *Result) {
		r.Details = details
	}
}

// WithMetrics attaches measurements to the result.
func WithMetrics(metrics ...Metric) ResultOption {
	return func(r *Result) {
		r.Metrics = append(r.Metrics, metrics...)
	}
}

// Pass constructs a successful result.
func Pass(message string, opts ...ResultOption) Result {
	return build(StatusPassed, message, opts)
}

// Fail constructs a failure result. A failure is a verdict about the system
// under test, not an execution problem.
func Fail(message string, opts ...ResultOption) Result {
	return build(StatusFailed, message, opts)
}

// Error constructs an errored result for faults and malformed scenarios.
func Error(message string, opts ...ResultOption) Result {
	return build(StatusErrored, message, opts)
}

// Skip constructs a skipped result for checks that never ran.
func Skip(message string, opts ...ResultOption) Result {
	return build(StatusSkipped, message, opts)
}

func build(status Status, message string, opts []ResultOption) Result {
	r := Result{Status: status, Message: message}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Passed reports whether the check passed.
func (r Result) Passed() bool { return r.Status == StatusPassed }

// Failed reports whether the check failed.
func (r Result) Failed() bool { return r.Status == StatusFailed }

// Errored reports whether the check errored.
func (r Result) Errored() bool { return r.Status == StatusErrored }

// Skipped reports whether the check was skipped.
func (r Result) Skipped() bool { return r.Status == StatusSkipped }
