package domain

// Status is the result of processing one invoice.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome records what happened to one (kind, period).
type Outcome struct {
	Kind    Kind          `json:"kind"`
	Period  BillingPeriod `json:"billing_period"`
	Path    string        `json:"path"`
	Status  Status        `json:"status"`
	Invoice *Invoice      `json:"invoice,omitempty"`
	PDFPath string        `json:"pdf_path,omitempty"`
	Err     error         `json:"-"`
	Error   string        `json:"error,omitempty"`
}

// RunReport lists outcomes in processing order.
type RunReport struct {
	ConfigRevision string    `json:"config_revision,omitempty"`
	Outcomes       []Outcome `json:"outcomes"`
}

// Add appends an outcome, copying its error message for serialization.
func (r *RunReport) Add(o Outcome) {
	if o.Err != nil && o.Error == "" {
		o.Error = o.Err.Error()
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns how many outcomes have status s.
func (r *RunReport) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Failed reports whether any invoice failed.
func (r *RunReport) Failed() bool {
	return r.Count(StatusFailed) > 0
}

// Generated returns the paths written in this run.
func (r *RunReport) Generated() []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Status == StatusGenerated {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// Conversion is the result of printing one HTML invoice to PDF.
type Conversion struct {
	HTMLPath string `json:"html_path"`
	PDFPath  string `json:"pdf_path"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}
