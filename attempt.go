package tableagent

// Attempt tracks one natural-language question through the refinement
// loop: the generated SQL, the execution outcome, and how many times the
// query was regenerated after a failure. A fresh Attempt is created per
// question and discarded once a terminal outcome is reached.
type Attempt struct {
	Question string
	SQL      string
	Result   *Result
	Err      string // last execution error, empty on success
	Retries  int
	Answer   string // human-friendly summary generated post-execution
}
