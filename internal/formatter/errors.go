package formatter

// pipelineError reports a failed external command. Error returns the
// command's own message, such as man's "No manual entry for seek", while the
// chain carries the document error kind and the underlying process error.
type pipelineError struct {
	kind error
	msg  string
	err  error
}

func (e *pipelineError) Error() string { return e.msg }

func (e *pipelineError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}
