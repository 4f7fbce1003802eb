package xldiff

import "fmt"

// PreconditionError reports a bad or missing path argument. It is fatal and
// stops before any comparison work begins.
type PreconditionError struct {
	Path   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %q: %s", e.Path, e.Reason)
}

// OpenError reports an unreadable, corrupt or locked workbook file. In batch
// mode it is recoverable and recorded per pair; in single-pair mode it is
// fatal since there is nothing left to compare.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open workbook %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
