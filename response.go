package scriptrt

import "fmt"

// Res is the canonical response value returned by a handler.
//
// Status must be in [100, 599]; ValidateStatus reports whether it is.
type Res struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    *string           `json:"body"`
}

// ValidateStatus reports whether r.Status is a valid HTTP status code per
// the [100, 599] invariant of §3.
func (r *Res) ValidateStatus() error {
	if r.Status < 100 || r.Status > 599 {
		return fmt.Errorf("scriptrt: invalid response status %d, must be in [100, 599]", r.Status)
	}
	return nil
}

// reset clears r so it can be returned to a sync.Pool.
func (r *Res) reset() {
	r.Status = 0
	r.Headers = nil
	r.Body = nil
}

// newRes returns a new, empty instance of Res.
func newRes() *Res {
	return &Res{}
}

// defaultContentType is used when a handler's Res does not specify its own
// Content-Type header.
const defaultContentType = "application/json"
