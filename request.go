package scriptrt

// Req is the canonical request value that crosses the host<->JS boundary.
//
// Body is absent (nil) vs. the empty string ("") are distinguishable: a
// request with no body has Body == nil, a request with an empty body has
// Body pointing at an empty string.
type Req struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Query       map[string]string `json:"query"`
	PathParams  map[string]string `json:"pathParams"`
	Headers     map[string]string `json:"headers"`
	Body        *string           `json:"body"`
}

// reset clears r so it can be returned to a sync.Pool.
func (r *Req) reset() {
	r.Method = ""
	r.URL = ""
	r.Query = nil
	r.PathParams = nil
	r.Headers = nil
	r.Body = nil
}

// newReq returns a new, empty instance of Req.
func newReq() *Req {
	return &Req{}
}
