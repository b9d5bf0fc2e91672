package scriptrt

import (
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// ServeHTTP implements the dispatcher contract of §4.3: host lookup, route
// match, job submission, reply wait, response translation — logging each
// request the way the teacher framework's own ServeHTTP logs every
// request it handles.
func (rt *Runtime) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	host := hostOnly(r.Host)
	router, ok := rt.host(host)
	if !ok {
		rt.writeError(w, &HostNotFoundError{Host: host}, "", start)
		return
	}

	snapshot := router.Load()
	match, err := snapshot.Match(r.Method, r.URL.Path)
	if err != nil {
		rt.writeError(w, err, host, start)
		return
	}

	pooled := rt.buildReq(r)
	pooled.PathParams = match.Params
	req := *pooled
	rt.reqRes.put(pooled)

	reply := make(chan Result, 1)
	rt.pool.Submit(Job{
		Code:        snapshot.Code,
		HandlerName: match.Handler,
		Req:         req,
		Reply:       reply,
	})

	select {
	case result := <-reply:
		if result.Err != nil {
			// Any worker-side failure surfaces as 500, whatever its kind.
			rt.writeErrorStatus(w, http.StatusInternalServerError, result.Err, host, start)
			return
		}
		rt.writeRes(w, result.Res)
		rt.logRequest(r, host, match.Handler, http.StatusOK, start, result.Res.Status)
	case <-r.Context().Done():
		// client disconnected; the worker still runs the job to
		// completion and its reply is simply never read (§4.5).
	}
}

// buildReq borrows a *Req from the Runtime's pool and fills it from r. The
// caller copies the fields it needs and returns the pointer to the pool via
// rt.reqRes.put before the request leaves this function's stack frame — the
// copied Req.Query/Headers/PathParams maps are unaffected by that reset since
// reset only clears the pooled wrapper's own field pointers, never the map
// contents those fields pointed at.
func (rt *Runtime) buildReq(r *http.Request) *Req {
	req := rt.reqRes.getReq()
	req.Method = strings.ToUpper(r.Method)
	req.URL = r.URL.String()
	req.Query = map[string]string{}
	req.PathParams = map[string]string{}
	req.Headers = map[string]string{}

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.Query[k] = v[0]
		}
	}
	for k, v := range r.Header {
		if len(v) > 0 {
			req.Headers[strings.ToLower(k)] = v[0]
		}
	}

	if r.Body != nil {
		b, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
		if err == nil && utf8.Valid(b) {
			s := string(b)
			req.Body = &s
		}
	}

	return req
}

func (rt *Runtime) writeRes(w http.ResponseWriter, res Res) {
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", defaultContentType)
	}
	w.WriteHeader(res.Status)
	if res.Body != nil {
		io.WriteString(w, *res.Body)
	}
}

func (rt *Runtime) writeError(w http.ResponseWriter, err error, host string, start time.Time) {
	status, _ := statusFor(err)
	rt.writeErrorStatus(w, status, err, host, start)
}

func (rt *Runtime) writeErrorStatus(w http.ResponseWriter, status int, err error, host string, start time.Time) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, err.Error())
	if rt.logger != nil {
		rt.logger.Errorf("%s %s -> %d (%s): %v", host, "", status, time.Since(start), err)
	}
}

func (rt *Runtime) logRequest(r *http.Request, host, handler string, dispatchStatus int, start time.Time, resStatus int) {
	if rt.logger == nil {
		return
	}
	rt.logger.Infof(
		"%s %s host=%s handler=%s status=%d latency=%s",
		r.Method, r.URL.Path, host, handler, resStatus, time.Since(start),
	)
}

// hostOnly strips an optional ":port" suffix and lower-cases the result,
// per §6's host-resolution rule.
func hostOnly(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		hostport = host
	}
	return strings.ToLower(hostport)
}
