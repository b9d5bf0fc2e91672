package router

import "sync/atomic"

// Snapshot is an immutable (code, matcher) pair acquired atomically. Its
// lifetime is independent of subsequent Router.Swap calls: once a reader
// holds a *Snapshot, no later Swap can change what it sees.
type Snapshot struct {
	Code   string
	Routes []Route

	matcher *matcher
}

// Match matches method and path against this snapshot's route table.
func (s *Snapshot) Match(method, path string) (Match, error) {
	return s.matcher.match(method, path)
}

// Router is a per-host, swappable route table. The zero value is not
// usable; construct one with New.
//
// The structure under the hood is a shared-ownership pointer to an
// immutable Snapshot. Swap replaces the pointer target with a newly built
// Snapshot in a single atomic store; Load atomically reads the current
// pointer. In-flight readers that already called Load keep their own
// Snapshot reference (an ordinary Go pointer, kept alive by the GC for as
// long as the caller holds it) — they are entirely unaffected by any
// number of subsequent Swap calls.
type Router struct {
	current atomic.Pointer[Snapshot]
}

// New builds a Router from a bundled script and a route list.
func New(code string, routes []Route) (*Router, error) {
	snap, err := buildSnapshot(code, routes)
	if err != nil {
		return nil, err
	}
	r := &Router{}
	r.current.Store(snap)
	return r, nil
}

// Load acquires a consistent snapshot whose lifetime is independent of
// subsequent swaps.
func (r *Router) Load() *Snapshot {
	return r.current.Load()
}

// Match is a convenience that loads the current snapshot and matches
// against it in one call. Callers that perform several operations
// against the same logical snapshot (e.g. match then later log the code
// that ran) should call Load once and reuse it instead, so they are not
// exposed to an intervening Swap.
func (r *Router) Match(method, path string) (Match, error) {
	return r.Load().Match(method, path)
}

// Swap atomically replaces the Router's contents. It never blocks
// readers and never fails except on malformed input, in which case the
// previous Snapshot remains authoritative and is returned unchanged by
// subsequent Load calls.
func (r *Router) Swap(code string, routes []Route) error {
	snap, err := buildSnapshot(code, routes)
	if err != nil {
		return err
	}
	r.current.Store(snap)
	return nil
}

func buildSnapshot(code string, routes []Route) (*Snapshot, error) {
	m, err := compile(routes)
	if err != nil {
		return nil, err
	}
	cp := make([]Route, len(routes))
	copy(cp, routes)
	return &Snapshot{Code: code, Routes: cp, matcher: m}, nil
}
