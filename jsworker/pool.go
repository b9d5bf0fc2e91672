package jsworker

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/scriptrt/scriptrt"
)

// workerCacheLimit bounds the number of distinct-code Worker interpreters a
// single pool goroutine keeps warm. Exceeding it evicts one arbitrary entry
// — map iteration order is random in Go, which is an adequate enough
// approximation of LRU for this pool's size.
const workerCacheLimit = 64

// Pool is a fixed-size goroutine pool, each goroutine consuming scriptrt.Job
// values from a shared channel and keeping its own cache of Worker
// interpreters keyed by the xxhash of the job's bundled code — so that a
// burst of requests against the same (unchanged) bundle reuses one already-
// evaluated interpreter instead of re-parsing the script on every call.
// Because each cache is private to its goroutine, two jobs for the same
// bundle that land on different goroutines get independent interpreters;
// this is a deliberate memory/throughput tradeoff, not a correctness one —
// the spec's goroutine-per-interpreter model never shares a Worker across
// jobs running at once.
type Pool struct {
	jobs chan scriptrt.Job
	quit chan struct{}
	wg   sync.WaitGroup
}

// New starts a Pool of size worker goroutines.
func New(size int) *Pool {
	p := &Pool{
		jobs: make(chan scriptrt.Job, size*4),
		quit: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	cache := make(map[uint64]*Worker)
	defer func() {
		for _, w := range cache {
			w.Close()
		}
	}()

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handle(cache, job)
		case <-p.quit:
			// Jobs still queued at shutdown are answered with a
			// ChannelClosedError rather than dropped.
			for {
				select {
				case job := <-p.jobs:
					deliver(job.Reply, scriptrt.Result{Err: &scriptrt.ChannelClosedError{}})
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) handle(cache map[uint64]*Worker, job scriptrt.Job) {
	key := xxhash.Sum64String(job.Code)

	w, ok := cache[key]
	if !ok {
		var err error
		w, err = New(job.Code)
		if err != nil {
			deliver(job.Reply, scriptrt.Result{Err: err})
			return
		}
		if len(cache) >= workerCacheLimit {
			for k, old := range cache {
				old.Close()
				delete(cache, k)
				break
			}
		}
		cache[key] = w
	}

	res, err := w.Run(context.Background(), job.HandlerName, job.Req)
	deliver(job.Reply, scriptrt.Result{Res: res, Err: err})
}

func deliver(reply chan scriptrt.Result, result scriptrt.Result) {
	if reply == nil {
		return
	}
	select {
	case reply <- result:
	default:
	}
}

// Submit enqueues job for execution. If the pool has already begun
// shutting down, job.Reply receives a ChannelClosedError instead of being
// run.
func (p *Pool) Submit(job scriptrt.Job) {
	select {
	case <-p.quit:
		deliver(job.Reply, scriptrt.Result{Err: &scriptrt.ChannelClosedError{}})
		return
	default:
	}
	select {
	case p.jobs <- job:
	case <-p.quit:
		deliver(job.Reply, scriptrt.Result{Err: &scriptrt.ChannelClosedError{}})
	}
}

// Shutdown stops accepting new work and waits for every pool goroutine to
// finish its in-flight job and close its cached interpreters.
func (p *Pool) Shutdown() {
	close(p.quit)
	p.wg.Wait()
}
