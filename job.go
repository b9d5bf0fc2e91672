package scriptrt

// Job is one request dispatched to a WorkerPool: the bundled script the
// target handler lives in, the handler's exported name, and the decoded
// Req. Reply receives exactly one Result, whether the handler succeeds,
// throws, or the pool is shut down mid-flight.
type Job struct {
	Code        string
	HandlerName string
	Req         Req
	Reply       chan Result
}

// Result is the reply delivered to a Job's Reply channel.
type Result struct {
	Res Res
	Err error
}

// WorkerPool is the dispatcher's view of a worker pool. scriptrt depends on
// this interface rather than a concrete pool type so that the pool
// implementation (package jsworker) can depend on scriptrt's Req/Res/Job
// types without an import cycle; cmd/scriptrt wires a concrete *jsworker.Pool
// into a Runtime at startup.
type WorkerPool interface {
	Submit(job Job)
	Shutdown()
}
