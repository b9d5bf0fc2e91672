package scriptrt

import "sync"

// reqResPool recycles Req and Res values across requests to reduce
// per-request allocation pressure, the way the teacher framework pools its
// own Request/Response/Context values.
type reqResPool struct {
	reqPool *sync.Pool
	resPool *sync.Pool
}

func newReqResPool() *reqResPool {
	return &reqResPool{
		reqPool: &sync.Pool{
			New: func() interface{} { return newReq() },
		},
		resPool: &sync.Pool{
			New: func() interface{} { return newRes() },
		},
	}
}

func (p *reqResPool) getReq() *Req {
	return p.reqPool.Get().(*Req)
}

func (p *reqResPool) getRes() *Res {
	return p.resPool.Get().(*Res)
}

func (p *reqResPool) put(x interface{}) {
	switch v := x.(type) {
	case *Req:
		v.reset()
		p.reqPool.Put(v)
	case *Res:
		v.reset()
		p.resPool.Put(v)
	}
}
