package scriptrt

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/crypto/acme"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/scriptrt/scriptrt/router"
)

// Runtime is the top-level server: a host registry of swappable Router
// values, a WorkerPool, a Logger, and the http.Server that glues them
// together — the scriptrt analogue of the teacher framework's own Air
// struct.
type Runtime struct {
	cfg    *Config
	logger *Logger
	pool   WorkerPool
	reqRes *reqResPool

	mu     sync.RWMutex
	hosts  map[string]*router.Router
	server *http.Server
}

// NewRuntime returns a Runtime ready to have hosts registered via AddHost.
func NewRuntime(cfg *Config, logger *Logger, pool WorkerPool) *Runtime {
	return &Runtime{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		reqRes: newReqResPool(),
		hosts:  map[string]*router.Router{},
	}
}

// AddHost registers r as the Router for the given virtual host.
func (rt *Runtime) AddHost(host string, r *router.Router) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.hosts == nil {
		rt.hosts = map[string]*router.Router{}
	}
	rt.hosts[host] = r
}

// Serve starts the HTTP server, blocking until it stops. It mirrors the
// teacher framework's Serve: cleartext HTTP/2 (h2c) always enabled, TLS
// via static cert/key files or ACME (via golang.org/x/crypto/acme) when
// configured, otherwise plain HTTP.
func (rt *Runtime) Serve() error {
	h2s := &http2.Server{}
	handler := h2c.NewHandler(rt, h2s)

	rt.server = &http.Server{
		Addr:         rt.cfg.Address,
		Handler:      handler,
		ReadTimeout:  rt.cfg.ReadTimeout,
		WriteTimeout: rt.cfg.WriteTimeout,
	}

	if rt.cfg.ACMEEnabled {
		m := &autocert.Manager{
			Prompt: autocert.AcceptTOS,
			Cache:  autocert.DirCache(rt.cfg.ACMECertRoot),
			Client: &acme.Client{DirectoryURL: acmeDirectoryURL},
		}
		if len(rt.cfg.ACMEHostWhitelist) > 0 {
			m.HostPolicy = autocert.HostWhitelist(rt.cfg.ACMEHostWhitelist...)
		}
		rt.server.TLSConfig = &tls.Config{GetCertificate: m.GetCertificate}
		return rt.server.ListenAndServeTLS("", "")
	}

	if rt.cfg.TLSCertFile != "" && rt.cfg.TLSKeyFile != "" {
		return rt.server.ListenAndServeTLS(rt.cfg.TLSCertFile, rt.cfg.TLSKeyFile)
	}

	return rt.server.ListenAndServe()
}

const acmeDirectoryURL = "https://acme-v02.api.letsencrypt.org/directory"

// Shutdown gracefully drains in-flight HTTP requests, then shuts down the
// worker pool — mirroring the teacher framework's own two-phase Shutdown.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var err error
	if rt.server != nil {
		err = rt.server.Shutdown(ctx)
	}
	if rt.pool != nil {
		rt.pool.Shutdown()
	}
	if err != nil {
		return fmt.Errorf("scriptrt: shutdown: %w", err)
	}
	return nil
}

// host returns the Router registered for name, the way the dispatcher looks
// up a request's virtual host.
func (rt *Runtime) host(name string) (*router.Router, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	r, ok := rt.hosts[name]
	return r, ok
}
