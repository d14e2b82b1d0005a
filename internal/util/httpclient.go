// Package util provides the shared HTTP client, logging and console helpers
package util

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single API round trip
const DefaultTimeout = 15 * time.Second

var (
	sharedClient     *http.Client
	sharedClientOnce sync.Once
)

// transportLimits suit a single API host hit by a handful of channels at once
var transportLimits = struct {
	idleConns, idleConnsPerHost, connsPerHost int
	idleTimeout, handshake, dial, keepAlive   time.Duration
}{
	idleConns:        32,
	idleConnsPerHost: 16,
	connsPerHost:     16,
	idleTimeout:      90 * time.Second,
	handshake:        5 * time.Second,
	dial:             5 * time.Second,
	keepAlive:        30 * time.Second,
}

func newTransport() *http.Transport {
	lim := transportLimits
	dialer := &net.Dialer{Timeout: lim.dial, KeepAlive: lim.keepAlive}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        lim.idleConns,
		MaxIdleConnsPerHost: lim.idleConnsPerHost,
		MaxConnsPerHost:     lim.connsPerHost,
		IdleConnTimeout:     lim.idleTimeout,
		TLSHandshakeTimeout: lim.handshake,
		ForceAttemptHTTP2:   true,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
	}
}

// GetSharedClient returns the process wide pooled client with DefaultTimeout
func GetSharedClient() *http.Client {
	sharedClientOnce.Do(func() {
		sharedClient = NewHTTPClient(DefaultTimeout)
	})
	return sharedClient
}

// NewHTTPClient returns a pooled client with its own transport. A non-positive timeout means DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Transport: newTransport(), Timeout: timeout}
}

// ParallelExecute runs tasks with at most maxWorkers at a time and returns once all are done.
// A non-positive maxWorkers runs them all at once.
func ParallelExecute(maxWorkers int, tasks ...func()) {
	var g errgroup.Group
	if maxWorkers > 0 {
		g.SetLimit(maxWorkers)
	}
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			task()
			return nil
		})
	}
	_ = g.Wait()
}
