package transport

import (
	"net"
	"net/http"
	"time"
)

// Default returns a fresh http transport with sane timeouts
func Default() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// Decorator decorates a http.Request before delegating to the base round tripper
type Decorator struct {
	Decorator func(req *http.Request) error
	Base      http.RoundTripper
}

// RoundTrip implements http.RoundTripper. The request is cloned before decoration.
func (t *Decorator) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())

	if t.Decorator != nil {
		if err := t.Decorator(req2); err != nil {
			return nil, err
		}
	}

	return t.Base.RoundTrip(req2)
}
