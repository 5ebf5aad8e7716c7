package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/wordspider/internal/urlnorm"
)

// DefaultTimeout is the per-request timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// maxRedirects bounds redirect chains.
const maxRedirects = 10

// ClientOptions configures the HTTP client used for crawling.
type ClientOptions struct {
	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	// Empty means direct connections.
	ProxyAddress string

	// SiteURL is the URL of the crawled site. Cookie and Headers are only
	// sent to hosts on the same site, so a redirect to another host never
	// carries them. Without SiteURL they are never sent.
	SiteURL string

	// Cookie is a raw Cookie header value sent to the site.
	Cookie string

	// Headers are extra request headers sent to the site.
	Headers map[string]string

	// InsecureSkipVerify disables TLS certificate verification.
	// Onion services commonly use self-signed certificates.
	InsecureSkipVerify bool
}

// NewHTTPClient creates an HTTP client for crawling.
//
// Design decisions:
//   - A cookie jar keeps session cookies set by the site across pages
//   - Redirect limit is 10 to prevent redirect loops while allowing normal redirects
//   - Site headers and cookies are injected by a RoundTripper so redirects carry them too
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	base.MaxIdleConnsPerHost = 4
	base.IdleConnTimeout = 30 * time.Second
	if opts.InsecureSkipVerify {
		base.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // explicitly requested by the user
		}
	}

	if opts.ProxyAddress != "" {
		dial, err := socks5DialContext(opts.ProxyAddress)
		if err != nil {
			return nil, err
		}
		base.Proxy = nil
		base.DialContext = dial
	}

	var rt http.RoundTripper = base
	if opts.Cookie != "" || len(opts.Headers) > 0 {
		rt = &headerInjectingTransport{
			base:    base,
			site:    opts.SiteURL,
			cookie:  opts.Cookie,
			headers: opts.Headers,
		}
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// socks5DialContext returns a DialContext function that routes connections
// through the SOCKS5 proxy at address.
func socks5DialContext(address string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	if !isValidProxyAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, address)
	}

	// No auth: local SOCKS ports (Tor, ssh -D) do not require it.
	dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format
// with a port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || port == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// headerInjectingTransport wraps an http.RoundTripper to inject the site's
// headers and cookie into requests for the site. It runs for every redirect
// hop, so the host check is what keeps credentials off other hosts.
type headerInjectingTransport struct {
	base    http.RoundTripper
	site    string
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !urlnorm.SameDomain(t.site, req.URL.String()) {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
