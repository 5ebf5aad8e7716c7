package transport

import "errors"

// Fetch errors.
// The crawler treats all of them as per-page failures: the page is recorded
// with no words and the crawl continues.
var (
	// ErrRequest is returned when the request could not be sent or no
	// response was received (DNS failure, refused connection, timeout).
	ErrRequest = errors.New("request failed")

	// ErrHTTPStatus is returned for responses outside the 2xx range.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrUnsupportedContentType is returned for responses that are not
	// HTML or XHTML.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrReadBody is returned when the response body cannot be read.
	ErrReadBody = errors.New("failed to read response body")
)

// Proxy errors.
var (
	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrProxyNotSOCKS5 is returned when the proxy responds but does not
	// speak SOCKS5 without authentication.
	ErrProxyNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy")

	// ErrProxyCannotConnect is returned when no TCP connection to the proxy
	// could be established.
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")

	// ErrProxyTimeout is returned when the proxy handshake times out.
	ErrProxyTimeout = errors.New("timeout connecting to proxy")

	// ErrTorNotRunning is returned when a client is requested from an
	// embedded Tor daemon that has not been started.
	ErrTorNotRunning = errors.New("embedded Tor daemon is not running")
)

// ProxyStatus represents the result of checking a SOCKS5 proxy.
type ProxyStatus int

const (
	// ProxyStatusOK indicates the proxy completed a SOCKS5 greeting.
	ProxyStatusOK ProxyStatus = iota

	// ProxyStatusWrongType indicates the proxy answered but is not usable
	// as an unauthenticated SOCKS5 proxy.
	ProxyStatusWrongType

	// ProxyStatusCannotConnect indicates we could not establish a connection.
	ProxyStatusCannotConnect

	// ProxyStatusTimeout indicates the connection attempt timed out.
	ProxyStatusTimeout
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not SOCKS5)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error returns the appropriate error for this status, or nil if OK.
func (s ProxyStatus) Error() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotSOCKS5
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}

// Onion address errors.
var (
	// ErrInvalidOnionAddress is returned for .onion hosts that are not
	// well-formed v3 addresses (wrong length, alphabet, version or checksum).
	ErrInvalidOnionAddress = errors.New("invalid v3 onion address")

	// ErrOnionV2Deprecated is returned for 16-character v2 addresses, which
	// the Tor network stopped serving in 2021.
	ErrOnionV2Deprecated = errors.New("v2 onion addresses are no longer supported by Tor")
)
