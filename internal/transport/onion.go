package transport

import (
	"encoding/base32"
	"net"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// onionSuffix is the pseudo-TLD of Tor onion services.
	onionSuffix = ".onion"

	// onionV3Version is the version byte embedded in v3 addresses.
	onionV3Version = 0x03
)

var (
	// onionV3Pattern matches 56 base32 characters plus .onion.
	onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)

	// onionV2Pattern matches the retired 16-character form.
	onionV2Pattern = regexp.MustCompile(`^[a-z2-7]{16}\.onion$`)

	// onionChecksumPrefix is hashed ahead of the key when computing the checksum.
	onionChecksumPrefix = []byte(".onion checksum")
)

// IsOnionHost reports whether host (optionally with a port) is a Tor onion
// service name. Subdomains of an onion address count too.
func IsOnionHost(host string) bool {
	return strings.HasSuffix(onionName(host), onionSuffix)
}

// CheckOnionHost validates an onion host. Subdomains are allowed; the
// rightmost two labels must form a v3 address with a correct checksum.
//
// Design decision: We verify the checksum instead of only matching the
// pattern because a mistyped address otherwise costs a full Tor circuit
// build and a timeout before the crawl fails.
func CheckOnionHost(host string) error {
	name := onionName(host)
	if !strings.HasSuffix(name, onionSuffix) {
		return ErrInvalidOnionAddress
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return ErrInvalidOnionAddress
	}
	address := labels[len(labels)-2] + onionSuffix

	if onionV2Pattern.MatchString(address) {
		return ErrOnionV2Deprecated
	}
	if !onionV3Pattern.MatchString(address) {
		return ErrInvalidOnionAddress
	}

	// 32-byte ed25519 key, 2-byte checksum, 1-byte version.
	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(strings.TrimSuffix(address, onionSuffix)))
	if err != nil || len(decoded) != 35 {
		return ErrInvalidOnionAddress
	}
	pubkey, checksum, version := decoded[:32], decoded[32:34], decoded[34]
	if version != onionV3Version {
		return ErrInvalidOnionAddress
	}
	want := onionChecksum(pubkey, version)
	if checksum[0] != want[0] || checksum[1] != want[1] {
		return ErrInvalidOnionAddress
	}
	return nil
}

// onionChecksum returns the first two bytes of
// SHA3-256(".onion checksum" || pubkey || version).
func onionChecksum(pubkey []byte, version byte) []byte {
	data := make([]byte, 0, len(onionChecksumPrefix)+len(pubkey)+1)
	data = append(data, onionChecksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)
	sum := sha3.Sum256(data)
	return sum[:2]
}

// onionName lowercases host and strips a port and trailing dot.
func onionName(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(strings.ToLower(host), ".")
}
