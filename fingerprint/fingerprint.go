// Package fingerprint parses key fingerprint strings into a canonical
// (algorithm, raw bytes) pair.
//
// Accepted forms:
//   - SHA256:<base64>           (ssh-keygen default, padded or raw)
//   - MD5:aa:bb:...:ff          (legacy colon-separated hex)
//   - <ALGO>:<hex>              for MD5, SHA1, SHA256, SHA384, SHA512
//   - any other hex/base64 text opaque payload under the RAW tag
//
// Parsing is a pure function of its input.
package fingerprint

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/khengari77/RandomFusion/fusionerr"
)

// Algorithm is the canonical digest tag of a fingerprint.
type Algorithm string

const (
	MD5    Algorithm = "MD5"
	SHA1   Algorithm = "SHA1"
	SHA256 Algorithm = "SHA256"
	SHA384 Algorithm = "SHA384"
	SHA512 Algorithm = "SHA512"
	Raw    Algorithm = "RAW"
)

var digestSizes = map[Algorithm]int{
	MD5:    16,
	SHA1:   20,
	SHA256: 32,
	SHA384: 48,
	SHA512: 64,
}

// DigestSize returns the expected raw length for a known algorithm and false
// for RAW or unknown tags.
func DigestSize(a Algorithm) (int, bool) {
	n, ok := digestSizes[a]
	return n, ok
}

// LookupAlgorithm maps a user-supplied tag ("sha256", "SHA-256", "md5") to its
// canonical Algorithm.
func LookupAlgorithm(tag string) (Algorithm, bool) {
	a := Algorithm(strings.ToUpper(strings.ReplaceAll(tag, "-", "")))
	if _, ok := digestSizes[a]; ok {
		return a, true
	}
	return "", false
}

// Fingerprint is an immutable (algorithm, raw bytes) pair.
type Fingerprint struct {
	algo Algorithm
	raw  []byte
}

// New constructs a Fingerprint, enforcing the digest size of known algorithms.
func New(algo Algorithm, raw []byte) (Fingerprint, error) {
	if len(raw) == 0 {
		return Fingerprint{}, fusionerr.New(fusionerr.KindInvalidFingerprintFormat, "RF-FP-002", "empty fingerprint payload")
	}
	if algo != Raw {
		want, ok := digestSizes[algo]
		if !ok {
			return Fingerprint{}, fusionerr.Newf(fusionerr.KindInvalidFingerprintFormat, "RF-FP-005", "unknown fingerprint algorithm %q", string(algo))
		}
		if len(raw) != want {
			return Fingerprint{}, fusionerr.Newf(fusionerr.KindInvalidFingerprintFormat, "RF-FP-003",
				"%s fingerprint must be %d bytes, got %d", algo, want, len(raw))
		}
	}
	return Fingerprint{algo: algo, raw: append([]byte(nil), raw...)}, nil
}

// Algorithm returns the canonical algorithm tag.
func (f Fingerprint) Algorithm() Algorithm { return f.algo }

// Bytes returns a copy of the raw fingerprint bytes.
func (f Fingerprint) Bytes() []byte { return append([]byte(nil), f.raw...) }

// Len returns the number of raw bytes.
func (f Fingerprint) Len() int { return len(f.raw) }

// IsZero reports whether f was never constructed.
func (f Fingerprint) IsZero() bool { return f.algo == "" }

// Equal reports whether two fingerprints have the same tag and bytes.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return f.algo == o.algo && string(f.raw) == string(o.raw)
}

// String renders the canonical textual form.
func (f Fingerprint) String() string {
	switch f.algo {
	case "":
		return ""
	case MD5:
		return string(MD5) + ":" + colonHex(f.raw)
	case Raw:
		return string(Raw) + ":" + hex.EncodeToString(f.raw)
	default:
		return string(f.algo) + ":" + base64.RawStdEncoding.EncodeToString(f.raw)
	}
}

// WithBitFlipped returns a copy of f with a single bit of the raw bytes
// inverted. Bit 0 is the most significant bit of the first byte.
func (f Fingerprint) WithBitFlipped(bit int) Fingerprint {
	raw := f.Bytes()
	if bit < 0 || bit >= len(raw)*8 {
		return Fingerprint{algo: f.algo, raw: raw}
	}
	raw[bit/8] ^= 0x80 >> uint(bit%8)
	return Fingerprint{algo: f.algo, raw: raw}
}

func colonHex(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(hex.EncodeToString([]byte{c}))
	}
	return sb.String()
}
