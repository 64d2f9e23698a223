package fingerprint

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/khengari77/RandomFusion/fusionerr"
)

type decoder func(string) ([]byte, error)

// Order matters: the first decoder producing an acceptable length wins.
var decoders = []decoder{
	decodeColonHex,
	hex.DecodeString,
	base64.StdEncoding.DecodeString,
	base64.RawStdEncoding.DecodeString,
}

// Parse normalizes a fingerprint string.
//
// A recognized ALGO prefix selects the expected digest size and the payload
// must decode to exactly that many bytes. A "RAW:" prefix, as written by
// String, is stripped; without a recognized prefix the whole string is
// decoded as an opaque RAW payload.
func Parse(s string) (Fingerprint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fingerprint{}, fusionerr.New(fusionerr.KindInvalidFingerprintFormat, "RF-FP-001", "empty fingerprint")
	}

	if tag, payload, ok := strings.Cut(s, ":"); ok {
		if algo, known := LookupAlgorithm(tag); known {
			if payload == "" {
				return Fingerprint{}, fusionerr.Newf(fusionerr.KindInvalidFingerprintFormat, "RF-FP-002", "empty %s payload", algo)
			}
			want := digestSizes[algo]
			raw, err := decodeFirst(payload, func(n int) bool { return n == want })
			if err != nil {
				return Fingerprint{}, fusionerr.Wrap(fusionerr.KindInvalidFingerprintFormat, "RF-FP-003",
					"cannot decode "+string(algo)+" payload as a "+strconv.Itoa(want)+"-byte digest", err)
			}
			return Fingerprint{algo: algo, raw: raw}, nil
		}
		if strings.EqualFold(tag, string(Raw)) && payload != "" {
			s = payload
		}
	}

	raw, err := decodeFirst(s, func(n int) bool { return n > 0 })
	if err != nil {
		return Fingerprint{}, fusionerr.Wrap(fusionerr.KindInvalidFingerprintFormat, "RF-FP-004",
			"input is neither a recognized fingerprint nor a hex/base64 payload", err)
	}
	return Fingerprint{algo: Raw, raw: raw}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixed
// fixtures.
func MustParse(s string) Fingerprint {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

func decodeFirst(payload string, accept func(int) bool) ([]byte, error) {
	var lastErr error
	for _, dec := range decoders {
		b, err := dec(payload)
		if err != nil {
			lastErr = err
			continue
		}
		if accept(len(b)) {
			return b, nil
		}
	}
	return nil, lastErr
}

// decodeColonHex decodes "aa:bb:cc" into bytes. Every group must be exactly two
// hex digits; a payload without colons is rejected so plain hex is handled by
// hex.DecodeString.
func decodeColonHex(s string) ([]byte, error) {
	if !strings.Contains(s, ":") {
		return nil, errNotColonHex
	}
	parts := strings.Split(s, ":")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		if len(p) != 2 {
			return nil, errNotColonHex
		}
		b, err := hex.DecodeString(p)
		if err != nil {
			return nil, err
		}
		out = append(out, b[0])
	}
	return out, nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errNotColonHex = parseError("not colon-separated hex")
