// Package avalanche expands a fingerprint into an arbitrarily long
// pseudorandom byte stream using hash-based counter-mode expansion:
//
//	seed    = H(algorithm tag || raw fingerprint bytes)
//	block_i = H(seed || uint64_be(i))
//	stream  = block_0 || block_1 || ...   truncated to n bytes
//
// A single flipped input bit changes the seed completely, so every block and
// the whole stream change with no correlation to the original. The stream is
// a pure function of (fingerprint, hash, n).
package avalanche

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/khengari77/RandomFusion/fingerprint"
	"github.com/khengari77/RandomFusion/fusionerr"
)

// Hash names the primitive used for both the seed and the stream blocks.
type Hash string

const (
	SHA256     Hash = "sha256"
	SHA512     Hash = "sha512"
	SHA3_256   Hash = "sha3-256"
	BLAKE2b256 Hash = "blake2b-256"

	// DefaultHash is used when no hash is configured. Changing it changes every
	// image ever produced.
	DefaultHash = SHA256
)

// CounterWidth is the byte width of the block counter appended to the seed.
const CounterWidth = 8

var constructors = map[Hash]func() hash.Hash{
	SHA256:   sha256.New,
	SHA512:   sha512.New,
	SHA3_256: sha3.New256,
	BLAKE2b256: func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			// New256 only fails for keys longer than 64 bytes.
			panic(err)
		}
		return h
	},
}

// Hashes lists the supported hash names, sorted.
func Hashes() []Hash {
	out := make([]Hash, 0, len(constructors))
	for h := range constructors {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseHash validates a hash name. The empty string selects DefaultHash.
func ParseHash(name string) (Hash, error) {
	if name == "" {
		return DefaultHash, nil
	}
	h := Hash(name)
	if _, ok := constructors[h]; !ok {
		return "", fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-010", "unsupported hash %q", name)
	}
	return h, nil
}

// Expander produces expanded streams with a fixed hash primitive.
// The zero value uses DefaultHash.
type Expander struct {
	Hash Hash
}

func (e Expander) newHash() (func() hash.Hash, error) {
	h := e.Hash
	if h == "" {
		h = DefaultHash
	}
	ctor, ok := constructors[h]
	if !ok {
		return nil, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-010", "unsupported hash %q", string(h))
	}
	return ctor, nil
}

// Seed returns H(tag || raw) for fp.
func (e Expander) Seed(fp fingerprint.Fingerprint) ([]byte, error) {
	ctor, err := e.newHash()
	if err != nil {
		return nil, err
	}
	return seed(ctor, fp), nil
}

// Expand returns exactly n bytes of stream for fp.
func (e Expander) Expand(fp fingerprint.Fingerprint, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fusionerr.Newf(fusionerr.KindInvalidLength, "RF-LEN-001", "stream length must be positive, got %d", n)
	}
	if fp.IsZero() {
		return nil, fusionerr.New(fusionerr.KindInvalidFingerprintFormat, "RF-FP-001", "empty fingerprint")
	}
	ctor, err := e.newHash()
	if err != nil {
		return nil, err
	}

	s := seed(ctor, fp)
	h := ctor()
	out := make([]byte, 0, n+h.Size())
	var counter [CounterWidth]byte
	for i := uint64(0); len(out) < n; i++ {
		binary.BigEndian.PutUint64(counter[:], i)
		h.Reset()
		_, _ = h.Write(s)
		_, _ = h.Write(counter[:])
		out = h.Sum(out)
	}
	return out[:n:n], nil
}

// Expand is Expander{}.Expand, using DefaultHash.
func Expand(fp fingerprint.Fingerprint, n int) ([]byte, error) {
	return Expander{}.Expand(fp, n)
}

func seed(ctor func() hash.Hash, fp fingerprint.Fingerprint) []byte {
	h := ctor()
	_, _ = h.Write([]byte(fp.Algorithm()))
	_, _ = h.Write(fp.Bytes())
	return h.Sum(nil)
}
