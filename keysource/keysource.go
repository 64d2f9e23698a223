// Package keysource turns key material into fingerprint text.
//
// A Resolver accepts what a user typed: a path to an SSH key file, an issuer
// key string ("ed25519:<base64>" or "dilithium3:<base64>"), or fingerprint
// text, which passes through untouched for fingerprint.Parse.
package keysource

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"github.com/khengari77/RandomFusion/fusionerr"
)

// Extractor reads a key file and returns its fingerprint text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Resolver maps user input to fingerprint text.
//
// With a nil Extractor file paths are never consulted; servers use that mode
// so remote callers cannot probe the local filesystem.
type Resolver struct {
	Extractor Extractor
}

// NewResolver returns a Resolver that extracts key files with ssh.
func NewResolver() Resolver {
	return Resolver{Extractor: DefaultSSH()}
}

// Resolve returns fingerprint text for input.
func (r Resolver) Resolve(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if r.Extractor != nil && input != "" {
		fi, err := os.Stat(input)
		switch {
		case err == nil && fi.Mode().IsRegular():
			return r.Extractor.Extract(ctx, input)
		case errors.Is(err, fs.ErrNotExist) && looksLikePath(input):
			return "", fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-006", "key file not found", err)
		}
	}
	if fp, ok, err := FromIssuerKey(input); ok || err != nil {
		return fp, err
	}
	return input, nil
}

// looksLikePath reports whether s can only be meant as a file name.
// Fingerprint text may contain '/' (base64), so only explicit path forms
// count.
func looksLikePath(s string) bool {
	for _, prefix := range []string{"/", "./", "../", "~"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	if filepath.Separator != '/' && strings.ContainsRune(s, filepath.Separator) {
		return true
	}
	return strings.HasSuffix(s, ".pub")
}

// FromIssuerKey fingerprints an issuer key string. ok reports whether s uses
// a recognised issuer key prefix; when it does not, s is left to other
// interpretations and err is nil.
//
// The fingerprint is sha256 over the raw public key bytes, rendered
// "SHA256:<raw base64>" like ssh-keygen output.
func FromIssuerKey(s string) (fp string, ok bool, err error) {
	alg, enc, found := strings.Cut(s, ":")
	if !found {
		return "", false, nil
	}
	switch alg {
	case "ed25519", "dilithium3":
	default:
		return "", false, nil
	}

	pub, err := decodeBase64(enc)
	if err != nil {
		return "", true, fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-010", "invalid issuer key base64", err)
	}
	switch alg {
	case "ed25519":
		if len(pub) != ed25519.PublicKeySize {
			return "", true, fusionerr.Newf(fusionerr.KindKeyExtraction, "RF-KEY-011",
				"ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
		}
	case "dilithium3":
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return "", true, fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-012", "invalid dilithium3 public key", err)
		}
	}
	sum := sha256.Sum256(pub)
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(sum[:]), true, nil
}

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
