package keysource

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"regexp"

	"golang.org/x/crypto/ssh"

	"github.com/khengari77/RandomFusion/fusionerr"
)

// fingerprintToken matches one whitespace-delimited token of ssh-keygen -l
// output.
var fingerprintToken = regexp.MustCompile(`^(SHA256:[A-Za-z0-9+/=]{43}|MD5:([0-9a-f]{2}:){15}[0-9a-f]{2})$`)

// SSH extracts fingerprints from OpenSSH key files.
//
// Public keys (authorized_keys format) and unencrypted private keys are
// parsed in-process. Anything else is handed to the Keygen binary.
type SSH struct {
	// Keygen names the ssh-keygen binary; empty disables the fallback.
	Keygen string
	// LegacyMD5 selects "MD5:xx:..." fingerprints for keys parsed in-process.
	LegacyMD5 bool
}

// DefaultSSH returns an SSH extractor that falls back to ssh-keygen on PATH.
func DefaultSSH() SSH {
	return SSH{Keygen: "ssh-keygen"}
}

func (s SSH) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-001", "read key file", err)
	}
	pub, parseErr := parsePublicKey(data)
	if parseErr == nil {
		if s.LegacyMD5 {
			return "MD5:" + ssh.FingerprintLegacyMD5(pub), nil
		}
		return ssh.FingerprintSHA256(pub), nil
	}
	if s.Keygen == "" {
		return "", fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-002", "unsupported key file", parseErr)
	}
	return s.keygen(ctx, path, parseErr)
}

func parsePublicKey(data []byte) (ssh.PublicKey, error) {
	if pub, _, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
		return pub, nil
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, err
	}
	return signer.PublicKey(), nil
}

func (s SSH) keygen(ctx context.Context, path string, parseErr error) (string, error) {
	bin, err := exec.LookPath(s.Keygen)
	if err != nil {
		return "", fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-003", "unsupported key file and no ssh-keygen available",
			errors.Join(parseErr, err))
	}

	var lastErr error
	for _, args := range [][]string{
		{"-l", "-f", path, "-E", "sha256"},
		{"-l", "-f", path},
	} {
		out, err := exec.CommandContext(ctx, bin, args...).Output()
		if err != nil {
			lastErr = err
			continue
		}
		if fp, ok := scanFingerprint(out); ok {
			return fp, nil
		}
	}
	if ctx.Err() != nil {
		return "", fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-005", "ssh-keygen interrupted", ctx.Err())
	}
	if lastErr != nil {
		return "", fusionerr.Wrap(fusionerr.KindKeyExtraction, "RF-KEY-004", "ssh-keygen failed", lastErr)
	}
	return "", fusionerr.New(fusionerr.KindKeyExtraction, "RF-KEY-004", "no fingerprint in ssh-keygen output")
}

// scanFingerprint returns the first fingerprint token in out.
func scanFingerprint(out []byte) (string, bool) {
	for _, tok := range bytes.Fields(out) {
		if fingerprintToken.Match(tok) {
			return string(tok), true
		}
	}
	return "", false
}
