package keysource

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/ssh"

	"github.com/khengari77/RandomFusion/fingerprint"
	"github.com/khengari77/RandomFusion/fusionerr"
)

func newSSHKey(t *testing.T) (ssh.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("NewPublicKey: %v", err)
	}
	return sshPub, priv
}

func writeFile(t *testing.T, name string, data []byte, mode os.FileMode) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, mode); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestExtractPublicKey(t *testing.T) {
	pub, _ := newSSHKey(t)
	path := writeFile(t, "id_ed25519.pub", ssh.MarshalAuthorizedKey(pub), 0o644)

	got, err := SSH{}.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := ssh.FingerprintSHA256(pub); got != want {
		t.Fatalf("fingerprint = %q, want %q", got, want)
	}
	if _, err := fingerprint.Parse(got); err != nil {
		t.Fatalf("extracted fingerprint does not parse: %v", err)
	}

	md5, err := SSH{LegacyMD5: true}.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract md5: %v", err)
	}
	fp, err := fingerprint.Parse(md5)
	if err != nil {
		t.Fatalf("md5 fingerprint does not parse: %v", err)
	}
	if fp.Algorithm() != fingerprint.MD5 {
		t.Fatalf("algorithm = %s, want MD5", fp.Algorithm())
	}
}

func TestExtractPrivateKey(t *testing.T) {
	pub, priv := newSSHKey(t)
	block, err := ssh.MarshalPrivateKey(priv, "test")
	if err != nil {
		t.Fatalf("MarshalPrivateKey: %v", err)
	}
	path := writeFile(t, "id_ed25519", pem.EncodeToMemory(block), 0o600)

	got, err := SSH{}.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := ssh.FingerprintSHA256(pub); got != want {
		t.Fatalf("fingerprint = %q, want %q", got, want)
	}
}

func TestExtractFailures(t *testing.T) {
	ctx := context.Background()

	_, err := SSH{}.Extract(ctx, filepath.Join(t.TempDir(), "missing"))
	if !fusionerr.IsKind(err, fusionerr.KindKeyExtraction) || fusionerr.RuleID(err) != "RF-KEY-001" {
		t.Fatalf("missing file: %v", err)
	}

	garbage := writeFile(t, "garbage", []byte("not a key\n"), 0o644)
	_, err = SSH{}.Extract(ctx, garbage)
	if fusionerr.RuleID(err) != "RF-KEY-002" {
		t.Fatalf("garbage without keygen: %v", err)
	}

	_, err = SSH{Keygen: filepath.Join(t.TempDir(), "no-such-keygen")}.Extract(ctx, garbage)
	if fusionerr.RuleID(err) != "RF-KEY-003" {
		t.Fatalf("garbage with missing keygen: %v", err)
	}
}

func fakeKeygen(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	return writeFile(t, "ssh-keygen", []byte("#!/bin/sh\n"+script), 0o755)
}

func TestExtractKeygenFallback(t *testing.T) {
	const want = "SHA256:uNiVztksCsDhcc0u9e8BujQXVUpKZIDTMczCvj3tD2s"
	keygen := fakeKeygen(t, `echo "256 `+want+` user@host (ED25519)"`+"\n")
	garbage := writeFile(t, "opaque.key", []byte("opaque"), 0o644)

	got, err := SSH{Keygen: keygen}.Extract(context.Background(), garbage)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != want {
		t.Fatalf("fingerprint = %q, want %q", got, want)
	}
}

func TestExtractKeygenRetriesWithoutHashFlag(t *testing.T) {
	const want = "MD5:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff:00"
	keygen := fakeKeygen(t, `case "$*" in *-E*) exit 1;; esac
echo "2048 `+want+` old (RSA)"
`)
	garbage := writeFile(t, "opaque.key", []byte("opaque"), 0o644)

	got, err := SSH{Keygen: keygen}.Extract(context.Background(), garbage)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != want {
		t.Fatalf("fingerprint = %q, want %q", got, want)
	}

	silent := fakeKeygen(t, "echo nothing useful\n")
	_, err = SSH{Keygen: silent}.Extract(context.Background(), garbage)
	if fusionerr.RuleID(err) != "RF-KEY-004" {
		t.Fatalf("no fingerprint in output: %v", err)
	}
}

func TestScanFingerprint(t *testing.T) {
	cases := []struct {
		out  string
		want string
	}{
		{"256 SHA256:uNiVztksCsDhcc0u9e8BujQXVUpKZIDTMczCvj3tD2s a@b (ED25519)", "SHA256:uNiVztksCsDhcc0u9e8BujQXVUpKZIDTMczCvj3tD2s"},
		{"2048 MD5:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff:00 x (RSA)", "MD5:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff:00"},
		{"256 SHA256:short a@b", ""},
		{"", ""},
	}
	for _, c := range cases {
		got, ok := scanFingerprint([]byte(c.out))
		if ok != (c.want != "") || got != c.want {
			t.Fatalf("scanFingerprint(%q) = %q, %v", c.out, got, ok)
		}
	}
}

func TestFromIssuerKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	key := "ed25519:" + base64.StdEncoding.EncodeToString(pub)
	got, ok, err := FromIssuerKey(key)
	if err != nil || !ok {
		t.Fatalf("FromIssuerKey: ok=%v err=%v", ok, err)
	}
	sum := sha256.Sum256(pub)
	if want := "SHA256:" + base64.RawStdEncoding.EncodeToString(sum[:]); got != want {
		t.Fatalf("fingerprint = %q, want %q", got, want)
	}

	dpk, _, err := mode3.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("mode3.GenerateKey: %v", err)
	}
	raw, err := dpk.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, ok, err = FromIssuerKey("dilithium3:" + base64.StdEncoding.EncodeToString(raw))
	if err != nil || !ok || !strings.HasPrefix(got, "SHA256:") {
		t.Fatalf("dilithium3: %q ok=%v err=%v", got, ok, err)
	}

	for in, rule := range map[string]string{
		"ed25519:!!!":   "RF-KEY-010",
		"ed25519:AAAA":  "RF-KEY-011",
		"dilithium3:AA": "RF-KEY-012",
	} {
		_, ok, err := FromIssuerKey(in)
		if !ok || fusionerr.RuleID(err) != rule {
			t.Fatalf("FromIssuerKey(%q) ok=%v err=%v, want %s", in, ok, err, rule)
		}
	}

	if _, ok, err := FromIssuerKey("MD5:11:22"); ok || err != nil {
		t.Fatalf("fingerprint text treated as issuer key: ok=%v err=%v", ok, err)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	pub, _ := newSSHKey(t)
	path := writeFile(t, "id.pub", ssh.MarshalAuthorizedKey(pub), 0o644)

	r := Resolver{Extractor: SSH{}}
	got, err := r.Resolve(ctx, "  "+path+"\n")
	if err != nil {
		t.Fatalf("Resolve(path): %v", err)
	}
	if got != ssh.FingerprintSHA256(pub) {
		t.Fatalf("Resolve(path) = %q", got)
	}

	const text = "MD5:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff:00"
	if got, err := r.Resolve(ctx, text); err != nil || got != text {
		t.Fatalf("Resolve(text) = %q, %v", got, err)
	}

	// Without an extractor paths are plain text.
	if got, err := (Resolver{}).Resolve(ctx, path); err != nil || got != path {
		t.Fatalf("Resolve without extractor = %q, %v", got, err)
	}

	if _, err := r.Resolve(ctx, "ed25519:AAAA"); !fusionerr.IsKind(err, fusionerr.KindKeyExtraction) {
		t.Fatalf("bad issuer key: %v", err)
	}
}

func TestResolveMissingKeyFile(t *testing.T) {
	ctx := context.Background()
	r := Resolver{Extractor: SSH{}}
	dir := t.TempDir()
	for _, in := range []string{
		filepath.Join(dir, "id_ed25519.pub"),
		filepath.Join(dir, "no", "such", "key"),
		"./missing_key.pub",
		"alice.pub",
	} {
		_, err := r.Resolve(ctx, in)
		if !fusionerr.IsKind(err, fusionerr.KindKeyExtraction) || fusionerr.RuleID(err) != "RF-KEY-006" {
			t.Fatalf("Resolve(%q): expected RF-KEY-006, got %v", in, err)
		}
	}

	// Base64 fingerprints contain '/' but are not paths.
	const text = "SHA256:5Ba/N0m20dEelWi1fAtNdSd48HUhIBhILLG5cOP8POg"
	if got, err := r.Resolve(ctx, text); err != nil || got != text {
		t.Fatalf("Resolve(%q) = %q, %v", text, got, err)
	}
	// Servers never report on the local filesystem.
	if got, err := (Resolver{}).Resolve(ctx, "alice.pub"); err != nil || got != "alice.pub" {
		t.Fatalf("Resolve without extractor = %q, %v", got, err)
	}
}
