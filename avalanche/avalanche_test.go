package avalanche

import (
	"bytes"
	"encoding/hex"
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/khengari77/RandomFusion/fingerprint"
	"github.com/khengari77/RandomFusion/fusionerr"
)

var md5Fixture = fingerprint.MustParse("MD5:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff:00")

// The stream layout is a compatibility contract: images already handed out
// must stay reproducible.
func TestExpandGoldenSHA256(t *testing.T) {
	seed, err := Expander{}.Seed(md5Fixture)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if got := hex.EncodeToString(seed); got != "272f9d6474bc3b7c296897b3cb164a0804b6b26f76fef55067d7fb1166be032b" {
		t.Fatalf("seed changed: %s", got)
	}

	out, err := Expand(md5Fixture, 40)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := "ad272d4087ec41106c9e0ca880cb819797b00e1d30cfe318617786c0e62ae1ab8f2539f2bfcadd0e"
	if got := hex.EncodeToString(out); got != want {
		t.Fatalf("stream changed:\n got %s\nwant %s", got, want)
	}
}

func TestExpandDeterministic(t *testing.T) {
	for _, h := range Hashes() {
		e := Expander{Hash: h}
		a, err := e.Expand(md5Fixture, 777)
		if err != nil {
			t.Fatalf("%s: Expand: %v", h, err)
		}
		b, err := e.Expand(md5Fixture, 777)
		if err != nil {
			t.Fatalf("%s: Expand: %v", h, err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("%s: expected identical streams", h)
		}
	}
}

func TestExpandLength(t *testing.T) {
	for _, n := range []int{1, 32, 1000} {
		for _, h := range Hashes() {
			out, err := Expander{Hash: h}.Expand(md5Fixture, n)
			if err != nil {
				t.Fatalf("%s/%d: Expand: %v", h, n, err)
			}
			if len(out) != n {
				t.Fatalf("%s: expected %d bytes, got %d", h, n, len(out))
			}
		}
	}
}

func TestExpandPrefixStable(t *testing.T) {
	short, _ := Expand(md5Fixture, 50)
	long, _ := Expand(md5Fixture, 5000)
	if !bytes.Equal(short, long[:50]) {
		t.Fatalf("longer streams must extend shorter ones")
	}
}

func TestExpandInvalidLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := Expand(md5Fixture, n)
		if !fusionerr.IsKind(err, fusionerr.KindInvalidLength) {
			t.Fatalf("n=%d: expected InvalidLength, got %v", n, err)
		}
	}
}

func TestExpandRejectsUnknownHash(t *testing.T) {
	_, err := Expander{Hash: "md4"}.Expand(md5Fixture, 8)
	if fusionerr.RuleID(err) != "RF-PARAM-010" {
		t.Fatalf("expected RF-PARAM-010, got %v", err)
	}
	if _, err := ParseHash("md4"); err == nil {
		t.Fatalf("ParseHash: expected error")
	}
	if h, err := ParseHash(""); err != nil || h != DefaultHash {
		t.Fatalf("ParseHash(\"\") = %q, %v", h, err)
	}
}

func TestExpandDependsOnTag(t *testing.T) {
	raw := md5Fixture.Bytes()
	rawFP, err := fingerprint.New(fingerprint.Raw, raw)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, _ := Expand(md5Fixture, 64)
	b, _ := Expand(rawFP, 64)
	if bytes.Equal(a, b) {
		t.Fatalf("algorithm tag must feed the seed")
	}
}

func TestExpandAvalanche(t *testing.T) {
	const n = 1000
	rng := rand.New(rand.NewPCG(1, 2))
	inputs := []fingerprint.Fingerprint{
		md5Fixture,
		fingerprint.MustParse("SHA256:5Ba/N0m20dEelWi1fAtNdSd48HUhIBhILLG5cOP8POg"),
	}

	for _, h := range Hashes() {
		e := Expander{Hash: h}
		for _, fp := range inputs {
			base, err := e.Expand(fp, n)
			if err != nil {
				t.Fatalf("Expand: %v", err)
			}
			var total float64
			const trials = 64
			for i := 0; i < trials; i++ {
				bit := rng.IntN(fp.Len() * 8)
				flipped, err := e.Expand(fp.WithBitFlipped(bit), n)
				if err != nil {
					t.Fatalf("Expand flipped: %v", err)
				}
				ratio := float64(hamming(base, flipped)) / float64(n*8)
				if ratio < 0.40 || ratio > 0.60 {
					t.Fatalf("%s bit %d: flipped ratio %.3f outside [0.40, 0.60]", h, bit, ratio)
				}
				total += ratio
			}
			if mean := total / trials; mean < 0.48 || mean > 0.52 {
				t.Fatalf("%s: mean flipped ratio %.4f shows correlation", h, mean)
			}
		}
	}
}

func hamming(a, b []byte) int {
	d := 0
	for i := range a {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	return d
}
