// Package testkit holds conformance tests shared by storage.CAS
// implementations.
package testkit

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/ipfs/go-cid"
	"golang.org/x/sync/errgroup"

	"github.com/khengari77/RandomFusion/cidutil"
	"github.com/khengari77/RandomFusion/storage"
)

// NewCAS constructs a fresh, empty CAS isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

// pngHeader makes payloads look like the images the store holds in practice.
var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func payload(s string) []byte { return append(append([]byte(nil), pngHeader...), s...) }

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()
	ctx := context.Background()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := payload("round trip")

		id, err := cas.Put(ctx, want)
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		wantID, err := cidutil.Sum(want)
		if err != nil {
			t.Fatalf("Sum: %v", err)
		}
		if !id.Equals(wantID) {
			t.Fatalf("Put CID = %s, want %s", id, wantID)
		}
		got, err := cas.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get returned different bytes")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := payload("same bytes")
		id1, err := cas.Put(ctx, b)
		if err != nil {
			t.Fatalf("Put(1): %v", err)
		}
		id2, err := cas.Put(ctx, b)
		if err != nil {
			t.Fatalf("Put(2): %v", err)
		}
		if !id1.Equals(id2) {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("ConcurrentPut", func(t *testing.T) {
		cas := newCAS(t)
		var eg errgroup.Group
		ids := make([]cid.Cid, 16)
		for i := range ids {
			eg.Go(func() error {
				id, err := cas.Put(ctx, payload(fmt.Sprint(i%4)))
				ids[i] = id
				return err
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatalf("concurrent Put: %v", err)
		}
		for i, id := range ids {
			if !id.Equals(ids[i%4]) {
				t.Fatalf("Put %d returned %s, want %s", i, id, ids[i%4])
			}
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := payload("missing")
		id, err := cidutil.Sum(b)
		if err != nil {
			t.Fatalf("Sum: %v", err)
		}
		if ok, err := cas.Has(ctx, id); err != nil || ok {
			t.Fatalf("Has(missing) = %v, %v", ok, err)
		}
		if _, err := cas.Get(ctx, id); !storage.IsNotFound(err) {
			t.Fatalf("Get(missing): err=%v, want ErrNotFound", err)
		}
		if _, err := cas.Put(ctx, b); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if ok, err := cas.Has(ctx, id); err != nil || !ok {
			t.Fatalf("Has after Put = %v, %v", ok, err)
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		if ok, _ := cas.Has(ctx, cid.Undef); ok {
			t.Fatalf("Has(Undef) = true")
		}
		if _, err := cas.Get(ctx, cid.Undef); err == nil {
			t.Fatalf("Get(Undef) succeeded")
		}
	})
}
