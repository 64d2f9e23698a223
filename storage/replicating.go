package storage

import (
	"context"
	"fmt"

	"github.com/ipfs/go-cid"
	"golang.org/x/sync/errgroup"

	"github.com/khengari77/RandomFusion/cidutil"
)

// NamedCAS pairs a backend with the name used in errors and logs.
type NamedCAS struct {
	Name string
	CAS  CAS
}

// ReplicatingCAS writes every object to all Backends and reads from the first
// that has it.
//
// The gallery uses it for mirror directories: a stored image is only reported
// once every mirror holds identical bytes.
type ReplicatingCAS struct {
	Backends []NamedCAS
}

var _ CAS = ReplicatingCAS{}

// PutAll writes data to all backends concurrently and returns the CID each
// reported. Any backend disagreeing with the locally computed CID fails the
// write with ErrCIDMismatch.
func (r ReplicatingCAS) PutAll(ctx context.Context, data []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := cidutil.Sum(data)
	if err != nil {
		return cid.Undef, nil, err
	}
	if len(r.Backends) == 0 {
		return cid.Undef, nil, ErrNoBackends
	}

	got := make([]cid.Cid, len(r.Backends))
	g, ctx := errgroup.WithContext(ctx)
	for i, b := range r.Backends {
		if b.CAS == nil {
			return cid.Undef, nil, fmt.Errorf("storage: backend %q has no CAS", b.Name)
		}
		g.Go(func() error {
			id, err := b.CAS.Put(ctx, data)
			if err != nil {
				return fmt.Errorf("storage: %s: %w", b.Name, err)
			}
			got[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cid.Undef, nil, err
	}

	out := make(map[string]cid.Cid, len(r.Backends))
	for i, b := range r.Backends {
		out[b.Name] = got[i]
		if !got[i].Equals(want) {
			return cid.Undef, out, fmt.Errorf("%w: %s returned %s, want %s", ErrCIDMismatch, b.Name, got[i], want)
		}
	}
	return want, out, nil
}

func (r ReplicatingCAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(ctx, data)
	return id, err
}

func (r ReplicatingCAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	for _, b := range r.Backends {
		out, err := b.CAS.Get(ctx, id)
		if err == nil {
			return out, nil
		}
		if !IsNotFound(err) {
			return nil, fmt.Errorf("storage: %s: %w", b.Name, err)
		}
	}
	return nil, ErrNotFound
}

func (r ReplicatingCAS) Has(ctx context.Context, id cid.Cid) (bool, error) {
	for _, b := range r.Backends {
		ok, err := b.CAS.Has(ctx, id)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
