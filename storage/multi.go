package storage

import (
	"context"

	"github.com/ipfs/go-cid"
)

// MultiCAS reads through Adapters in slice order and writes to the first.
//
// The CLI uses it to layer a read-only shared gallery behind the user's own
// store.
type MultiCAS struct {
	Adapters []CAS
}

var _ CAS = MultiCAS{}

func (m MultiCAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	if len(m.Adapters) == 0 {
		return cid.Undef, ErrNoBackends
	}
	return m.Adapters[0].Put(ctx, data)
}

// Get returns the first hit. Errors other than ErrNotFound stop the search.
func (m MultiCAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if len(m.Adapters) == 0 {
		return nil, ErrNoBackends
	}
	for _, cas := range m.Adapters {
		b, err := cas.Get(ctx, id)
		if err == nil {
			return b, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func (m MultiCAS) Has(ctx context.Context, id cid.Cid) (bool, error) {
	for _, cas := range m.Adapters {
		ok, err := cas.Has(ctx, id)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
