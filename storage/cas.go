// Package storage defines the content-addressed store that holds rendered
// images and their manifests.
package storage

import (
	"context"

	"github.com/ipfs/go-cid"
)

// CAS is a content-addressable store.
//
// Contract:
//   - Put is idempotent and returns the CIDv1 (raw, sha2-256) of the bytes.
//   - Stored objects are immutable.
//   - Get returns ErrNotFound for absent CIDs and never returns bytes that do
//     not hash to the requested CID.
type CAS interface {
	Put(ctx context.Context, data []byte) (cid.Cid, error)
	Get(ctx context.Context, id cid.Cid) ([]byte, error)
	Has(ctx context.Context, id cid.Cid) (bool, error)
}
