package gallery

import (
	"fmt"

	"github.com/khengari77/RandomFusion/storage"
	"github.com/khengari77/RandomFusion/storage/localfs"
)

// Dirs names the directories backing a gallery.
type Dirs struct {
	// Store receives every write.
	Store string
	// Mirrors receive a copy of every write; Put fails unless all agree.
	Mirrors []string
	// Shared are read-only galleries consulted after Store and Mirrors.
	Shared []string
}

// OpenCAS assembles the CAS described by d, or returns nil when d.Store is
// empty.
func OpenCAS(d Dirs) (storage.CAS, error) {
	if d.Store == "" {
		return nil, nil
	}
	own, err := localfs.New(d.Store)
	if err != nil {
		return nil, err
	}

	var cas storage.CAS = own
	if len(d.Mirrors) > 0 {
		r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{{Name: d.Store, CAS: own}}}
		for _, dir := range d.Mirrors {
			m, err := localfs.New(dir)
			if err != nil {
				return nil, fmt.Errorf("gallery: mirror: %w", err)
			}
			r.Backends = append(r.Backends, storage.NamedCAS{Name: dir, CAS: m})
		}
		cas = r
	}
	if len(d.Shared) == 0 {
		return cas, nil
	}

	multi := storage.MultiCAS{Adapters: []storage.CAS{cas}}
	for _, dir := range d.Shared {
		shared, err := localfs.New(dir)
		if err != nil {
			return nil, fmt.Errorf("gallery: shared: %w", err)
		}
		multi.Adapters = append(multi.Adapters, shared)
	}
	return multi, nil
}
