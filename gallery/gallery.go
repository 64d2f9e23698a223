// Package gallery records rendered images in a CAS together with a YAML
// manifest describing how each one was produced.
package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/cidutil"
	"github.com/khengari77/RandomFusion/imagefile"
	"github.com/khengari77/RandomFusion/params"
	"github.com/khengari77/RandomFusion/pipeline"
	"github.com/khengari77/RandomFusion/storage"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = 1

// Manifest describes one stored image.
type Manifest struct {
	Version     int              `yaml:"version"`
	Fingerprint string           `yaml:"fingerprint"`
	Style       string           `yaml:"style"`
	Width       int              `yaml:"width"`
	Height      int              `yaml:"height"`
	Hash        string           `yaml:"hash"`
	Overrides   params.Overrides `yaml:"overrides,omitempty"`
	Parameters  map[string]any   `yaml:"parameters"`
	Image       string           `yaml:"image"`
}

// Request rebuilds the pipeline request that produced m.
func (m *Manifest) Request() pipeline.Request {
	return pipeline.Request{
		KeyInput:  m.Fingerprint,
		Style:     m.Style,
		Width:     m.Width,
		Height:    m.Height,
		Overrides: m.Overrides,
	}
}

// Entry is the pair of CIDs written by Save.
type Entry struct {
	Image    cid.Cid
	Manifest cid.Cid
}

type Store struct {
	CAS    storage.CAS
	Logger *zap.Logger
}

func (s *Store) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Save stores png, the encoding of res.Image, and its manifest. overrides
// are the caller-supplied overrides of the request that produced res. A nil
// png is encoded from res.Image.
func (s *Store) Save(ctx context.Context, res *pipeline.Result, png []byte, overrides params.Overrides) (Entry, error) {
	if res == nil || res.Image == nil {
		return Entry{}, errors.New("gallery: empty result")
	}
	if png == nil {
		var err error
		if png, err = imagefile.EncodePNG(res.Image); err != nil {
			return Entry{}, err
		}
	}
	imgID, err := s.CAS.Put(ctx, png)
	if err != nil {
		return Entry{}, fmt.Errorf("gallery: store image: %w", err)
	}

	b := res.Image.Bounds()
	m := Manifest{
		Version:     ManifestVersion,
		Fingerprint: res.Fingerprint.String(),
		Style:       string(res.Params.Style),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Hash:        string(res.Hash),
		Overrides:   overrides,
		Parameters:  res.Params.Values(),
		Image:       imgID.String(),
	}
	doc, err := yaml.Marshal(&m)
	if err != nil {
		return Entry{}, fmt.Errorf("gallery: encode manifest: %w", err)
	}
	manID, err := s.CAS.Put(ctx, doc)
	if err != nil {
		return Entry{}, fmt.Errorf("gallery: store manifest: %w", err)
	}
	s.logger().Info("image stored",
		zap.String("image", imgID.String()),
		zap.String("manifest", manID.String()),
		zap.String("style", m.Style))
	return Entry{Image: imgID, Manifest: manID}, nil
}

// Load reads the manifest stored under id.
func (s *Store) Load(ctx context.Context, id cid.Cid) (*Manifest, error) {
	doc, err := s.CAS.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("gallery: %s is not a manifest: %w", id, err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("gallery: manifest %s has unsupported version %d", id, m.Version)
	}
	if _, err := cidutil.Parse(m.Image); err != nil {
		return nil, fmt.Errorf("gallery: manifest %s: image: %w", id, err)
	}
	return &m, nil
}

// Image returns the PNG referenced by m.
func (s *Store) Image(ctx context.Context, m *Manifest) ([]byte, error) {
	id, err := cidutil.Parse(m.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidCID, err)
	}
	return s.CAS.Get(ctx, id)
}

// Verify regenerates the image described by m and reports whether it
// matches the stored CID.
func (s *Store) Verify(ctx context.Context, m *Manifest) (bool, error) {
	g := pipeline.Generator{Hash: avalanche.Hash(m.Hash), Logger: s.Logger}
	res, err := g.Run(ctx, m.Request())
	if err != nil {
		return false, err
	}
	png, err := imagefile.EncodePNG(res.Image)
	if err != nil {
		return false, err
	}
	id, err := cidutil.Parse(m.Image)
	if err != nil {
		return false, err
	}
	return cidutil.Matches(id, png), nil
}
