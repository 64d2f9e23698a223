// Package pipeline sequences fingerprint normalisation, stream expansion,
// parameter derivation and rendering.
package pipeline

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/fingerprint"
	"github.com/khengari77/RandomFusion/params"
	"github.com/khengari77/RandomFusion/render"
)

// KeyResolver turns user input (key file path, issuer key, fingerprint text)
// into fingerprint text. keysource.Resolver implements it.
type KeyResolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

// Request describes one image.
type Request struct {
	KeyInput  string           `yaml:"key"`
	Style     string           `yaml:"style"`
	Width     int              `yaml:"width"`
	Height    int              `yaml:"height"`
	Overrides params.Overrides `yaml:"overrides,omitempty"`
}

// Result is a rendered image together with everything that produced it.
type Result struct {
	Fingerprint  fingerprint.Fingerprint
	Hash         avalanche.Hash
	StreamLength int
	Params       params.Set
	Image        *image.RGBA
}

// Generator runs requests. The zero value normalises KeyInput directly,
// expands with avalanche.DefaultHash and does not log.
type Generator struct {
	Hash   avalanche.Hash
	Keys   KeyResolver
	Logger *zap.Logger
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Generator) hash() avalanche.Hash {
	if g.Hash == "" {
		return avalanche.DefaultHash
	}
	return g.Hash
}

// Run produces the image for req.
//
// The style is resolved before expansion since it fixes the stream length.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	log := g.logger()

	text := req.KeyInput
	if g.Keys != nil {
		var err error
		text, err = g.Keys.Resolve(ctx, req.KeyInput)
		if err != nil {
			return nil, err
		}
	}
	fp, err := fingerprint.Parse(text)
	if err != nil {
		return nil, err
	}
	log.Debug("fingerprint normalised", zap.Stringer("fingerprint", fp))

	style, err := params.ParseStyle(req.Style)
	if err != nil {
		return nil, err
	}

	h := g.hash()
	n := params.StreamLength(style)
	stream, err := avalanche.Expander{Hash: h}.Expand(fp, n)
	if err != nil {
		return nil, err
	}
	log.Debug("stream expanded", zap.String("hash", string(h)), zap.Int("bytes", n))

	set, err := params.Derive(stream, style, req.Overrides)
	if err != nil {
		return nil, err
	}
	log.Debug("parameters derived", zap.String("style", string(style)), zap.Strings("overrides", req.Overrides.Keys()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := render.Render(set, req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	log.Debug("image rendered", zap.Int("width", req.Width), zap.Int("height", req.Height))

	return &Result{
		Fingerprint:  fp,
		Hash:         h,
		StreamLength: n,
		Params:       set,
		Image:        img,
	}, nil
}

// Generate renders keyInput, which must already be fingerprint text, with the
// default hash.
func Generate(keyInput, style string, width, height int, overrides params.Overrides) (*image.RGBA, error) {
	var g Generator
	res, err := g.Run(context.Background(), Request{
		KeyInput:  keyInput,
		Style:     style,
		Width:     width,
		Height:    height,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}
