package main

import (
	"github.com/spf13/cobra"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/params"
	"github.com/khengari77/RandomFusion/pipeline"
)

// renderFlags are the flags shared by commands that render or derive.
type renderFlags struct {
	style  string
	width  int
	height int
	sets   []string
	hash   string
}

func (f *renderFlags) register(cmd *cobra.Command, withSize bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.style, "style", "s", "", "render style (see `randomfusion styles`)")
	if withSize {
		fs.IntVar(&f.width, "width", 0, "image width in pixels")
		fs.IntVar(&f.height, "height", 0, "image height in pixels")
	}
	fs.StringArrayVar(&f.sets, "set", nil, "parameter override key=value (repeatable)")
	fs.StringVar(&f.hash, "hash", "", "expansion hash: sha256, sha512, sha3-256, blake2b-256")
}

// request merges flags over the loaded config. Config overrides for the
// chosen style apply first; --set entries replace them key by key.
func (a *app) request(cmd *cobra.Command, f *renderFlags, keyInput string) (pipeline.Request, avalanche.Hash, error) {
	cfg := a.cfg
	req := pipeline.Request{
		KeyInput: keyInput,
		Style:    cfg.Style,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}
	fs := cmd.Flags()
	if fs.Changed("style") {
		req.Style = f.style
	}
	if fs.Changed("width") {
		req.Width = f.width
	}
	if fs.Changed("height") {
		req.Height = f.height
	}

	hashName := cfg.Hash
	if fs.Changed("hash") {
		hashName = f.hash
	}
	hash, err := avalanche.ParseHash(hashName)
	if err != nil {
		return req, "", err
	}

	style, err := params.ParseStyle(req.Style)
	if err != nil {
		return req, "", err
	}
	req.Style = string(style)

	sets, err := params.ParseAssignments(f.sets)
	if err != nil {
		return req, "", err
	}
	base := cfg.OverridesFor(style)
	if len(base)+len(sets) > 0 {
		req.Overrides = base.Merge(sets)
	}
	return req, hash, nil
}
