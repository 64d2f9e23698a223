package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/fingerprint"
	"github.com/khengari77/RandomFusion/keysource"
	"github.com/khengari77/RandomFusion/params"
)

func (a *app) fingerprintCmd() *cobra.Command {
	var (
		showSeed bool
		hashName string
	)
	cmd := &cobra.Command{
		Use:   "fingerprint KEY_INPUT",
		Short: "Print the canonical fingerprint of a key input",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := keysource.NewResolver().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fp, err := fingerprint.Parse(text)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, fp)
			if !showSeed {
				return nil
			}
			if !cmd.Flags().Changed("hash") {
				hashName = a.cfg.Hash
			}
			h, err := avalanche.ParseHash(hashName)
			if err != nil {
				return err
			}
			seed, err := avalanche.Expander{Hash: h}.Seed(fp)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", h, hex.EncodeToString(seed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSeed, "seed", false, "also print the expansion seed")
	cmd.Flags().StringVar(&hashName, "hash", "", "expansion hash for --seed")
	return cmd
}

// paramsReport is the YAML document printed by the params command.
type paramsReport struct {
	Fingerprint  string           `yaml:"fingerprint"`
	Style        string           `yaml:"style"`
	Hash         string           `yaml:"hash"`
	StreamLength int              `yaml:"stream_length"`
	Overrides    params.Overrides `yaml:"overrides,omitempty"`
	Parameters   map[string]any   `yaml:"parameters"`
}

func (a *app) paramsCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "params KEY_INPUT",
		Short: "Print the parameters a key input derives, as YAML",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, hash, err := a.request(cmd, &f, args[0])
			if err != nil {
				return err
			}
			text, err := keysource.NewResolver().Resolve(cmd.Context(), req.KeyInput)
			if err != nil {
				return err
			}
			fp, err := fingerprint.Parse(text)
			if err != nil {
				return err
			}
			style := params.Style(req.Style)
			n := params.StreamLength(style)
			stream, err := avalanche.Expander{Hash: hash}.Expand(fp, n)
			if err != nil {
				return err
			}
			set, err := params.Derive(stream, style, req.Overrides)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(a.out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(paramsReport{
				Fingerprint:  fp.String(),
				Style:        req.Style,
				Hash:         string(hash),
				StreamLength: n,
				Overrides:    req.Overrides,
				Parameters:   set.Values(),
			})
		},
	}
	f.register(cmd, false)
	return cmd
}

func (a *app) stylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List render styles and the parameters each accepts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range params.Styles() {
				var keys []string
				for _, slot := range params.Layout(s) {
					if slot.Overridable {
						keys = append(keys, slot.Name)
					}
				}
				fmt.Fprintf(a.out, "%-13s %4d bytes  %s\n", s, params.Size(s), strings.Join(keys, ", "))
			}
			return nil
		},
	}
}
