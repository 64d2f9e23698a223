package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/imagefile"
	"github.com/khengari77/RandomFusion/keysource"
	"github.com/khengari77/RandomFusion/pipeline"
)

// job is one entry of a batch file. Zero fields take config defaults.
type job struct {
	pipeline.Request `yaml:",inline"`
	Output           string `yaml:"output"`
}

type jobFile struct {
	Hash string `yaml:"hash,omitempty"`
	Jobs []job  `yaml:"jobs"`
}

func (a *app) batchCmd() *cobra.Command {
	var (
		jobsPath string
		outDir   string
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "batch --jobs FILE",
		Short: "Render every job in a YAML file in parallel",
		Long: `batch reads a YAML file of the form

  hash: sha256          # optional
  jobs:
    - key: SHA256:...
      style: circles
      width: 256
      height: 256
      overrides: {num_circles: 12}
      output: alice.png

and renders all jobs concurrently. Relative outputs are placed under --out-dir.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jobsPath == "" {
				return usagef("--jobs is required")
			}
			data, err := os.ReadFile(jobsPath)
			if err != nil {
				return err
			}
			var jf jobFile
			if err := yaml.Unmarshal(data, &jf); err != nil {
				return usagef("parse %s: %v", jobsPath, err)
			}
			if len(jf.Jobs) == 0 {
				return usagef("%s contains no jobs", jobsPath)
			}

			hashName := a.cfg.Hash
			if jf.Hash != "" {
				hashName = jf.Hash
			}
			hash, err := avalanche.ParseHash(hashName)
			if err != nil {
				return err
			}

			reqs := make([]pipeline.Request, len(jf.Jobs))
			for i, j := range jf.Jobs {
				if j.Output == "" {
					return usagef("job %d has no output", i)
				}
				r := j.Request
				if r.Style == "" {
					r.Style = a.cfg.Style
				}
				if r.Width == 0 {
					r.Width = a.cfg.Width
				}
				if r.Height == 0 {
					r.Height = a.cfg.Height
				}
				reqs[i] = r
			}

			g := &pipeline.Generator{Hash: hash, Keys: keysource.NewResolver(), Logger: a.logger}
			start := time.Now()
			results, err := g.GenerateAll(cmd.Context(), reqs, workers)
			if err != nil {
				return err
			}
			store, err := a.gallery()
			if err != nil {
				return err
			}
			for i, res := range results {
				path := jf.Jobs[i].Output
				if !filepath.IsAbs(path) {
					path = filepath.Join(outDir, path)
				}
				png, err := imagefile.EncodePNG(res.Image)
				if err != nil {
					return err
				}
				if err := imagefile.WriteFile(path, png); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "wrote %s\n", path)
				if store != nil {
					entry, err := store.Save(cmd.Context(), res, png, reqs[i].Overrides)
					if err != nil {
						return err
					}
					printEntry(a, entry.Image.String(), entry.Manifest.String())
				}
			}
			a.logger.Info("batch written", zap.Int("jobs", len(results)), zap.Duration("elapsed", time.Since(start)))
			return nil
		},
	}
	cmd.Flags().StringVar(&jobsPath, "jobs", "", "YAML job file")
	cmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "directory for relative outputs")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel renders (default GOMAXPROCS)")
	return cmd
}
