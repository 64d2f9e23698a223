package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khengari77/RandomFusion/gallery"
	"github.com/khengari77/RandomFusion/imagefile"
	"github.com/khengari77/RandomFusion/keysource"
	"github.com/khengari77/RandomFusion/pipeline"
	"github.com/khengari77/RandomFusion/rpc"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		f      renderFlags
		output string
		remote string
	)
	cmd := &cobra.Command{
		Use:   "generate KEY_INPUT",
		Short: "Render the image for a key file, issuer key or fingerprint",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, hash, err := a.request(cmd, &f, args[0])
			if err != nil {
				return err
			}
			if remote != "" {
				if cmd.Flags().Changed("hash") {
					return usagef("--hash cannot be combined with --remote; the server chooses the hash")
				}
				return a.generateRemote(cmd, req, remote, output)
			}

			g := &pipeline.Generator{Hash: hash, Keys: keysource.NewResolver(), Logger: a.logger}
			start := time.Now()
			res, err := g.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			png, err := imagefile.EncodePNG(res.Image)
			if err != nil {
				return err
			}
			if err := imagefile.WriteFile(output, png); err != nil {
				return err
			}
			a.logger.Info("image written",
				zap.String("path", output),
				zap.Stringer("fingerprint", res.Fingerprint),
				zap.Duration("elapsed", time.Since(start)))
			fmt.Fprintf(a.out, "wrote %s (%s %dx%d, %s)\n", output, req.Style, req.Width, req.Height, res.Fingerprint)

			store, err := a.gallery()
			if err != nil || store == nil {
				return err
			}
			entry, err := store.Save(cmd.Context(), res, png, req.Overrides)
			if err != nil {
				return err
			}
			printEntry(a, entry.Image.String(), entry.Manifest.String())
			return nil
		},
	}
	f.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "randomfusion_output.png", "output PNG file")
	cmd.Flags().StringVar(&remote, "remote", "", "render on a randomfusiond at this address instead of locally")
	return cmd
}

// generateRemote resolves key files locally and sends only fingerprint text.
func (a *app) generateRemote(cmd *cobra.Command, req pipeline.Request, addr, output string) error {
	text, err := keysource.NewResolver().Resolve(cmd.Context(), req.KeyInput)
	if err != nil {
		return err
	}
	req.KeyInput = text

	c, err := rpc.Dial(addr, rpc.DialOptions{MaxMsgBytes: a.cfg.Daemon.MaxMsgBytes})
	if err != nil {
		return err
	}
	defer c.Close()
	c.Timeout = time.Minute

	got, err := c.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	if err := imagefile.WriteFile(output, got.PNG); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s (%s %dx%d, rendered by %s)\n", output, req.Style, req.Width, req.Height, addr)
	if got.ImageCID != "" {
		printEntry(a, got.ImageCID, got.ManifestCID)
	}
	return nil
}

func printEntry(a *app, image, manifest string) {
	fmt.Fprintf(a.out, "image    %s\nmanifest %s\n", image, manifest)
}

// gallery opens the configured store, or returns nil when none is set.
func (a *app) gallery() (*gallery.Store, error) {
	cas, err := a.openStore()
	if err != nil || cas == nil {
		return nil, err
	}
	return &gallery.Store{CAS: cas, Logger: a.logger}, nil
}
