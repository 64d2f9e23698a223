package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khengari77/RandomFusion/cidutil"
	"github.com/khengari77/RandomFusion/gallery"
	"github.com/khengari77/RandomFusion/imagefile"
	"github.com/khengari77/RandomFusion/rpc"
	"github.com/khengari77/RandomFusion/storage"
)

// openStore returns the configured gallery CAS, or nil when no store
// directory is configured.
func (a *app) openStore() (storage.CAS, error) {
	return gallery.OpenCAS(a.cfg.GalleryDirs())
}

func (a *app) getCmd() *cobra.Command {
	var output, remote string
	cmd := &cobra.Command{
		Use:   "get CID",
		Short: "Fetch a stored image or manifest",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			if remote != "" {
				c, err := rpc.Dial(remote, rpc.DialOptions{MaxMsgBytes: a.cfg.Daemon.MaxMsgBytes})
				if err != nil {
					return err
				}
				defer c.Close()
				c.Timeout = time.Minute
				if data, err = c.Get(cmd.Context(), args[0]); err != nil {
					return err
				}
			} else {
				id, err := cidutil.Parse(args[0])
				if err != nil {
					return usagef("%v: %v", storage.ErrInvalidCID, err)
				}
				cas, err := a.openStore()
				if err != nil {
					return err
				}
				if cas == nil {
					return usagef("no store configured; pass --store-dir or set store_dir")
				}
				if data, err = cas.Get(cmd.Context(), id); err != nil {
					return err
				}
			}

			if output == "" || output == "-" {
				_, err := a.out.Write(data)
				return err
			}
			return imagefile.WriteFile(output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&remote, "remote", "", "fetch from a randomfusiond at this address")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify MANIFEST_CID",
		Short: "Re-render a stored manifest and check it reproduces its image",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cidutil.Parse(args[0])
			if err != nil {
				return usagef("%v: %v", storage.ErrInvalidCID, err)
			}
			store, err := a.gallery()
			if err != nil {
				return err
			}
			if store == nil {
				return usagef("no store configured; pass --store-dir or set store_dir")
			}
			m, err := store.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			ok, err := store.Verify(cmd.Context(), m)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("manifest %s does not reproduce image %s", id, m.Image)
			}
			fmt.Fprintf(a.out, "ok %s %s %dx%d %s\n", m.Image, m.Style, m.Width, m.Height, m.Fingerprint)
			return nil
		},
	}
}
