// Command randomfusion renders deterministic images from key fingerprints.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khengari77/RandomFusion/config"
	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/logging"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitInput   = 3
)

// newLogger is replaced in tests.
var newLogger = logging.New

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries state shared by subcommands for one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool
	storeDir   string

	cfg    *config.Config
	logger *zap.Logger
}

func run(args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut, logger: zap.NewNop()}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(context.Background())
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(errOut, "randomfusion: %v\n", err)
	return exitCode(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "randomfusion",
		Short: "Deterministic images from cryptographic key fingerprints",
		Long: `randomfusion turns a key fingerprint into an image. The same fingerprint,
style, size and overrides always produce the same pixels.

KEY_INPUT may be a path to an SSH key file, an issuer key
("ed25519:<base64>" or "dilithium3:<base64>"), or fingerprint text such as
"SHA256:<base64>" or "MD5:11:22:...".`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Usage()
			return usagef("missing command")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $HOME/.randomfusion/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.storeDir, "store-dir", "", "gallery directory; rendered images and manifests are stored here")

	root.AddCommand(
		a.generateCmd(),
		a.fingerprintCmd(),
		a.paramsCmd(),
		a.stylesCmd(),
		a.batchCmd(),
		a.getCmd(),
		a.verifyCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("store-dir") {
		a.cfg.StoreDir = a.storeDir
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(a.verbose || a.cfg.Verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("config loaded", zap.String("path", a.configPath), zap.String("store_dir", a.cfg.StoreDir))
	return nil
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s expects %d argument(s), got %d\nusage: %s", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		return exitUsage
	}
	switch fusionerr.KindOf(err) {
	case "", fusionerr.KindInternal:
		return exitFailure
	default:
		return exitInput
	}
}
