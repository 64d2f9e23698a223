// Command randomfusiond serves image generation over gRPC.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/config"
	"github.com/khengari77/RandomFusion/gallery"
	"github.com/khengari77/RandomFusion/logging"
	"github.com/khengari77/RandomFusion/params"
	"github.com/khengari77/RandomFusion/rpc"
)

const defaultMaxMsgBytes = 64 << 20

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr, nil))
}

// run serves until ctx is done. When ready is non-nil it receives the bound
// listen address once the server accepts connections.
func run(ctx context.Context, args []string, errOut io.Writer, ready chan<- net.Addr) int {
	fs := pflag.NewFlagSet("randomfusiond", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "config file (default $HOME/.randomfusion/config.yaml)")
	listen := fs.String("listen", "", "listen address (overrides daemon.listen)")
	storeDir := fs.String("store-dir", "", "gallery directory; generated images are stored when set")
	hashName := fs.String("hash", "", "expansion hash (overrides hash)")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if fs.Changed("listen") {
		cfg.Daemon.Listen = *listen
	}
	if fs.Changed("store-dir") {
		cfg.StoreDir = *storeDir
	}
	if fs.Changed("hash") {
		cfg.Hash = *hashName
	}
	if *verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := serve(ctx, cfg, logger, ready); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, ready chan<- net.Addr) error {
	var store *gallery.Store
	cas, err := gallery.OpenCAS(cfg.GalleryDirs())
	if err != nil {
		return err
	}
	if cas != nil {
		store = &gallery.Store{CAS: cas, Logger: logger}
	}

	lis, err := net.Listen("tcp", cfg.Daemon.Listen)
	if err != nil {
		return err
	}
	defer lis.Close()

	maxMsg := cfg.Daemon.MaxMsgBytes
	if maxMsg <= 0 {
		maxMsg = defaultMaxMsgBytes
	}
	s := grpc.NewServer(grpc.MaxRecvMsgSize(maxMsg), grpc.MaxSendMsgSize(maxMsg))
	srv := rpc.NewServer(avalanche.Hash(cfg.Hash), store, logger)
	if style, err := params.ParseStyle(cfg.Style); err == nil {
		srv.DefaultStyle = style
	}
	rpc.RegisterFusionServer(s, srv)

	logger.Info("randomfusiond listening",
		zap.String("addr", lis.Addr().String()),
		zap.String("hash", cfg.Hash),
		zap.String("store_dir", cfg.StoreDir),
	)
	if ready != nil {
		ready <- lis.Addr()
	}
	return serveUntilDone(ctx, s, lis)
}

// serveUntilDone runs s on lis until ctx is done or Serve fails. The stop
// goroutine has exited by the time it returns.
func serveUntilDone(ctx context.Context, s *grpc.Server, lis net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.GracefulStop()
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
