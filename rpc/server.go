// Package rpc serves image generation over gRPC.
package rpc

import (
	"context"
	"math"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/cidutil"
	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/gallery"
	"github.com/khengari77/RandomFusion/imagefile"
	"github.com/khengari77/RandomFusion/keysource"
	"github.com/khengari77/RandomFusion/params"
	"github.com/khengari77/RandomFusion/pipeline"
	"github.com/khengari77/RandomFusion/storage"
)

// Response header keys set by Generate when the server stores images.
const (
	HeaderImageCID    = "x-randomfusion-image"
	HeaderManifestCID = "x-randomfusion-manifest"
)

// Server implements FusionServer.
//
// Generator.Keys must not read local files on behalf of remote callers;
// NewServer uses a keysource.Resolver without an Extractor. Gallery is optional: without it Generate does not
// persist and Get always reports NotFound.
type Server struct {
	UnimplementedFusionServer

	Generator    *pipeline.Generator
	Gallery      *gallery.Store
	DefaultStyle params.Style
	Logger       *zap.Logger
}

// NewServer returns a Server rendering with hash and storing into g (may be
// nil). Key inputs are resolved without filesystem access.
func NewServer(hash avalanche.Hash, g *gallery.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Generator:    &pipeline.Generator{Hash: hash, Keys: keysource.Resolver{}, Logger: logger},
		Gallery:      g,
		DefaultStyle: params.StyleColorBlocks,
		Logger:       logger,
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Generate renders the request described by in:
//
//	{key: string, style: string, width: number, height: number, overrides: {...}}
//
// and returns the PNG.
func (s *Server) Generate(ctx context.Context, in *structpb.Struct) (*wrapperspb.BytesValue, error) {
	req, err := decodeRequest(in, s.DefaultStyle)
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := s.Generator.Run(ctx, req)
	if err != nil {
		s.logger().Info("generate rejected", zap.String("rule", fusionerr.RuleID(err)), zap.Error(err))
		return nil, toStatus(err)
	}
	png, err := imagefile.EncodePNG(res.Image)
	if err != nil {
		return nil, toStatus(err)
	}

	if s.Gallery != nil {
		entry, err := s.Gallery.Save(ctx, res, png, req.Overrides)
		if err != nil {
			return nil, toStatus(err)
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(
			HeaderImageCID, entry.Image.String(),
			HeaderManifestCID, entry.Manifest.String(),
		))
	}
	s.logger().Info("generated",
		zap.Stringer("fingerprint", res.Fingerprint),
		zap.String("style", string(res.Params.Style)),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Int("bytes", len(png)))
	return wrapperspb.Bytes(png), nil
}

// Get returns a stored object (image or manifest) by CID.
func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	id, err := cidutil.Parse(in.GetValue())
	if err != nil {
		return nil, toStatus(storage.ErrInvalidCID)
	}
	if s.Gallery == nil {
		return nil, toStatus(storage.ErrNotFound)
	}
	b, err := s.Gallery.CAS.Get(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(b), nil
}

func decodeRequest(in *structpb.Struct, defaultStyle params.Style) (pipeline.Request, error) {
	f := in.GetFields()
	req := pipeline.Request{
		KeyInput: f["key"].GetStringValue(),
		Style:    f["style"].GetStringValue(),
	}
	if req.Style == "" {
		req.Style = string(defaultStyle)
	}
	var err error
	if req.Width, err = dimension(f, "width"); err != nil {
		return req, err
	}
	if req.Height, err = dimension(f, "height"); err != nil {
		return req, err
	}
	if ov := f["overrides"].GetStructValue(); ov != nil {
		req.Overrides = params.Overrides(ov.AsMap())
	}
	return req, nil
}

func dimension(f map[string]*structpb.Value, name string) (int, error) {
	v, ok := f[name]
	if !ok {
		return 0, fusionerr.Newf(fusionerr.KindInvalidDimensions, "RF-DIM-001", "%s is required", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fusionerr.Newf(fusionerr.KindInvalidDimensions, "RF-DIM-003", "%s must be an integer, got %v", name, v.AsInterface())
	}
	return int(n.NumberValue), nil
}
