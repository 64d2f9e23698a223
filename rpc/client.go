package rpc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/khengari77/RandomFusion/cidutil"
	"github.com/khengari77/RandomFusion/pipeline"
	"github.com/khengari77/RandomFusion/storage"
)

// Client calls a Fusion service.
type Client struct {
	cc     *grpc.ClientConn
	client FusionClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// MaxMsgBytes sets both send and receive limits when non-zero.
	MaxMsgBytes int
	// Extra options, appended last.
	Extra []grpc.DialOption
}

// Dial connects to target without transport security.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
			grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
		))
	}
	dialOpts = append(dialOpts, opts.Extra...)
	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewFusionClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Generated is the reply to Generate. ImageCID and ManifestCID are empty when
// the server does not store images.
type Generated struct {
	PNG         []byte
	ImageCID    string
	ManifestCID string
}

// Generate asks the server to render req. Key file paths are not resolved
// remotely; send fingerprint text or issuer keys.
func (c *Client) Generate(ctx context.Context, req pipeline.Request) (*Generated, error) {
	in, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var header metadata.MD
	reply, err := c.client.Generate(ctx, in, grpc.Header(&header))
	if err != nil {
		return nil, fromStatus(err)
	}
	out := &Generated{PNG: reply.GetValue()}
	if v := header.Get(HeaderImageCID); len(v) > 0 {
		out.ImageCID = v[0]
	}
	if v := header.Get(HeaderManifestCID); len(v) > 0 {
		out.ManifestCID = v[0]
	}
	return out, nil
}

// Get fetches a stored object and checks it against id.
func (c *Client) Get(ctx context.Context, id string) ([]byte, error) {
	want, err := cidutil.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidCID, err)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	reply, err := c.client.Get(ctx, wrapperspb.String(want.String()))
	if err != nil {
		return nil, fromStatus(err)
	}
	b := reply.GetValue()
	if !cidutil.Matches(want, b) {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// encodeRequest builds the Generate argument. Integer override values travel
// as decimal strings: protobuf numbers are doubles and would round 64-bit
// seeds.
func encodeRequest(req pipeline.Request) (*structpb.Struct, error) {
	ov := make(map[string]any, len(req.Overrides))
	for k, v := range req.Overrides {
		switch x := v.(type) {
		case int:
			ov[k] = strconv.FormatInt(int64(x), 10)
		case int64:
			ov[k] = strconv.FormatInt(x, 10)
		case uint64:
			ov[k] = strconv.FormatUint(x, 10)
		case uint32:
			ov[k] = strconv.FormatUint(uint64(x), 10)
		case int32:
			ov[k] = strconv.FormatInt(int64(x), 10)
		default:
			ov[k] = v
		}
	}
	return structpb.NewStruct(map[string]any{
		"key":       req.KeyInput,
		"style":     req.Style,
		"width":     req.Width,
		"height":    req.Height,
		"overrides": ov,
	})
}
