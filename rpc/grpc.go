package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName    = "randomfusion.v1.Fusion"
	methodGenerate = "/" + serviceName + "/Generate"
	methodGet      = "/" + serviceName + "/Get"
)

// FusionServer is the server API of the Fusion service.
//
// Messages are protobuf well-known types, so no generated code is involved.
// The equivalent proto definition:
//
//	service Fusion {
//	  rpc Generate(google.protobuf.Struct) returns (google.protobuf.BytesValue);
//	  rpc Get(google.protobuf.StringValue) returns (google.protobuf.BytesValue);
//	}
type FusionServer interface {
	Generate(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	Get(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedFusionServer can be embedded for forward compatibility.
type UnimplementedFusionServer struct{}

func (UnimplementedFusionServer) Generate(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Generate not implemented")
}

func (UnimplementedFusionServer) Get(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}

// RegisterFusionServer registers srv on s.
func RegisterFusionServer(s grpc.ServiceRegistrar, srv FusionServer) {
	s.RegisterService(&Fusion_ServiceDesc, srv)
}

// FusionClient is the client API of the Fusion service.
type FusionClient interface {
	Generate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type fusionClient struct{ cc grpc.ClientConnInterface }

func NewFusionClient(cc grpc.ClientConnInterface) FusionClient { return &fusionClient{cc: cc} }

func (c *fusionClient) Generate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodGenerate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fusionClient) Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodGet, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Fusion_Generate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FusionServer).Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGenerate}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FusionServer).Generate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Fusion_Get_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FusionServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGet}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FusionServer).Get(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Fusion_ServiceDesc is the grpc.ServiceDesc for the Fusion service.
var Fusion_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FusionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: _Fusion_Generate_Handler},
		{MethodName: "Get", Handler: _Fusion_Get_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "randomfusion/v1/fusion.proto",
}
