package api

import (
	"context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	structpb "google.golang.org/protobuf/types/known/structpb"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is described with well-known message types only, so it needs
// no generated message code.

const (
	MazeSession_NewSession_FullMethodName     = "/vinom.maze.v1.MazeSession/NewSession"
	MazeSession_Snapshot_FullMethodName       = "/vinom.maze.v1.MazeSession/Snapshot"
	MazeSession_SendAction_FullMethodName     = "/vinom.maze.v1.MazeSession/SendAction"
	MazeSession_CheckCollision_FullMethodName = "/vinom.maze.v1.MazeSession/CheckCollision"
	MazeSession_Watch_FullMethodName          = "/vinom.maze.v1.MazeSession/Watch"
)

// MazeSessionClient is the client API for MazeSession service.
type MazeSessionClient interface {
	NewSession(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Snapshot(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	SendAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	CheckCollision(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
}

type mazeSessionClient struct {
	cc grpc.ClientConnInterface
}

func NewMazeSessionClient(cc grpc.ClientConnInterface) MazeSessionClient {
	return &mazeSessionClient{cc}
}

func (c *mazeSessionClient) NewSession(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, MazeSession_NewSession_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mazeSessionClient) Snapshot(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, MazeSession_Snapshot_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mazeSessionClient) SendAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, MazeSession_SendAction_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mazeSessionClient) CheckCollision(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, MazeSession_CheckCollision_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mazeSessionClient) Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &MazeSession_ServiceDesc.Streams[0], MazeSession_Watch_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// MazeSessionServer is the server API for MazeSession service.
// All implementations must embed UnimplementedMazeSessionServer
// for forward compatibility.
type MazeSessionServer interface {
	NewSession(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Snapshot(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SendAction(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	CheckCollision(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
	mustEmbedUnimplementedMazeSessionServer()
}

// UnimplementedMazeSessionServer must be embedded to have
// forward compatible implementations.
type UnimplementedMazeSessionServer struct{}

func (UnimplementedMazeSessionServer) NewSession(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method NewSession not implemented")
}
func (UnimplementedMazeSessionServer) Snapshot(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Snapshot not implemented")
}
func (UnimplementedMazeSessionServer) SendAction(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendAction not implemented")
}
func (UnimplementedMazeSessionServer) CheckCollision(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckCollision not implemented")
}
func (UnimplementedMazeSessionServer) Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error {
	return status.Errorf(codes.Unimplemented, "method Watch not implemented")
}
func (UnimplementedMazeSessionServer) mustEmbedUnimplementedMazeSessionServer() {}

func RegisterMazeSessionServer(s grpc.ServiceRegistrar, srv MazeSessionServer) {
	s.RegisterService(&MazeSession_ServiceDesc, srv)
}

func _MazeSession_NewSession_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MazeSessionServer).NewSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MazeSession_NewSession_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MazeSessionServer).NewSession(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _MazeSession_Snapshot_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MazeSessionServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MazeSession_Snapshot_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MazeSessionServer).Snapshot(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _MazeSession_SendAction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MazeSessionServer).SendAction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MazeSession_SendAction_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MazeSessionServer).SendAction(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _MazeSession_CheckCollision_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MazeSessionServer).CheckCollision(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MazeSession_CheckCollision_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MazeSessionServer).CheckCollision(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _MazeSession_Watch_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MazeSessionServer).Watch(m, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

// MazeSession_ServiceDesc is the grpc.ServiceDesc for MazeSession service.
var MazeSession_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vinom.maze.v1.MazeSession",
	HandlerType: (*MazeSessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "NewSession",
			Handler:    _MazeSession_NewSession_Handler,
		},
		{
			MethodName: "Snapshot",
			Handler:    _MazeSession_Snapshot_Handler,
		},
		{
			MethodName: "SendAction",
			Handler:    _MazeSession_SendAction_Handler,
		},
		{
			MethodName: "CheckCollision",
			Handler:    _MazeSession_CheckCollision_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       _MazeSession_Watch_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "vinom/maze/v1/maze_session.proto",
}
