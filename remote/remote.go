// Package remote is the wire contract between a game server and its
// clients. Players send actions as string values and receive snapshots as
// structs over a single bidirectional stream.
package remote

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "tetris.v1.TetrisService"
	PlayMethod  = "/" + ServiceName + "/Play"

	// SessionHeader carries the session id in the stream header metadata.
	SessionHeader = "x-session-id"
)

type (
	PlayServer = grpc.BidiStreamingServer[wrapperspb.StringValue, structpb.Struct]
	PlayClient = grpc.BidiStreamingClient[wrapperspb.StringValue, structpb.Struct]
)

type TetrisServiceServer interface {
	// Play runs one game for the lifetime of the stream.
	Play(PlayServer) error
}

func playHandler(srv any, stream grpc.ServerStream) error {
	return srv.(TetrisServiceServer).Play(&grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TetrisServiceServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Play",
			Handler:       playHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "tetris/v1/tetris.proto",
}

func RegisterTetrisServiceServer(s grpc.ServiceRegistrar, srv TetrisServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Play opens a game session on cc.
func Play(ctx context.Context, cc grpc.ClientConnInterface, opts ...grpc.CallOption) (PlayClient, error) {
	stream, err := cc.NewStream(ctx, &ServiceDesc.Streams[0], PlayMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}, nil
}
