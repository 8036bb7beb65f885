package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "timetable.v1.ImportService"

// ImportServiceServer is the server API for ImportService.
type ImportServiceServer interface {
	ImportAnnotations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportReply(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportImage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCourses(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportCourses(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ ImportServiceServer = (*ImportServer)(nil)

type unaryMethod func(ImportServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var methods = map[string]unaryMethod{
	"ImportAnnotations": ImportServiceServer.ImportAnnotations,
	"ImportReply":       ImportServiceServer.ImportReply,
	"ImportImage":       ImportServiceServer.ImportImage,
	"ImportDirectory":   ImportServiceServer.ImportDirectory,
	"ListCourses":       ImportServiceServer.ListCourses,
	"ExportCourses":     ImportServiceServer.ExportCourses,
}

// ServiceDesc describes ImportService. Every method takes and returns a
// google.protobuf.Struct.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ImportServiceServer)(nil),
	Methods:     methodDescs(),
	Streams:     []grpc.StreamDesc{},
	Metadata:    "timetable/v1/import.proto",
}

func methodDescs() []grpc.MethodDesc {
	names := []string{"ImportAnnotations", "ImportReply", "ImportImage", "ImportDirectory", "ListCourses", "ExportCourses"}
	descs := make([]grpc.MethodDesc, 0, len(names))
	for _, name := range names {
		descs = append(descs, grpc.MethodDesc{MethodName: name, Handler: structHandler(name, methods[name])})
	}
	return descs
}

func structHandler(name string, call unaryMethod) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(ImportServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Register attaches s to a gRPC server.
func Register(r grpc.ServiceRegistrar, s ImportServiceServer) {
	r.RegisterService(&ServiceDesc, s)
}

// Client calls ImportService with Struct messages.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req encoded as a Struct and decodes the reply into resp.
func (c *Client) Call(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := encodeStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return err
	}
	return decodeStruct(out, resp)
}
