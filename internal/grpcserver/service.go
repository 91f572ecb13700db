package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"mangashelf/internal/compare"
	"mangashelf/pkg/models"
)

const (
	ServiceName      = "mangashelf.CompareService"
	CompareMethod    = "/" + ServiceName + "/Compare"
	GetRunMethod     = "/" + ServiceName + "/GetRun"
	compareShortName = "Compare"
	getRunShortName  = "GetRun"
)

type CompareRequest struct {
	Library   string `json:"library"`
	Reference string `json:"reference"`
	Exclusive bool   `json:"exclusive"`
}

type CompareResponse struct {
	RunID      string              `json:"run_id"`
	MatchCount int                 `json:"match_count"`
	Matches    []models.MatchView  `json:"matches"`
	Collisions []compare.Collision `json:"collisions,omitempty"`
}

type GetRunRequest struct {
	ID string `json:"id"`
}

type GetRunResponse struct {
	Run models.Run `json:"run"`
}

// CompareServiceServer is the server side of mangashelf.CompareService.
type CompareServiceServer interface {
	Compare(context.Context, *CompareRequest) (*CompareResponse, error)
	GetRun(context.Context, *GetRunRequest) (*GetRunResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CompareServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: compareShortName, Handler: compareHandler},
		{MethodName: getRunShortName, Handler: getRunHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mangashelf/compare",
}

func Register(s grpc.ServiceRegistrar, srv CompareServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func compareHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CompareRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompareServiceServer).Compare(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CompareMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompareServiceServer).Compare(ctx, req.(*CompareRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getRunHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRunRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompareServiceServer).GetRun(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetRunMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompareServiceServer).GetRun(ctx, req.(*GetRunRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls mangashelf.CompareService over a connection, selecting the
// JSON codec on every call.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Compare(ctx context.Context, req *CompareRequest, opts ...grpc.CallOption) (*CompareResponse, error) {
	out := new(CompareResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, CompareMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRun(ctx context.Context, req *GetRunRequest, opts ...grpc.CallOption) (*GetRunResponse, error) {
	out := new(GetRunResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GetRunMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
