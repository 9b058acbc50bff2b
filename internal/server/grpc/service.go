package grpc

import (
	"context"
	"encoding/json"
	"github.com/tabvc/tabvc/internal/engine"
	grpc2 "google.golang.org/grpc"
)

const serviceName = "tabvc.v1.WorkbookService"

// ApplyRequest carries operations in their JSON form; they are decoded by the handler so that a
// malformed operation is reported as InvalidArgument.
type ApplyRequest struct {
	SessionID  string          `json:"session_id"`
	Filename   string          `json:"filename"`
	Message    string          `json:"message"`
	Operations json.RawMessage `json:"operations"`
}

type HistoryRequest struct {
	SessionID string `json:"session_id"`
	Filename  string `json:"filename"`
}

type HistoryResponse struct {
	Commits []engine.CommitSummary `json:"commits"`
}

type RollbackRequest struct {
	SessionID string `json:"session_id"`
	Filename  string `json:"filename"`
	CommitID  string `json:"commit_id"`
}

type RollbackResponse struct {
	Commit engine.CommitSummary `json:"commit"`
}

// ApplyResponse is the client view of engine.ApplyResult.
type ApplyResponse struct {
	Commit   engine.CommitSummary `json:"commit"`
	Analysis []map[string]any     `json:"analysis"`
}

// WorkbookServiceServer is the server API of tabvc.v1.WorkbookService.
type WorkbookServiceServer interface {
	Apply(ctx context.Context, req *ApplyRequest) (*engine.ApplyResult, error)
	History(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error)
	Rollback(ctx context.Context, req *RollbackRequest) (*RollbackResponse, error)
}

var WorkbookServiceDesc = grpc2.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*WorkbookServiceServer)(nil),
	Methods: []grpc2.MethodDesc{
		{MethodName: "Apply", Handler: applyHandler},
		{MethodName: "History", Handler: historyHandler},
		{MethodName: "Rollback", Handler: rollbackHandler},
	},
	Streams:  []grpc2.StreamDesc{},
	Metadata: "tabvc/v1/workbook.proto",
}

func applyHandler(srv any, ctx context.Context, dec func(any) error,
	interceptor grpc2.UnaryServerInterceptor) (any, error) {
	in := new(ApplyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkbookServiceServer).Apply(ctx, in)
	}
	info := &grpc2.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Apply"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkbookServiceServer).Apply(ctx, req.(*ApplyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func historyHandler(srv any, ctx context.Context, dec func(any) error,
	interceptor grpc2.UnaryServerInterceptor) (any, error) {
	in := new(HistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkbookServiceServer).History(ctx, in)
	}
	info := &grpc2.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/History"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkbookServiceServer).History(ctx, req.(*HistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func rollbackHandler(srv any, ctx context.Context, dec func(any) error,
	interceptor grpc2.UnaryServerInterceptor) (any, error) {
	in := new(RollbackRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkbookServiceServer).Rollback(ctx, in)
	}
	info := &grpc2.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Rollback"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkbookServiceServer).Rollback(ctx, req.(*RollbackRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// WorkbookServiceClient calls tabvc.v1.WorkbookService over a connection using the JSON codec.
type WorkbookServiceClient struct {
	cc grpc2.ClientConnInterface
}

func NewWorkbookServiceClient(cc grpc2.ClientConnInterface) *WorkbookServiceClient {
	return &WorkbookServiceClient{cc: cc}
}

func (c *WorkbookServiceClient) Apply(ctx context.Context, req *ApplyRequest,
	opts ...grpc2.CallOption) (*ApplyResponse, error) {
	out := new(ApplyResponse)
	if err := c.invoke(ctx, "Apply", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WorkbookServiceClient) History(ctx context.Context, req *HistoryRequest,
	opts ...grpc2.CallOption) (*HistoryResponse, error) {
	out := new(HistoryResponse)
	if err := c.invoke(ctx, "History", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WorkbookServiceClient) Rollback(ctx context.Context, req *RollbackRequest,
	opts ...grpc2.CallOption) (*RollbackResponse, error) {
	out := new(RollbackResponse)
	if err := c.invoke(ctx, "Rollback", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WorkbookServiceClient) invoke(ctx context.Context, method string, req, out any,
	opts []grpc2.CallOption) error {
	opts = append([]grpc2.CallOption{grpc2.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, req, out, opts...)
}
