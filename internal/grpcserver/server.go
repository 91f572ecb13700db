// Package grpcserver serves comparisons over gRPC. Messages are plain Go
// structs carried by a JSON codec.
package grpcserver

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"mangashelf/internal/auth"
	"mangashelf/internal/history"
	"mangashelf/internal/library"
	"mangashelf/internal/reference"
	"mangashelf/internal/workflow"
	"mangashelf/pkg/models"
)

type Server struct {
	Comparer *workflow.Comparer
	History  *history.Repo // nil when history is disabled
}

func NewServer(comparer *workflow.Comparer, repo *history.Repo) *Server {
	return &Server{Comparer: comparer, History: repo}
}

func (s *Server) Compare(ctx context.Context, req *CompareRequest) (*CompareResponse, error) {
	if req == nil || (strings.TrimSpace(req.Library) == "" && strings.TrimSpace(req.Reference) == "") {
		return nil, status.Error(codes.InvalidArgument, "library and reference required")
	}

	lib, err := library.Parse(strings.NewReader(req.Library))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid library text")
	}
	ref, err := reference.Parse(strings.NewReader(req.Reference))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid reference csv")
	}

	out, err := s.Comparer.CompareRecords(ctx, workflow.RecordsInput{
		Library:         lib,
		Reference:       ref,
		LibrarySource:   "grpc:library",
		ReferenceSource: "grpc:reference",
		Exclusive:       req.Exclusive,
		Source:          "grpc",
	})
	if out == nil || (err != nil && !errors.Is(err, models.ErrPersistence)) {
		return nil, status.Error(codes.Internal, "compare failed")
	}
	if err != nil {
		logrus.WithError(err).Warn("[grpc] run not stored")
	}

	resp := &CompareResponse{
		RunID:      out.Run.ID,
		MatchCount: out.Run.MatchCount,
		Matches:    out.Run.Matches,
		Collisions: out.Collisions,
	}
	if resp.Matches == nil {
		resp.Matches = []models.MatchView{}
	}
	return resp, nil
}

func (s *Server) GetRun(ctx context.Context, req *GetRunRequest) (*GetRunResponse, error) {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if s.History == nil {
		return nil, status.Error(codes.Unavailable, "history disabled")
	}

	run, err := s.History.Get(ctx, strings.TrimSpace(req.ID))
	if err != nil {
		return nil, status.Error(codes.Internal, "get failed")
	}
	if run == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return &GetRunResponse{Run: *run}, nil
}

// AuthInterceptor requires a valid bearer token in the "authorization"
// metadata of every call.
func AuthInterceptor(tokens auth.TokenService) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		vals := md.Get("authorization")
		if len(vals) == 0 || !strings.HasPrefix(strings.ToLower(vals[0]), "bearer ") {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		if _, err := tokens.Parse(strings.TrimSpace(vals[0][len("Bearer "):])); err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(ctx, req)
	}
}

// LogInterceptor logs each call with its status code.
func LogInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		logrus.WithFields(logrus.Fields{
			"method": info.FullMethod,
			"code":   status.Code(err).String(),
		}).Info("[grpc] call")
		return resp, err
	}
}
