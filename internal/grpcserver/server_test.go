package grpcserver

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"mangashelf/internal/auth"
	"mangashelf/internal/history"
	"mangashelf/internal/workflow"
	"mangashelf/pkg/database"
)

func startServer(t *testing.T, opts ...grpc.ServerOption) *Client {
	t.Helper()

	db, err := database.OpenAndMigrate(database.Config{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := history.NewRepo(db)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(opts...)
	Register(srv, NewServer(&workflow.Comparer{History: repo}, repo))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func TestCompareOverGRPC(t *testing.T) {
	client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Compare(ctx, &CompareRequest{
		Library:   "Main Title: The Matrix\n  • Matrix Reloaded\n",
		Reference: "Title,Alt\nMatrix,The Matrix Trilogy\n",
	})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if resp.MatchCount != 1 || resp.Matches[0].ReferenceTitle != "Matrix" {
		t.Fatalf("resp = %+v", resp)
	}
	want := []string{"Matrix Reloaded", "The Matrix Trilogy"}
	got := resp.Matches[0].Aliases
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("aliases = %v, want %v", got, want)
	}

	run, err := client.GetRun(ctx, &GetRunRequest{ID: resp.RunID})
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Run.ID != resp.RunID || len(run.Run.Matches) != 1 {
		t.Fatalf("run = %+v", run.Run)
	}
}

func TestCompareRejectsEmptyInput(t *testing.T) {
	client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Compare(ctx, &CompareRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument", status.Code(err))
	}

	_, err = client.GetRun(ctx, &GetRunRequest{ID: "missing"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %v, want NotFound", status.Code(err))
	}
}

func TestAuthInterceptor(t *testing.T) {
	tokens := auth.TokenService{Secret: []byte("k"), Issuer: "mangashelf", Duration: time.Hour}
	client := startServer(t, grpc.ChainUnaryInterceptor(LogInterceptor(), AuthInterceptor(tokens)))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := &CompareRequest{Library: "Main Title: Akira\n", Reference: "Title\nAkira\n"}
	if _, err := client.Compare(ctx, req); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %v, want Unauthenticated", status.Code(err))
	}

	tok, _, err := tokens.Sign("admin")
	if err != nil {
		t.Fatal(err)
	}
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok)
	resp, err := client.Compare(authed, req)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if resp.MatchCount != 1 {
		t.Fatalf("MatchCount = %d", resp.MatchCount)
	}
}
