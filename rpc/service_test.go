package rpc

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/auth/authctx"
	apperrors "github.com/busline/gateway/errors"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/seats"
)

// fakeTransportStream captures response metadata the way a real gRPC
// transport would, so cookie delivery can be asserted in tests.
type fakeTransportStream struct {
	method string
	header metadata.MD
}

func (f *fakeTransportStream) Method() string                  { return f.method }
func (f *fakeTransportStream) SetHeader(md metadata.MD) error  { f.header = metadata.Join(f.header, md); return nil }
func (f *fakeTransportStream) SendHeader(md metadata.MD) error { return nil }
func (f *fakeTransportStream) SetTrailer(md metadata.MD) error { return nil }

func streamContext(method string) (context.Context, *fakeTransportStream) {
	stream := &fakeTransportStream{method: method}
	return grpc.NewContextWithServerTransportStream(context.Background(), stream), stream
}

func newAuthService(t *testing.T, environment string) *AuthService {
	t.Helper()

	issuer := auth.NewIssuer(&auth.Config{
		Secret:      "test-secret",
		TTL:         time.Hour,
		Environment: environment,
	})
	users, err := auth.NewUserStore([]auth.UserConfig{
		{
			Username: "admin",
			Password: "admin-pass",
			Roles:    []string{"admin", "user"},
			Policies: []string{"read:seats", "write:seats"},
		},
	}, auth.NewBcryptHasher(auth.WithCost(bcrypt.MinCost)))
	if err != nil {
		t.Fatalf("NewUserStore() error: %v", err)
	}

	return NewAuthService(issuer, users, logger.NewDefault("test"))
}

func principalContext(svc *AuthService, source auth.Source) (context.Context, *fakeTransportStream) {
	claims := auth.NewClaims("admin", []string{"admin"}, []string{"read:seats"}, time.Hour, time.Now())
	ctx, stream := streamContext("/" + AuthServiceName + "/Refresh")
	return authctx.Set(ctx, &authctx.Principal{Claims: claims, Source: source}), stream
}

func setCookieHeader(t *testing.T, stream *fakeTransportStream) string {
	t.Helper()
	values := stream.header.Get(setCookieKey)
	if len(values) != 1 {
		t.Fatalf("expected one set-cookie header, got %v", values)
	}
	return values[0]
}

func TestAuthServiceLoginJWT(t *testing.T) {
	svc := newAuthService(t, "development")

	resp, err := svc.LoginJWT(context.Background(), &LoginRequest{Username: "admin", Password: "admin-pass"})
	if err != nil {
		t.Fatalf("LoginJWT() error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response body")
	}

	claims, err := auth.NewCodec("test-secret").Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("expected subject admin, got %s", claims.Subject)
	}
}

func TestAuthServiceLoginJWTBadCredentials(t *testing.T) {
	svc := newAuthService(t, "development")

	tests := []struct {
		name string
		req  *LoginRequest
		want codes.Code
	}{
		{"wrong password", &LoginRequest{Username: "admin", Password: "nope"}, codes.Unauthenticated},
		{"unknown user", &LoginRequest{Username: "ghost", Password: "admin-pass"}, codes.Unauthenticated},
		{"missing username", &LoginRequest{Password: "admin-pass"}, codes.InvalidArgument},
		{"missing password", &LoginRequest{Username: "admin"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LoginJWT(context.Background(), tt.req)
			if status.Code(err) != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthServiceLoginCookie(t *testing.T) {
	svc := newAuthService(t, "development")
	ctx, stream := streamContext("/" + AuthServiceName + "/LoginCookie")

	resp, err := svc.LoginCookie(ctx, &LoginRequest{Username: "admin", Password: "admin-pass"})
	if err != nil {
		t.Fatalf("LoginCookie() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}

	cookie := setCookieHeader(t, stream)
	if !strings.HasPrefix(cookie, auth.TokenCookieName+"=") {
		t.Errorf("unexpected cookie header: %s", cookie)
	}
	if !strings.Contains(cookie, "HttpOnly") || !strings.Contains(cookie, "SameSite=Lax") {
		t.Errorf("cookie missing expected attributes: %s", cookie)
	}
}

func TestAuthServiceLogout(t *testing.T) {
	svc := newAuthService(t, "development")
	ctx, stream := principalContext(svc, auth.SourceCookie)

	resp, err := svc.Logout(ctx, &LogoutRequest{})
	if err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}

	cookie := setCookieHeader(t, stream)
	if !strings.HasPrefix(cookie, auth.TokenCookieName+"=;") {
		t.Errorf("expected an emptied cookie, got %s", cookie)
	}
	if !strings.Contains(cookie, "Max-Age=0") {
		t.Errorf("expected an expired cookie, got %s", cookie)
	}
}

func TestAuthServiceLogoutRefusesBearer(t *testing.T) {
	svc := newAuthService(t, "development")
	ctx, _ := principalContext(svc, auth.SourceBearer)

	_, err := svc.Logout(ctx, &LogoutRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestAuthServiceRefresh(t *testing.T) {
	svc := newAuthService(t, "development")

	t.Run("cookie source sets metadata", func(t *testing.T) {
		ctx, stream := principalContext(svc, auth.SourceCookie)
		resp, err := svc.Refresh(ctx, &RefreshRequest{})
		if err != nil {
			t.Fatalf("Refresh() error: %v", err)
		}
		if resp.Token != "" {
			t.Error("cookie-sourced refresh must not leak the token in the body")
		}
		if !strings.HasPrefix(setCookieHeader(t, stream), auth.TokenCookieName+"=") {
			t.Error("expected a set-cookie header")
		}
	})

	t.Run("bearer source returns body token", func(t *testing.T) {
		ctx, stream := principalContext(svc, auth.SourceBearer)
		resp, err := svc.Refresh(ctx, &RefreshRequest{})
		if err != nil {
			t.Fatalf("Refresh() error: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token in the response body")
		}
		if len(stream.header.Get(setCookieKey)) != 0 {
			t.Error("bearer-sourced refresh must not set a cookie")
		}
	})
}

func TestAuthServiceWhoAmI(t *testing.T) {
	svc := newAuthService(t, "development")
	ctx, _ := principalContext(svc, auth.SourceBearer)

	resp, err := svc.WhoAmI(ctx, &WhoAmIRequest{})
	if err != nil {
		t.Fatalf("WhoAmI() error: %v", err)
	}
	if resp.Subject != "admin" || resp.Source != "bearer" {
		t.Errorf("unexpected identity: %+v", resp)
	}
	if !reflect.DeepEqual(resp.Roles, []string{"admin"}) {
		t.Errorf("unexpected roles: %v", resp.Roles)
	}
}

func TestAuthServiceWhoAmIWithoutPrincipal(t *testing.T) {
	svc := newAuthService(t, "development")

	_, err := svc.WhoAmI(context.Background(), &WhoAmIRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestAuthServiceDebugIssue(t *testing.T) {
	svc := newAuthService(t, "development")

	resp, err := svc.DebugIssue(context.Background(), &DebugIssueRequest{
		Mode:     "jwt",
		Subject:  "tester",
		Roles:    []string{"admin"},
		Policies: []string{"write:seats"},
	})
	if err != nil {
		t.Fatalf("DebugIssue() error: %v", err)
	}

	claims, err := auth.NewCodec("test-secret").Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Subject != "tester" || !claims.HasRole("admin") {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAuthServiceDebugIssueCookieMode(t *testing.T) {
	svc := newAuthService(t, "development")
	ctx, stream := streamContext("/" + AuthServiceName + "/DebugIssue")

	resp, err := svc.DebugIssue(ctx, &DebugIssueRequest{Mode: "cookie", Subject: "tester"})
	if err != nil {
		t.Fatalf("DebugIssue() error: %v", err)
	}
	if resp.Token != "" {
		t.Error("cookie mode must not return the token in the body")
	}
	if !strings.HasPrefix(setCookieHeader(t, stream), auth.TokenCookieName+"=") {
		t.Error("expected a set-cookie header")
	}
}

func TestAuthServiceDebugIssueHiddenInProduction(t *testing.T) {
	svc := newAuthService(t, auth.EnvProduction)

	_, err := svc.DebugIssue(context.Background(), &DebugIssueRequest{Mode: "jwt", Subject: "tester"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestAuthServiceDebugIssueRejectsUnknownMode(t *testing.T) {
	svc := newAuthService(t, "development")

	_, err := svc.DebugIssue(context.Background(), &DebugIssueRequest{Mode: "header", Subject: "tester"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

// fakeSeatStore is an in-memory seats.Service double.
type fakeSeatStore struct {
	rows       []seats.Seat
	total      int64
	err        error
	lastCreate []seats.CreateInput
	lastDelete []int32
}

func (f *fakeSeatStore) List(ctx context.Context, offset, size int) ([]seats.Seat, int64, error) {
	return f.rows, f.total, f.err
}

func (f *fakeSeatStore) GetByRange(ctx context.Context, seatIDs []int32, names []string) ([]seats.Seat, error) {
	return f.rows, f.err
}

func (f *fakeSeatStore) Create(ctx context.Context, inputs []seats.CreateInput) ([]seats.Seat, error) {
	f.lastCreate = inputs
	return f.rows, f.err
}

func (f *fakeSeatStore) Update(ctx context.Context, inputs []seats.UpdateInput) ([]seats.Seat, error) {
	return f.rows, f.err
}

func (f *fakeSeatStore) Delete(ctx context.Context, seatIDs []int32) (int64, error) {
	f.lastDelete = seatIDs
	return int64(len(seatIDs)), f.err
}

func TestSeatServiceGetSeats(t *testing.T) {
	store := &fakeSeatStore{
		rows:  []seats.Seat{{SeatID: 1, BusID: 1, Name: "1A"}},
		total: 12,
	}
	svc := NewSeatService(store, logger.NewDefault("test"))

	resp, err := svc.GetSeats(context.Background(), &GetSeatsRequest{})
	if err != nil {
		t.Fatalf("GetSeats() error: %v", err)
	}
	if resp.Size != defaultPageSize {
		t.Errorf("expected default size %d, got %d", defaultPageSize, resp.Size)
	}
	if resp.Total != 12 || len(resp.Data) != 1 {
		t.Errorf("unexpected page: total=%d rows=%d", resp.Total, len(resp.Data))
	}
}

func TestSeatServiceGetSeatsRejectsBadPaging(t *testing.T) {
	svc := NewSeatService(&fakeSeatStore{}, logger.NewDefault("test"))

	tests := []struct {
		name string
		req  *GetSeatsRequest
	}{
		{"negative offset", &GetSeatsRequest{Offset: -1}},
		{"negative size", &GetSeatsRequest{Size: -5}},
		{"oversized page", &GetSeatsRequest{Size: maxPageSize + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetSeats(context.Background(), tt.req)
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestSeatServiceCreateSeats(t *testing.T) {
	store := &fakeSeatStore{rows: []seats.Seat{{SeatID: 3, BusID: 1, Name: "2B"}}}
	svc := NewSeatService(store, logger.NewDefault("test"))

	inputs := []seats.CreateInput{{BusID: 1, Price: 250, Name: "2B"}}
	resp, err := svc.CreateSeats(context.Background(), &CreateSeatsRequest{Seats: inputs})
	if err != nil {
		t.Fatalf("CreateSeats() error: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("expected one created seat, got %d", len(resp.Data))
	}
	if !reflect.DeepEqual(store.lastCreate, inputs) {
		t.Errorf("inputs not forwarded: %+v", store.lastCreate)
	}
}

func TestSeatServiceCreateSeatsRejectsEmpty(t *testing.T) {
	svc := NewSeatService(&fakeSeatStore{}, logger.NewDefault("test"))

	_, err := svc.CreateSeats(context.Background(), &CreateSeatsRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestSeatServiceDeleteSeats(t *testing.T) {
	store := &fakeSeatStore{}
	svc := NewSeatService(store, logger.NewDefault("test"))

	resp, err := svc.DeleteSeats(context.Background(), &DeleteSeatsRequest{SeatIDs: []int32{1, 2}})
	if err != nil {
		t.Fatalf("DeleteSeats() error: %v", err)
	}
	if resp.Deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", resp.Deleted)
	}
	if !reflect.DeepEqual(store.lastDelete, []int32{1, 2}) {
		t.Errorf("ids not forwarded: %v", store.lastDelete)
	}
}

func TestSeatServiceMissingBus(t *testing.T) {
	store := &fakeSeatStore{err: apperrors.NotFound("bus", "9")}
	svc := NewSeatService(store, logger.NewDefault("test"))

	_, err := svc.CreateSeats(context.Background(), &CreateSeatsRequest{
		Seats: []seats.CreateInput{{BusID: 9, Price: 100, Name: "1A"}},
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestToStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not found", apperrors.NotFound("seat", "1"), codes.NotFound},
		{"conflict", apperrors.New(apperrors.ErrCodeAlreadyExists, "duplicate", 409), codes.AlreadyExists},
		{"invalid input", apperrors.InvalidInput("page", "must be positive"), codes.InvalidArgument},
		{"unauthorized", apperrors.Unauthorized(""), codes.Unauthenticated},
		{"forbidden", apperrors.Forbidden(""), codes.PermissionDenied},
		{"plain error", context.DeadlineExceeded, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(toStatus(tt.err)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
