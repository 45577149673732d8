package httpapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	registryv1 "entertablock.io/api/registry/v1"
	"entertablock.io/internal/auth"
	"entertablock.io/internal/obs"
	"entertablock.io/internal/registry"
)

type readinessChecker interface {
	Check(ctx context.Context) error
}

// GRPCServer exposes registry.Service as entertablock.registry.v1.Registry.
type GRPCServer struct {
	registryv1.UnimplementedRegistryServer

	svc registry.Service
}

// NewGRPCServer creates the gRPC service wrapper.
func NewGRPCServer(svc registry.Service) *GRPCServer {
	return &GRPCServer{svc: svc}
}

// NewGRPC builds a server carrying the registry and the standard health
// service. The returned health server starts NOT_SERVING until
// WatchReadiness flips it.
func NewGRPC(svc registry.Service, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(loggingUnary, authUnary, errorsUnary),
	}, opts...)
	srv := grpc.NewServer(opts...)
	registryv1.RegisterRegistryServer(srv, NewGRPCServer(svc))
	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(registryv1.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, hs)
	return srv, hs
}

// WatchReadiness re-evaluates rc every interval until ctx ends and mirrors
// the result into the health server and the readiness gauge.
func WatchReadiness(ctx context.Context, hs *health.Server, rc readinessChecker, interval time.Duration) {
	check := func() {
		st := grpc_health_v1.HealthCheckResponse_SERVING
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		err := rc.Check(checkCtx)
		cancel()
		if err != nil {
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		obs.SetReady(err == nil)
		hs.SetServingStatus("", st)
		hs.SetServingStatus(registryv1.ServiceName, st)
	}
	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			check()
		}
	}
}

// --- interceptors ---

func loggingUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	obs.LogRequest(map[string]any{
		"ts":          time.Now().UTC().Format(time.RFC3339Nano),
		"level":       "info",
		"msg":         "rpc_complete",
		"method":      info.FullMethod,
		"code":        status.Code(err).String(),
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
	})
	return resp, err
}

// authUnary resolves the bearer token in the authorization metadata. Calls
// without one proceed anonymously; methods that need a caller check later.
func authUnary(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return handler(ctx, req)
	}
	token, err := extractBearerToken(values[0])
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	claims, err := auth.ParseAndValidate(token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	id, err := claims.Identity()
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token subject")
	}
	return handler(auth.ContextWithIdentity(ctx, id, claims.Roles), req)
}

func errorsUnary(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return resp, nil
}

// grpcCode maps registry error kinds onto gRPC codes.
func grpcCode(k registry.Kind) codes.Code {
	switch k {
	case registry.KindAuthorization:
		return codes.PermissionDenied
	case registry.KindState:
		return codes.FailedPrecondition
	case registry.KindNotFound:
		return codes.NotFound
	case registry.KindValidation:
		return codes.InvalidArgument
	case registry.KindFunds:
		return codes.ResourceExhausted
	case registry.KindExternal:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// grpcError converts a registry failure into a status carrying an ErrorInfo
// detail so clients can rebuild the exact error.
func grpcError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	var re *registry.Error
	if !errors.As(err, &re) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return status.FromContextError(err).Err()
		}
		obs.Error("rpc failed", map[string]any{"error": err.Error()})
		return status.Error(codes.Internal, "internal error")
	}
	st := status.New(grpcCode(re.Kind), err.Error())
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: re.Code,
		Domain: registryv1.ErrorDomain,
		Metadata: map[string]string{
			"kind":  string(re.Kind),
			"field": re.Field,
			"value": re.Value,
		},
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}

func grpcCaller(ctx context.Context) (registry.Identity, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "authentication required")
	}
	return id, nil
}

// --- identity ---

func (s *GRPCServer) RegisterArtist(ctx context.Context, in *registryv1.RegisterArtistRequest) (*registry.Artist, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.RegisterArtist(ctx, id, in.Profile)
	return &out, err
}

func (s *GRPCServer) UpdateArtist(ctx context.Context, in *registryv1.UpdateArtistRequest) (*registry.Artist, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.UpdateArtist(ctx, id, in.FirstName, in.LastName)
	return &out, err
}

func (s *GRPCServer) GetArtist(ctx context.Context, in *registryv1.IdentityRequest) (*registry.Artist, error) {
	id, err := registry.ParseIdentity(in.Identity)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.Artist(ctx, id)
	return &out, err
}

// --- works ---

func (s *GRPCServer) MintWork(ctx context.Context, in *registryv1.MintWorkRequest) (*registry.Work, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	owner := id
	if strings.TrimSpace(in.Owner) != "" {
		if owner, err = registry.ParseIdentity(in.Owner); err != nil {
			return nil, err
		}
	}
	out, err := s.svc.MintWork(ctx, id, owner, in.Name, in.MetadataURI)
	return &out, err
}

func (s *GRPCServer) UpdateWorkMetadata(ctx context.Context, in *registryv1.UpdateWorkMetadataRequest) (*registry.Work, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.UpdateWorkMetadata(ctx, id, in.Name, in.Metadata)
	return &out, err
}

func (s *GRPCServer) UpdateTokenMetadata(ctx context.Context, in *registryv1.UpdateTokenMetadataRequest) (*registry.Work, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.UpdateTokenMetadata(ctx, id, in.TokenID, in.Metadata)
	return &out, err
}

func (s *GRPCServer) TransferWork(ctx context.Context, in *registryv1.TransferWorkRequest) (*registry.Work, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	to, err := registry.ParseIdentity(in.To)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.TransferWork(ctx, id, to, in.TokenID)
	return &out, err
}

func (s *GRPCServer) GetWorkMetadata(ctx context.Context, in *registryv1.WorkNameRequest) (*registry.WorkMetadata, error) {
	owner, err := registry.ParseIdentity(in.Owner)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.WorkMetadata(ctx, owner, in.Name)
	return &out, err
}

func (s *GRPCServer) GetWorkTokenID(ctx context.Context, in *registryv1.WorkNameRequest) (*registryv1.TokenIDResponse, error) {
	owner, err := registry.ParseIdentity(in.Owner)
	if err != nil {
		return nil, err
	}
	tokenID, err := s.svc.WorkTokenID(ctx, owner, in.Name)
	return &registryv1.TokenIDResponse{TokenID: tokenID}, err
}

func (s *GRPCServer) GetWork(ctx context.Context, in *registryv1.TokenRequest) (*registry.Work, error) {
	out, err := s.svc.Work(ctx, in.TokenID)
	return &out, err
}

func (s *GRPCServer) OwnerOf(ctx context.Context, in *registryv1.TokenRequest) (*registryv1.IdentityResponse, error) {
	owner, err := s.svc.OwnerOf(ctx, in.TokenID)
	return &registryv1.IdentityResponse{Identity: owner}, err
}

// --- collaborations & royalties ---

func (s *GRPCServer) CreateCollaboration(ctx context.Context, in *registryv1.CreateCollaborationRequest) (*registry.Collaboration, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	participants, err := parseIdentities(in.Participants)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.CreateCollaboration(ctx, id, participants)
	return &out, err
}

func (s *GRPCServer) AddContribution(ctx context.Context, in *registryv1.AddContributionRequest) (*registry.Collaboration, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.AddContribution(ctx, id, in.CollaborationID, in.Amount)
	return &out, err
}

func (s *GRPCServer) FinalizeCollaboration(ctx context.Context, in *registryv1.FinalizeCollaborationRequest) (*registry.Work, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.FinalizeCollaboration(ctx, id, in.CollaborationID, in.Label)
	return &out, err
}

func (s *GRPCServer) GetCollaboration(ctx context.Context, in *registryv1.CollaborationRequest) (*registry.Collaboration, error) {
	out, err := s.svc.Collaboration(ctx, in.CollaborationID)
	return &out, err
}

func (s *GRPCServer) GetCollaborationID(ctx context.Context, in *registryv1.CollaborationIndexRequest) (*registryv1.CollaborationIDResponse, error) {
	collabID, err := s.svc.CollaborationID(ctx, in.Index)
	return &registryv1.CollaborationIDResponse{CollaborationID: collabID}, err
}

func (s *GRPCServer) DistributeRoyalties(ctx context.Context, in *registryv1.DistributeRoyaltiesRequest) (*registry.Distribution, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.DistributeRoyalties(ctx, id, in.Label)
	return &out, err
}

func (s *GRPCServer) GetRoyaltyPool(ctx context.Context, in *registryv1.TokenRequest) (*registryv1.AmountResponse, error) {
	pool, err := s.svc.RoyaltyPool(ctx, in.TokenID)
	return &registryv1.AmountResponse{Amount: pool}, err
}

// --- ticketing ---

func (s *GRPCServer) ScheduleEvent(ctx context.Context, in *registryv1.ScheduleEventRequest) (*registry.Event, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	payees, err := parseIdentities(in.Payees)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.ScheduleEvent(ctx, id, in.Name, in.Date, in.TicketPrice, payees)
	return &out, err
}

func (s *GRPCServer) Deposit(ctx context.Context, in *registryv1.AmountRequest) (*registryv1.AmountResponse, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	credit, err := s.svc.Deposit(ctx, id, in.Amount)
	return &registryv1.AmountResponse{Amount: credit}, err
}

func (s *GRPCServer) PurchaseTickets(ctx context.Context, in *registryv1.PurchaseTicketsRequest) (*registry.Purchase, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.PurchaseTickets(ctx, id, in.EventID, in.Quantity)
	return &out, err
}

func (s *GRPCServer) SettleEvent(ctx context.Context, in *registryv1.EventRequest) (*registry.Settlement, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.SettleEvent(ctx, id, in.EventID)
	return &out, err
}

func (s *GRPCServer) CancelEvent(ctx context.Context, in *registryv1.EventRequest) (*registry.Event, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.CancelEvent(ctx, id, in.EventID)
	return &out, err
}

func (s *GRPCServer) GetEvent(ctx context.Context, in *registryv1.EventRequest) (*registry.Event, error) {
	out, err := s.svc.Event(ctx, in.EventID)
	return &out, err
}

// --- usage agreements ---

func (s *GRPCServer) CreateUsageAgreement(ctx context.Context, in *registryv1.CreateUsageAgreementRequest) (*registry.UsageAgreement, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := registry.ParseIdentity(in.Owner)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.CreateUsageAgreement(ctx, id, in.WorkName, owner, in.PaymentAmount)
	return &out, err
}

func (s *GRPCServer) ApproveUsageAgreement(ctx context.Context, in *registryv1.AgreementRequest) (*registry.UsageAgreement, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	requester, err := registry.ParseIdentity(in.Requester)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.ApproveUsageAgreement(ctx, id, in.WorkName, requester)
	return &out, err
}

func (s *GRPCServer) GetUsageAgreement(ctx context.Context, in *registryv1.AgreementRequest) (*registry.UsageAgreement, error) {
	requester, err := registry.ParseIdentity(in.Requester)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.UsageAgreement(ctx, in.WorkName, requester)
	return &out, err
}

// --- balances ---

func (s *GRPCServer) GetBalance(ctx context.Context, in *registryv1.IdentityRequest) (*registryv1.AmountResponse, error) {
	id, err := registry.ParseIdentity(in.Identity)
	if err != nil {
		return nil, err
	}
	v, err := s.svc.Balance(ctx, id)
	return &registryv1.AmountResponse{Amount: v}, err
}

func (s *GRPCServer) GetCredit(ctx context.Context, in *registryv1.IdentityRequest) (*registryv1.AmountResponse, error) {
	id, err := registry.ParseIdentity(in.Identity)
	if err != nil {
		return nil, err
	}
	v, err := s.svc.Credit(ctx, id)
	return &registryv1.AmountResponse{Amount: v}, err
}

func (s *GRPCServer) Withdraw(ctx context.Context, _ *registryv1.Empty) (*registry.Withdrawal, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.Withdraw(ctx, id)
	return &out, err
}

func (s *GRPCServer) ReclaimCredit(ctx context.Context, _ *registryv1.Empty) (*registry.Withdrawal, error) {
	id, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.ReclaimCredit(ctx, id)
	return &out, err
}
