// Package remote implements registry.Service against a running gRPC server.
package remote

import (
	"context"
	"errors"
	"sync"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	registryv1 "entertablock.io/api/registry/v1"
	"entertablock.io/internal/auth"
	"entertablock.io/internal/registry"
)

// Client wraps the gRPC registry service.
type Client struct {
	conn *grpc.ClientConn
	rpc  registryv1.RegistryClient
}

// Dial creates a new client with sensible defaults (insecure transport).
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, rpc: registryv1.NewRegistryClient(conn)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// TokenSource returns a bearer token authenticating caller.
type TokenSource func(ctx context.Context, caller registry.Identity) (string, error)

type cachedToken struct {
	token   string
	expires time.Time
}

// SharedSecretTokens signs caller tokens locally with the secret the server
// validates against. Tokens are reused until a quarter of ttl remains.
func SharedSecretTokens(ttl time.Duration) TokenSource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	var (
		mu    sync.Mutex
		cache = map[registry.Identity]cachedToken{}
	)
	return func(_ context.Context, caller registry.Identity) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if c, ok := cache[caller]; ok && time.Until(c.expires) > ttl/4 {
			return c.token, nil
		}
		token, err := auth.GenerateToken(caller, nil, ttl)
		if err != nil {
			return "", err
		}
		cache[caller] = cachedToken{token: token, expires: time.Now().Add(ttl)}
		return token, nil
	}
}

// Service adapts the gRPC client to the registry.Service interface.
type Service struct {
	client *Client
	tokens TokenSource
}

var _ registry.Service = (*Service)(nil)

// NewService uses SharedSecretTokens when tokens is nil.
func NewService(client *Client, tokens TokenSource) *Service {
	if tokens == nil {
		tokens = SharedSecretTokens(0)
	}
	return &Service{client: client, tokens: tokens}
}

// as authenticates the outgoing call as caller.
func (s *Service) as(ctx context.Context, caller registry.Identity) (context.Context, error) {
	if caller.IsZero() {
		return ctx, &registry.Error{Kind: registry.KindValidation, Code: registry.ErrInvalidIdentity.Code, Field: "caller"}
	}
	token, err := s.tokens(ctx, caller)
	if err != nil {
		return ctx, err
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token), nil
}

func value[T any](resp *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, mapRegistryError(err)
	}
	if resp == nil {
		return zero, errors.New("remote: empty response")
	}
	return *resp, nil
}

func strs(ids []registry.Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// --- identity ---

func (s *Service) RegisterArtist(ctx context.Context, caller registry.Identity, p registry.ArtistProfile) (registry.Artist, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Artist{}, err
	}
	return value(s.client.rpc.RegisterArtist(ctx, &registryv1.RegisterArtistRequest{Profile: p}))
}

func (s *Service) UpdateArtist(ctx context.Context, caller registry.Identity, firstName, lastName string) (registry.Artist, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Artist{}, err
	}
	return value(s.client.rpc.UpdateArtist(ctx, &registryv1.UpdateArtistRequest{FirstName: firstName, LastName: lastName}))
}

func (s *Service) Artist(ctx context.Context, id registry.Identity) (registry.Artist, error) {
	return value(s.client.rpc.GetArtist(ctx, &registryv1.IdentityRequest{Identity: id.String()}))
}

// --- works ---

func (s *Service) MintWork(ctx context.Context, caller, owner registry.Identity, name, metadataURI string) (registry.Work, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Work{}, err
	}
	return value(s.client.rpc.MintWork(ctx, &registryv1.MintWorkRequest{Owner: owner.String(), Name: name, MetadataURI: metadataURI}))
}

func (s *Service) UpdateWorkMetadata(ctx context.Context, caller registry.Identity, name string, md registry.WorkMetadata) (registry.Work, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Work{}, err
	}
	return value(s.client.rpc.UpdateWorkMetadata(ctx, &registryv1.UpdateWorkMetadataRequest{Name: name, Metadata: md}))
}

func (s *Service) UpdateTokenMetadata(ctx context.Context, caller registry.Identity, tokenID uint64, md registry.WorkMetadata) (registry.Work, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Work{}, err
	}
	return value(s.client.rpc.UpdateTokenMetadata(ctx, &registryv1.UpdateTokenMetadataRequest{TokenID: tokenID, Metadata: md}))
}

func (s *Service) TransferWork(ctx context.Context, caller, to registry.Identity, tokenID uint64) (registry.Work, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Work{}, err
	}
	return value(s.client.rpc.TransferWork(ctx, &registryv1.TransferWorkRequest{To: to.String(), TokenID: tokenID}))
}

func (s *Service) WorkMetadata(ctx context.Context, owner registry.Identity, name string) (registry.WorkMetadata, error) {
	return value(s.client.rpc.GetWorkMetadata(ctx, &registryv1.WorkNameRequest{Owner: owner.String(), Name: name}))
}

func (s *Service) WorkTokenID(ctx context.Context, owner registry.Identity, name string) (uint64, error) {
	resp, err := value(s.client.rpc.GetWorkTokenID(ctx, &registryv1.WorkNameRequest{Owner: owner.String(), Name: name}))
	return resp.TokenID, err
}

func (s *Service) Work(ctx context.Context, tokenID uint64) (registry.Work, error) {
	return value(s.client.rpc.GetWork(ctx, &registryv1.TokenRequest{TokenID: tokenID}))
}

func (s *Service) OwnerOf(ctx context.Context, tokenID uint64) (registry.Identity, error) {
	resp, err := value(s.client.rpc.OwnerOf(ctx, &registryv1.TokenRequest{TokenID: tokenID}))
	return resp.Identity, err
}

// --- collaborations & royalties ---

func (s *Service) CreateCollaboration(ctx context.Context, caller registry.Identity, participants []registry.Identity) (registry.Collaboration, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Collaboration{}, err
	}
	return value(s.client.rpc.CreateCollaboration(ctx, &registryv1.CreateCollaborationRequest{Participants: strs(participants)}))
}

func (s *Service) AddContribution(ctx context.Context, caller registry.Identity, id uint64, amount int64) (registry.Collaboration, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Collaboration{}, err
	}
	return value(s.client.rpc.AddContribution(ctx, &registryv1.AddContributionRequest{CollaborationID: id, Amount: amount}))
}

func (s *Service) FinalizeCollaboration(ctx context.Context, caller registry.Identity, id uint64, label string) (registry.Work, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Work{}, err
	}
	return value(s.client.rpc.FinalizeCollaboration(ctx, &registryv1.FinalizeCollaborationRequest{CollaborationID: id, Label: label}))
}

func (s *Service) Collaboration(ctx context.Context, id uint64) (registry.Collaboration, error) {
	return value(s.client.rpc.GetCollaboration(ctx, &registryv1.CollaborationRequest{CollaborationID: id}))
}

func (s *Service) CollaborationID(ctx context.Context, index int) (uint64, error) {
	resp, err := value(s.client.rpc.GetCollaborationID(ctx, &registryv1.CollaborationIndexRequest{Index: index}))
	return resp.CollaborationID, err
}

func (s *Service) DistributeRoyalties(ctx context.Context, caller registry.Identity, label string) (registry.Distribution, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Distribution{}, err
	}
	return value(s.client.rpc.DistributeRoyalties(ctx, &registryv1.DistributeRoyaltiesRequest{Label: label}))
}

func (s *Service) RoyaltyPool(ctx context.Context, tokenID uint64) (int64, error) {
	resp, err := value(s.client.rpc.GetRoyaltyPool(ctx, &registryv1.TokenRequest{TokenID: tokenID}))
	return resp.Amount, err
}

// --- ticketing ---

func (s *Service) ScheduleEvent(ctx context.Context, caller registry.Identity, name string, date, ticketPrice int64, payees []registry.Identity) (registry.Event, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Event{}, err
	}
	return value(s.client.rpc.ScheduleEvent(ctx, &registryv1.ScheduleEventRequest{
		Name:        name,
		Date:        date,
		TicketPrice: ticketPrice,
		Payees:      strs(payees),
	}))
}

func (s *Service) Deposit(ctx context.Context, caller registry.Identity, amount int64) (int64, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return 0, err
	}
	resp, err := value(s.client.rpc.Deposit(ctx, &registryv1.AmountRequest{Amount: amount}))
	return resp.Amount, err
}

func (s *Service) PurchaseTickets(ctx context.Context, caller registry.Identity, eventID uint64, quantity int64) (registry.Purchase, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Purchase{}, err
	}
	return value(s.client.rpc.PurchaseTickets(ctx, &registryv1.PurchaseTicketsRequest{EventID: eventID, Quantity: quantity}))
}

func (s *Service) SettleEvent(ctx context.Context, caller registry.Identity, eventID uint64) (registry.Settlement, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Settlement{}, err
	}
	return value(s.client.rpc.SettleEvent(ctx, &registryv1.EventRequest{EventID: eventID}))
}

func (s *Service) CancelEvent(ctx context.Context, caller registry.Identity, eventID uint64) (registry.Event, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Event{}, err
	}
	return value(s.client.rpc.CancelEvent(ctx, &registryv1.EventRequest{EventID: eventID}))
}

func (s *Service) Event(ctx context.Context, eventID uint64) (registry.Event, error) {
	return value(s.client.rpc.GetEvent(ctx, &registryv1.EventRequest{EventID: eventID}))
}

// --- usage agreements ---

func (s *Service) CreateUsageAgreement(ctx context.Context, caller registry.Identity, workName string, owner registry.Identity, payment int64) (registry.UsageAgreement, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.UsageAgreement{}, err
	}
	return value(s.client.rpc.CreateUsageAgreement(ctx, &registryv1.CreateUsageAgreementRequest{
		WorkName:      workName,
		Owner:         owner.String(),
		PaymentAmount: payment,
	}))
}

func (s *Service) ApproveUsageAgreement(ctx context.Context, caller registry.Identity, workName string, requester registry.Identity) (registry.UsageAgreement, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.UsageAgreement{}, err
	}
	return value(s.client.rpc.ApproveUsageAgreement(ctx, &registryv1.AgreementRequest{WorkName: workName, Requester: requester.String()}))
}

func (s *Service) UsageAgreement(ctx context.Context, workName string, requester registry.Identity) (registry.UsageAgreement, error) {
	return value(s.client.rpc.GetUsageAgreement(ctx, &registryv1.AgreementRequest{WorkName: workName, Requester: requester.String()}))
}

// --- balances ---

func (s *Service) Balance(ctx context.Context, id registry.Identity) (int64, error) {
	resp, err := value(s.client.rpc.GetBalance(ctx, &registryv1.IdentityRequest{Identity: id.String()}))
	return resp.Amount, err
}

func (s *Service) Credit(ctx context.Context, id registry.Identity) (int64, error) {
	resp, err := value(s.client.rpc.GetCredit(ctx, &registryv1.IdentityRequest{Identity: id.String()}))
	return resp.Amount, err
}

func (s *Service) Withdraw(ctx context.Context, caller registry.Identity) (registry.Withdrawal, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Withdrawal{}, err
	}
	return value(s.client.rpc.Withdraw(ctx, &registryv1.Empty{}))
}

func (s *Service) ReclaimCredit(ctx context.Context, caller registry.Identity) (registry.Withdrawal, error) {
	ctx, err := s.as(ctx, caller)
	if err != nil {
		return registry.Withdrawal{}, err
	}
	return value(s.client.rpc.ReclaimCredit(ctx, &registryv1.Empty{}))
}

// Helpers -----------------------------------------------------------------

// mapRegistryError rebuilds the registry error carried in the status detail.
// Statuses without one pass through, except cancellations which become the
// matching context error.
func mapRegistryError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != registryv1.ErrorDomain {
			continue
		}
		md := info.GetMetadata()
		kind := registry.Kind(md["kind"])
		if base, known := registry.LookupCode(info.GetReason()); known {
			kind = base.Kind
		}
		return &registry.Error{
			Kind:  kind,
			Code:  info.GetReason(),
			Field: md["field"],
			Value: md["value"],
		}
	}
	switch st.Code() {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return err
}

// WithTimeout returns a context with default timeout useful for CLI tools.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(parent, d)
}
