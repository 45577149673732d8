package registryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"entertablock.io/internal/registry"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "entertablock.registry.v1.Registry"

const (
	Registry_RegisterArtist_FullMethodName        = "/" + ServiceName + "/RegisterArtist"
	Registry_UpdateArtist_FullMethodName          = "/" + ServiceName + "/UpdateArtist"
	Registry_GetArtist_FullMethodName             = "/" + ServiceName + "/GetArtist"
	Registry_MintWork_FullMethodName              = "/" + ServiceName + "/MintWork"
	Registry_UpdateWorkMetadata_FullMethodName    = "/" + ServiceName + "/UpdateWorkMetadata"
	Registry_UpdateTokenMetadata_FullMethodName   = "/" + ServiceName + "/UpdateTokenMetadata"
	Registry_TransferWork_FullMethodName          = "/" + ServiceName + "/TransferWork"
	Registry_GetWorkMetadata_FullMethodName       = "/" + ServiceName + "/GetWorkMetadata"
	Registry_GetWorkTokenID_FullMethodName        = "/" + ServiceName + "/GetWorkTokenID"
	Registry_GetWork_FullMethodName               = "/" + ServiceName + "/GetWork"
	Registry_OwnerOf_FullMethodName               = "/" + ServiceName + "/OwnerOf"
	Registry_CreateCollaboration_FullMethodName   = "/" + ServiceName + "/CreateCollaboration"
	Registry_AddContribution_FullMethodName       = "/" + ServiceName + "/AddContribution"
	Registry_FinalizeCollaboration_FullMethodName = "/" + ServiceName + "/FinalizeCollaboration"
	Registry_GetCollaboration_FullMethodName      = "/" + ServiceName + "/GetCollaboration"
	Registry_GetCollaborationID_FullMethodName    = "/" + ServiceName + "/GetCollaborationID"
	Registry_DistributeRoyalties_FullMethodName   = "/" + ServiceName + "/DistributeRoyalties"
	Registry_GetRoyaltyPool_FullMethodName        = "/" + ServiceName + "/GetRoyaltyPool"
	Registry_ScheduleEvent_FullMethodName         = "/" + ServiceName + "/ScheduleEvent"
	Registry_Deposit_FullMethodName               = "/" + ServiceName + "/Deposit"
	Registry_PurchaseTickets_FullMethodName       = "/" + ServiceName + "/PurchaseTickets"
	Registry_SettleEvent_FullMethodName           = "/" + ServiceName + "/SettleEvent"
	Registry_CancelEvent_FullMethodName           = "/" + ServiceName + "/CancelEvent"
	Registry_GetEvent_FullMethodName              = "/" + ServiceName + "/GetEvent"
	Registry_CreateUsageAgreement_FullMethodName  = "/" + ServiceName + "/CreateUsageAgreement"
	Registry_ApproveUsageAgreement_FullMethodName = "/" + ServiceName + "/ApproveUsageAgreement"
	Registry_GetUsageAgreement_FullMethodName     = "/" + ServiceName + "/GetUsageAgreement"
	Registry_GetBalance_FullMethodName            = "/" + ServiceName + "/GetBalance"
	Registry_GetCredit_FullMethodName             = "/" + ServiceName + "/GetCredit"
	Registry_Withdraw_FullMethodName              = "/" + ServiceName + "/Withdraw"
	Registry_ReclaimCredit_FullMethodName         = "/" + ServiceName + "/ReclaimCredit"
)

// RegistryClient is the client API for the Registry service.
type RegistryClient interface {
	RegisterArtist(ctx context.Context, in *RegisterArtistRequest, opts ...grpc.CallOption) (*registry.Artist, error)
	UpdateArtist(ctx context.Context, in *UpdateArtistRequest, opts ...grpc.CallOption) (*registry.Artist, error)
	GetArtist(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*registry.Artist, error)
	MintWork(ctx context.Context, in *MintWorkRequest, opts ...grpc.CallOption) (*registry.Work, error)
	UpdateWorkMetadata(ctx context.Context, in *UpdateWorkMetadataRequest, opts ...grpc.CallOption) (*registry.Work, error)
	UpdateTokenMetadata(ctx context.Context, in *UpdateTokenMetadataRequest, opts ...grpc.CallOption) (*registry.Work, error)
	TransferWork(ctx context.Context, in *TransferWorkRequest, opts ...grpc.CallOption) (*registry.Work, error)
	GetWorkMetadata(ctx context.Context, in *WorkNameRequest, opts ...grpc.CallOption) (*registry.WorkMetadata, error)
	GetWorkTokenID(ctx context.Context, in *WorkNameRequest, opts ...grpc.CallOption) (*TokenIDResponse, error)
	GetWork(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*registry.Work, error)
	OwnerOf(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*IdentityResponse, error)
	CreateCollaboration(ctx context.Context, in *CreateCollaborationRequest, opts ...grpc.CallOption) (*registry.Collaboration, error)
	AddContribution(ctx context.Context, in *AddContributionRequest, opts ...grpc.CallOption) (*registry.Collaboration, error)
	FinalizeCollaboration(ctx context.Context, in *FinalizeCollaborationRequest, opts ...grpc.CallOption) (*registry.Work, error)
	GetCollaboration(ctx context.Context, in *CollaborationRequest, opts ...grpc.CallOption) (*registry.Collaboration, error)
	GetCollaborationID(ctx context.Context, in *CollaborationIndexRequest, opts ...grpc.CallOption) (*CollaborationIDResponse, error)
	DistributeRoyalties(ctx context.Context, in *DistributeRoyaltiesRequest, opts ...grpc.CallOption) (*registry.Distribution, error)
	GetRoyaltyPool(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*AmountResponse, error)
	ScheduleEvent(ctx context.Context, in *ScheduleEventRequest, opts ...grpc.CallOption) (*registry.Event, error)
	Deposit(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*AmountResponse, error)
	PurchaseTickets(ctx context.Context, in *PurchaseTicketsRequest, opts ...grpc.CallOption) (*registry.Purchase, error)
	SettleEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*registry.Settlement, error)
	CancelEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*registry.Event, error)
	GetEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*registry.Event, error)
	CreateUsageAgreement(ctx context.Context, in *CreateUsageAgreementRequest, opts ...grpc.CallOption) (*registry.UsageAgreement, error)
	ApproveUsageAgreement(ctx context.Context, in *AgreementRequest, opts ...grpc.CallOption) (*registry.UsageAgreement, error)
	GetUsageAgreement(ctx context.Context, in *AgreementRequest, opts ...grpc.CallOption) (*registry.UsageAgreement, error)
	GetBalance(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*AmountResponse, error)
	GetCredit(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*AmountResponse, error)
	Withdraw(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*registry.Withdrawal, error)
	ReclaimCredit(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*registry.Withdrawal, error)
}

type registryClient struct {
	cc grpc.ClientConnInterface
}

func NewRegistryClient(cc grpc.ClientConnInterface) RegistryClient {
	return &registryClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) RegisterArtist(ctx context.Context, in *RegisterArtistRequest, opts ...grpc.CallOption) (*registry.Artist, error) {
	return invoke[registry.Artist](ctx, c.cc, Registry_RegisterArtist_FullMethodName, in, opts)
}

func (c *registryClient) UpdateArtist(ctx context.Context, in *UpdateArtistRequest, opts ...grpc.CallOption) (*registry.Artist, error) {
	return invoke[registry.Artist](ctx, c.cc, Registry_UpdateArtist_FullMethodName, in, opts)
}

func (c *registryClient) GetArtist(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*registry.Artist, error) {
	return invoke[registry.Artist](ctx, c.cc, Registry_GetArtist_FullMethodName, in, opts)
}

func (c *registryClient) MintWork(ctx context.Context, in *MintWorkRequest, opts ...grpc.CallOption) (*registry.Work, error) {
	return invoke[registry.Work](ctx, c.cc, Registry_MintWork_FullMethodName, in, opts)
}

func (c *registryClient) UpdateWorkMetadata(ctx context.Context, in *UpdateWorkMetadataRequest, opts ...grpc.CallOption) (*registry.Work, error) {
	return invoke[registry.Work](ctx, c.cc, Registry_UpdateWorkMetadata_FullMethodName, in, opts)
}

func (c *registryClient) UpdateTokenMetadata(ctx context.Context, in *UpdateTokenMetadataRequest, opts ...grpc.CallOption) (*registry.Work, error) {
	return invoke[registry.Work](ctx, c.cc, Registry_UpdateTokenMetadata_FullMethodName, in, opts)
}

func (c *registryClient) TransferWork(ctx context.Context, in *TransferWorkRequest, opts ...grpc.CallOption) (*registry.Work, error) {
	return invoke[registry.Work](ctx, c.cc, Registry_TransferWork_FullMethodName, in, opts)
}

func (c *registryClient) GetWorkMetadata(ctx context.Context, in *WorkNameRequest, opts ...grpc.CallOption) (*registry.WorkMetadata, error) {
	return invoke[registry.WorkMetadata](ctx, c.cc, Registry_GetWorkMetadata_FullMethodName, in, opts)
}

func (c *registryClient) GetWorkTokenID(ctx context.Context, in *WorkNameRequest, opts ...grpc.CallOption) (*TokenIDResponse, error) {
	return invoke[TokenIDResponse](ctx, c.cc, Registry_GetWorkTokenID_FullMethodName, in, opts)
}

func (c *registryClient) GetWork(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*registry.Work, error) {
	return invoke[registry.Work](ctx, c.cc, Registry_GetWork_FullMethodName, in, opts)
}

func (c *registryClient) OwnerOf(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*IdentityResponse, error) {
	return invoke[IdentityResponse](ctx, c.cc, Registry_OwnerOf_FullMethodName, in, opts)
}

func (c *registryClient) CreateCollaboration(ctx context.Context, in *CreateCollaborationRequest, opts ...grpc.CallOption) (*registry.Collaboration, error) {
	return invoke[registry.Collaboration](ctx, c.cc, Registry_CreateCollaboration_FullMethodName, in, opts)
}

func (c *registryClient) AddContribution(ctx context.Context, in *AddContributionRequest, opts ...grpc.CallOption) (*registry.Collaboration, error) {
	return invoke[registry.Collaboration](ctx, c.cc, Registry_AddContribution_FullMethodName, in, opts)
}

func (c *registryClient) FinalizeCollaboration(ctx context.Context, in *FinalizeCollaborationRequest, opts ...grpc.CallOption) (*registry.Work, error) {
	return invoke[registry.Work](ctx, c.cc, Registry_FinalizeCollaboration_FullMethodName, in, opts)
}

func (c *registryClient) GetCollaboration(ctx context.Context, in *CollaborationRequest, opts ...grpc.CallOption) (*registry.Collaboration, error) {
	return invoke[registry.Collaboration](ctx, c.cc, Registry_GetCollaboration_FullMethodName, in, opts)
}

func (c *registryClient) GetCollaborationID(ctx context.Context, in *CollaborationIndexRequest, opts ...grpc.CallOption) (*CollaborationIDResponse, error) {
	return invoke[CollaborationIDResponse](ctx, c.cc, Registry_GetCollaborationID_FullMethodName, in, opts)
}

func (c *registryClient) DistributeRoyalties(ctx context.Context, in *DistributeRoyaltiesRequest, opts ...grpc.CallOption) (*registry.Distribution, error) {
	return invoke[registry.Distribution](ctx, c.cc, Registry_DistributeRoyalties_FullMethodName, in, opts)
}

func (c *registryClient) GetRoyaltyPool(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*AmountResponse, error) {
	return invoke[AmountResponse](ctx, c.cc, Registry_GetRoyaltyPool_FullMethodName, in, opts)
}

func (c *registryClient) ScheduleEvent(ctx context.Context, in *ScheduleEventRequest, opts ...grpc.CallOption) (*registry.Event, error) {
	return invoke[registry.Event](ctx, c.cc, Registry_ScheduleEvent_FullMethodName, in, opts)
}

func (c *registryClient) Deposit(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*AmountResponse, error) {
	return invoke[AmountResponse](ctx, c.cc, Registry_Deposit_FullMethodName, in, opts)
}

func (c *registryClient) PurchaseTickets(ctx context.Context, in *PurchaseTicketsRequest, opts ...grpc.CallOption) (*registry.Purchase, error) {
	return invoke[registry.Purchase](ctx, c.cc, Registry_PurchaseTickets_FullMethodName, in, opts)
}

func (c *registryClient) SettleEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*registry.Settlement, error) {
	return invoke[registry.Settlement](ctx, c.cc, Registry_SettleEvent_FullMethodName, in, opts)
}

func (c *registryClient) CancelEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*registry.Event, error) {
	return invoke[registry.Event](ctx, c.cc, Registry_CancelEvent_FullMethodName, in, opts)
}

func (c *registryClient) GetEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*registry.Event, error) {
	return invoke[registry.Event](ctx, c.cc, Registry_GetEvent_FullMethodName, in, opts)
}

func (c *registryClient) CreateUsageAgreement(ctx context.Context, in *CreateUsageAgreementRequest, opts ...grpc.CallOption) (*registry.UsageAgreement, error) {
	return invoke[registry.UsageAgreement](ctx, c.cc, Registry_CreateUsageAgreement_FullMethodName, in, opts)
}

func (c *registryClient) ApproveUsageAgreement(ctx context.Context, in *AgreementRequest, opts ...grpc.CallOption) (*registry.UsageAgreement, error) {
	return invoke[registry.UsageAgreement](ctx, c.cc, Registry_ApproveUsageAgreement_FullMethodName, in, opts)
}

func (c *registryClient) GetUsageAgreement(ctx context.Context, in *AgreementRequest, opts ...grpc.CallOption) (*registry.UsageAgreement, error) {
	return invoke[registry.UsageAgreement](ctx, c.cc, Registry_GetUsageAgreement_FullMethodName, in, opts)
}

func (c *registryClient) GetBalance(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*AmountResponse, error) {
	return invoke[AmountResponse](ctx, c.cc, Registry_GetBalance_FullMethodName, in, opts)
}

func (c *registryClient) GetCredit(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*AmountResponse, error) {
	return invoke[AmountResponse](ctx, c.cc, Registry_GetCredit_FullMethodName, in, opts)
}

func (c *registryClient) Withdraw(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*registry.Withdrawal, error) {
	return invoke[registry.Withdrawal](ctx, c.cc, Registry_Withdraw_FullMethodName, in, opts)
}

func (c *registryClient) ReclaimCredit(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*registry.Withdrawal, error) {
	return invoke[registry.Withdrawal](ctx, c.cc, Registry_ReclaimCredit_FullMethodName, in, opts)
}

// RegistryServer is the server API for the Registry service.
type RegistryServer interface {
	RegisterArtist(context.Context, *RegisterArtistRequest) (*registry.Artist, error)
	UpdateArtist(context.Context, *UpdateArtistRequest) (*registry.Artist, error)
	GetArtist(context.Context, *IdentityRequest) (*registry.Artist, error)
	MintWork(context.Context, *MintWorkRequest) (*registry.Work, error)
	UpdateWorkMetadata(context.Context, *UpdateWorkMetadataRequest) (*registry.Work, error)
	UpdateTokenMetadata(context.Context, *UpdateTokenMetadataRequest) (*registry.Work, error)
	TransferWork(context.Context, *TransferWorkRequest) (*registry.Work, error)
	GetWorkMetadata(context.Context, *WorkNameRequest) (*registry.WorkMetadata, error)
	GetWorkTokenID(context.Context, *WorkNameRequest) (*TokenIDResponse, error)
	GetWork(context.Context, *TokenRequest) (*registry.Work, error)
	OwnerOf(context.Context, *TokenRequest) (*IdentityResponse, error)
	CreateCollaboration(context.Context, *CreateCollaborationRequest) (*registry.Collaboration, error)
	AddContribution(context.Context, *AddContributionRequest) (*registry.Collaboration, error)
	FinalizeCollaboration(context.Context, *FinalizeCollaborationRequest) (*registry.Work, error)
	GetCollaboration(context.Context, *CollaborationRequest) (*registry.Collaboration, error)
	GetCollaborationID(context.Context, *CollaborationIndexRequest) (*CollaborationIDResponse, error)
	DistributeRoyalties(context.Context, *DistributeRoyaltiesRequest) (*registry.Distribution, error)
	GetRoyaltyPool(context.Context, *TokenRequest) (*AmountResponse, error)
	ScheduleEvent(context.Context, *ScheduleEventRequest) (*registry.Event, error)
	Deposit(context.Context, *AmountRequest) (*AmountResponse, error)
	PurchaseTickets(context.Context, *PurchaseTicketsRequest) (*registry.Purchase, error)
	SettleEvent(context.Context, *EventRequest) (*registry.Settlement, error)
	CancelEvent(context.Context, *EventRequest) (*registry.Event, error)
	GetEvent(context.Context, *EventRequest) (*registry.Event, error)
	CreateUsageAgreement(context.Context, *CreateUsageAgreementRequest) (*registry.UsageAgreement, error)
	ApproveUsageAgreement(context.Context, *AgreementRequest) (*registry.UsageAgreement, error)
	GetUsageAgreement(context.Context, *AgreementRequest) (*registry.UsageAgreement, error)
	GetBalance(context.Context, *IdentityRequest) (*AmountResponse, error)
	GetCredit(context.Context, *IdentityRequest) (*AmountResponse, error)
	Withdraw(context.Context, *Empty) (*registry.Withdrawal, error)
	ReclaimCredit(context.Context, *Empty) (*registry.Withdrawal, error)
}

// UnimplementedRegistryServer answers every method with codes.Unimplemented.
type UnimplementedRegistryServer struct{}

func (UnimplementedRegistryServer) RegisterArtist(context.Context, *RegisterArtistRequest) (*registry.Artist, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterArtist not implemented")
}

func (UnimplementedRegistryServer) UpdateArtist(context.Context, *UpdateArtistRequest) (*registry.Artist, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateArtist not implemented")
}

func (UnimplementedRegistryServer) GetArtist(context.Context, *IdentityRequest) (*registry.Artist, error) {
	return nil, status.Error(codes.Unimplemented, "method GetArtist not implemented")
}

func (UnimplementedRegistryServer) MintWork(context.Context, *MintWorkRequest) (*registry.Work, error) {
	return nil, status.Error(codes.Unimplemented, "method MintWork not implemented")
}

func (UnimplementedRegistryServer) UpdateWorkMetadata(context.Context, *UpdateWorkMetadataRequest) (*registry.Work, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateWorkMetadata not implemented")
}

func (UnimplementedRegistryServer) UpdateTokenMetadata(context.Context, *UpdateTokenMetadataRequest) (*registry.Work, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTokenMetadata not implemented")
}

func (UnimplementedRegistryServer) TransferWork(context.Context, *TransferWorkRequest) (*registry.Work, error) {
	return nil, status.Error(codes.Unimplemented, "method TransferWork not implemented")
}

func (UnimplementedRegistryServer) GetWorkMetadata(context.Context, *WorkNameRequest) (*registry.WorkMetadata, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWorkMetadata not implemented")
}

func (UnimplementedRegistryServer) GetWorkTokenID(context.Context, *WorkNameRequest) (*TokenIDResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWorkTokenID not implemented")
}

func (UnimplementedRegistryServer) GetWork(context.Context, *TokenRequest) (*registry.Work, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWork not implemented")
}

func (UnimplementedRegistryServer) OwnerOf(context.Context, *TokenRequest) (*IdentityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method OwnerOf not implemented")
}

func (UnimplementedRegistryServer) CreateCollaboration(context.Context, *CreateCollaborationRequest) (*registry.Collaboration, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCollaboration not implemented")
}

func (UnimplementedRegistryServer) AddContribution(context.Context, *AddContributionRequest) (*registry.Collaboration, error) {
	return nil, status.Error(codes.Unimplemented, "method AddContribution not implemented")
}

func (UnimplementedRegistryServer) FinalizeCollaboration(context.Context, *FinalizeCollaborationRequest) (*registry.Work, error) {
	return nil, status.Error(codes.Unimplemented, "method FinalizeCollaboration not implemented")
}

func (UnimplementedRegistryServer) GetCollaboration(context.Context, *CollaborationRequest) (*registry.Collaboration, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCollaboration not implemented")
}

func (UnimplementedRegistryServer) GetCollaborationID(context.Context, *CollaborationIndexRequest) (*CollaborationIDResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCollaborationID not implemented")
}

func (UnimplementedRegistryServer) DistributeRoyalties(context.Context, *DistributeRoyaltiesRequest) (*registry.Distribution, error) {
	return nil, status.Error(codes.Unimplemented, "method DistributeRoyalties not implemented")
}

func (UnimplementedRegistryServer) GetRoyaltyPool(context.Context, *TokenRequest) (*AmountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRoyaltyPool not implemented")
}

func (UnimplementedRegistryServer) ScheduleEvent(context.Context, *ScheduleEventRequest) (*registry.Event, error) {
	return nil, status.Error(codes.Unimplemented, "method ScheduleEvent not implemented")
}

func (UnimplementedRegistryServer) Deposit(context.Context, *AmountRequest) (*AmountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Deposit not implemented")
}

func (UnimplementedRegistryServer) PurchaseTickets(context.Context, *PurchaseTicketsRequest) (*registry.Purchase, error) {
	return nil, status.Error(codes.Unimplemented, "method PurchaseTickets not implemented")
}

func (UnimplementedRegistryServer) SettleEvent(context.Context, *EventRequest) (*registry.Settlement, error) {
	return nil, status.Error(codes.Unimplemented, "method SettleEvent not implemented")
}

func (UnimplementedRegistryServer) CancelEvent(context.Context, *EventRequest) (*registry.Event, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelEvent not implemented")
}

func (UnimplementedRegistryServer) GetEvent(context.Context, *EventRequest) (*registry.Event, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEvent not implemented")
}

func (UnimplementedRegistryServer) CreateUsageAgreement(context.Context, *CreateUsageAgreementRequest) (*registry.UsageAgreement, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateUsageAgreement not implemented")
}

func (UnimplementedRegistryServer) ApproveUsageAgreement(context.Context, *AgreementRequest) (*registry.UsageAgreement, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveUsageAgreement not implemented")
}

func (UnimplementedRegistryServer) GetUsageAgreement(context.Context, *AgreementRequest) (*registry.UsageAgreement, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUsageAgreement not implemented")
}

func (UnimplementedRegistryServer) GetBalance(context.Context, *IdentityRequest) (*AmountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBalance not implemented")
}

func (UnimplementedRegistryServer) GetCredit(context.Context, *IdentityRequest) (*AmountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCredit not implemented")
}

func (UnimplementedRegistryServer) Withdraw(context.Context, *Empty) (*registry.Withdrawal, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}

func (UnimplementedRegistryServer) ReclaimCredit(context.Context, *Empty) (*registry.Withdrawal, error) {
	return nil, status.Error(codes.Unimplemented, "method ReclaimCredit not implemented")
}

func RegisterRegistryServer(s grpc.ServiceRegistrar, srv RegistryServer) {
	s.RegisterService(&Registry_ServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(RegistryServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	full := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RegistryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RegistryServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Registry_ServiceDesc is the grpc.ServiceDesc for the Registry service.
var Registry_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("RegisterArtist", RegistryServer.RegisterArtist),
		unary("UpdateArtist", RegistryServer.UpdateArtist),
		unary("GetArtist", RegistryServer.GetArtist),
		unary("MintWork", RegistryServer.MintWork),
		unary("UpdateWorkMetadata", RegistryServer.UpdateWorkMetadata),
		unary("UpdateTokenMetadata", RegistryServer.UpdateTokenMetadata),
		unary("TransferWork", RegistryServer.TransferWork),
		unary("GetWorkMetadata", RegistryServer.GetWorkMetadata),
		unary("GetWorkTokenID", RegistryServer.GetWorkTokenID),
		unary("GetWork", RegistryServer.GetWork),
		unary("OwnerOf", RegistryServer.OwnerOf),
		unary("CreateCollaboration", RegistryServer.CreateCollaboration),
		unary("AddContribution", RegistryServer.AddContribution),
		unary("FinalizeCollaboration", RegistryServer.FinalizeCollaboration),
		unary("GetCollaboration", RegistryServer.GetCollaboration),
		unary("GetCollaborationID", RegistryServer.GetCollaborationID),
		unary("DistributeRoyalties", RegistryServer.DistributeRoyalties),
		unary("GetRoyaltyPool", RegistryServer.GetRoyaltyPool),
		unary("ScheduleEvent", RegistryServer.ScheduleEvent),
		unary("Deposit", RegistryServer.Deposit),
		unary("PurchaseTickets", RegistryServer.PurchaseTickets),
		unary("SettleEvent", RegistryServer.SettleEvent),
		unary("CancelEvent", RegistryServer.CancelEvent),
		unary("GetEvent", RegistryServer.GetEvent),
		unary("CreateUsageAgreement", RegistryServer.CreateUsageAgreement),
		unary("ApproveUsageAgreement", RegistryServer.ApproveUsageAgreement),
		unary("GetUsageAgreement", RegistryServer.GetUsageAgreement),
		unary("GetBalance", RegistryServer.GetBalance),
		unary("GetCredit", RegistryServer.GetCredit),
		unary("Withdraw", RegistryServer.Withdraw),
		unary("ReclaimCredit", RegistryServer.ReclaimCredit),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/registry/v1",
}
