package registry

import "context"

// Service is the public operation surface. Engine implements it in process;
// remote.Client implements it over gRPC.
type Service interface {
	RegisterArtist(ctx context.Context, caller Identity, profile ArtistProfile) (Artist, error)
	UpdateArtist(ctx context.Context, caller Identity, firstName, lastName string) (Artist, error)
	Artist(ctx context.Context, id Identity) (Artist, error)

	MintWork(ctx context.Context, caller, owner Identity, name, metadataURI string) (Work, error)
	UpdateWorkMetadata(ctx context.Context, caller Identity, name string, md WorkMetadata) (Work, error)
	UpdateTokenMetadata(ctx context.Context, caller Identity, tokenID uint64, md WorkMetadata) (Work, error)
	TransferWork(ctx context.Context, caller, to Identity, tokenID uint64) (Work, error)
	WorkMetadata(ctx context.Context, owner Identity, name string) (WorkMetadata, error)
	WorkTokenID(ctx context.Context, owner Identity, name string) (uint64, error)
	Work(ctx context.Context, tokenID uint64) (Work, error)
	OwnerOf(ctx context.Context, tokenID uint64) (Identity, error)

	CreateCollaboration(ctx context.Context, caller Identity, participants []Identity) (Collaboration, error)
	AddContribution(ctx context.Context, caller Identity, id uint64, amount int64) (Collaboration, error)
	FinalizeCollaboration(ctx context.Context, caller Identity, id uint64, label string) (Work, error)
	Collaboration(ctx context.Context, id uint64) (Collaboration, error)
	CollaborationID(ctx context.Context, index int) (uint64, error)

	DistributeRoyalties(ctx context.Context, caller Identity, label string) (Distribution, error)
	RoyaltyPool(ctx context.Context, tokenID uint64) (int64, error)

	ScheduleEvent(ctx context.Context, caller Identity, name string, date, ticketPrice int64, payees []Identity) (Event, error)
	Deposit(ctx context.Context, caller Identity, amount int64) (int64, error)
	PurchaseTickets(ctx context.Context, caller Identity, eventID uint64, quantity int64) (Purchase, error)
	SettleEvent(ctx context.Context, caller Identity, eventID uint64) (Settlement, error)
	CancelEvent(ctx context.Context, caller Identity, eventID uint64) (Event, error)
	Event(ctx context.Context, eventID uint64) (Event, error)

	CreateUsageAgreement(ctx context.Context, caller Identity, workName string, owner Identity, payment int64) (UsageAgreement, error)
	ApproveUsageAgreement(ctx context.Context, caller Identity, workName string, requester Identity) (UsageAgreement, error)
	UsageAgreement(ctx context.Context, workName string, requester Identity) (UsageAgreement, error)

	Balance(ctx context.Context, id Identity) (int64, error)
	Credit(ctx context.Context, id Identity) (int64, error)
	Withdraw(ctx context.Context, caller Identity) (Withdrawal, error)
	ReclaimCredit(ctx context.Context, caller Identity) (Withdrawal, error)
}

var _ Service = (*Engine)(nil)
