package registryv1

import "entertablock.io/internal/registry"

// ErrorDomain tags the ErrorInfo detail attached to registry failures.
const ErrorDomain = "entertablock.io/registry"

type Empty struct{}

type RegisterArtistRequest struct {
	Profile registry.ArtistProfile `json:"profile"`
}

type UpdateArtistRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type IdentityRequest struct {
	Identity string `json:"identity"`
}

type MintWorkRequest struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	MetadataURI string `json:"metadata_uri"`
}

type UpdateWorkMetadataRequest struct {
	Name     string                `json:"name"`
	Metadata registry.WorkMetadata `json:"metadata"`
}

type UpdateTokenMetadataRequest struct {
	TokenID  uint64                `json:"token_id"`
	Metadata registry.WorkMetadata `json:"metadata"`
}

type TransferWorkRequest struct {
	To      string `json:"to"`
	TokenID uint64 `json:"token_id"`
}

type WorkNameRequest struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

type TokenRequest struct {
	TokenID uint64 `json:"token_id"`
}

type CreateCollaborationRequest struct {
	Participants []string `json:"participants"`
}

type AddContributionRequest struct {
	CollaborationID uint64 `json:"collaboration_id"`
	Amount          int64  `json:"amount"`
}

type FinalizeCollaborationRequest struct {
	CollaborationID uint64 `json:"collaboration_id"`
	Label           string `json:"label"`
}

type CollaborationRequest struct {
	CollaborationID uint64 `json:"collaboration_id"`
}

type CollaborationIndexRequest struct {
	Index int `json:"index"`
}

type DistributeRoyaltiesRequest struct {
	Label string `json:"label"`
}

type ScheduleEventRequest struct {
	Name        string   `json:"name"`
	Date        int64    `json:"date"`
	TicketPrice int64    `json:"ticket_price"`
	Payees      []string `json:"payees"`
}

type AmountRequest struct {
	Amount int64 `json:"amount"`
}

type PurchaseTicketsRequest struct {
	EventID  uint64 `json:"event_id"`
	Quantity int64  `json:"quantity"`
}

type EventRequest struct {
	EventID uint64 `json:"event_id"`
}

type CreateUsageAgreementRequest struct {
	WorkName      string `json:"work_name"`
	Owner         string `json:"owner"`
	PaymentAmount int64  `json:"payment_amount"`
}

type AgreementRequest struct {
	WorkName  string `json:"work_name"`
	Requester string `json:"requester"`
}

type TokenIDResponse struct {
	TokenID uint64 `json:"token_id"`
}

type IdentityResponse struct {
	Identity registry.Identity `json:"identity"`
}

type AmountResponse struct {
	Amount int64 `json:"amount"`
}

type CollaborationIDResponse struct {
	CollaborationID uint64 `json:"collaboration_id"`
}
