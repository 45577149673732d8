package registry

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Identity is an externally authenticated caller, always held in canonical
// EIP-55 checksummed form so equality checks are plain string comparisons.
type Identity string

// ParseIdentity validates a hex address and returns its canonical form.
func ParseIdentity(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return "", fail(ErrInvalidIdentity, "identity", raw)
	}
	return Identity(common.HexToAddress(raw).Hex()), nil
}

// MustIdentity is ParseIdentity for constants and tests.
func MustIdentity(raw string) Identity {
	id, err := ParseIdentity(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identity) String() string { return string(id) }

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool { return id == "" }

// Artist is the profile bound to a caller identity. Password is kept verbatim.
type Artist struct {
	Identity     Identity  `json:"identity"`
	IsRegistered bool      `json:"is_registered"`
	EmailAddress string    `json:"email_address"`
	Password     string    `json:"password"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	StageName    string    `json:"stage_name"`
	RegisteredAt time.Time `json:"registered_at,omitempty"`
}

// ArtistProfile carries the fields supplied at registration.
type ArtistProfile struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	StageName    string `json:"stage_name"`
}

// WorkMetadata is the mutable part of a work. Updates replace it wholesale.
type WorkMetadata struct {
	ReleaseDate string `json:"release_date"`
	Description string `json:"description"`
	CoverArtURL string `json:"cover_art_url"`
}

// Work is a uniquely owned token addressable by id and by (owner, name).
type Work struct {
	TokenID         uint64       `json:"token_id"`
	Owner           Identity     `json:"owner"`
	Name            string       `json:"name"`
	MetadataURI     string       `json:"metadata_uri,omitempty"`
	Metadata        WorkMetadata `json:"metadata"`
	CollaborationID *uint64      `json:"collaboration_id,omitempty"`
	MintedAt        time.Time    `json:"minted_at"`
}

// CollaborationStatus moves strictly forward: open, finalized, royalties_distributed.
type CollaborationStatus string

const (
	CollaborationOpen                 CollaborationStatus = "open"
	CollaborationFinalized            CollaborationStatus = "finalized"
	CollaborationRoyaltiesDistributed CollaborationStatus = "royalties_distributed"
)

// Collaboration tracks a joint project and each participant's weight in it.
type Collaboration struct {
	ID            uint64              `json:"id"`
	Initiator     Identity            `json:"initiator"`
	Participants  []Identity          `json:"participants"`
	Contributions map[Identity]int64  `json:"contributions"`
	Status        CollaborationStatus `json:"status"`
	WorkLabel     string              `json:"work_label,omitempty"`
	WorkTokenID   *uint64             `json:"work_token_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// TotalContribution sums every participant's accumulated contribution.
func (c Collaboration) TotalContribution() int64 {
	var total int64
	for _, v := range c.Contributions {
		total += v
	}
	return total
}

func (c Collaboration) isParticipant(id Identity) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// Distribution is the outcome of splitting a royalty pool.
type Distribution struct {
	CollaborationID uint64             `json:"collaboration_id"`
	WorkTokenID     uint64             `json:"work_token_id"`
	Pool            int64              `json:"pool"`
	Shares          map[Identity]int64 `json:"shares"`
}

// EventStatus is the lifecycle of a ticketed event.
type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventSettled   EventStatus = "settled"
	EventCancelled EventStatus = "cancelled"
)

// Event is a ticketed show whose revenue sits in escrow until settlement.
type Event struct {
	ID          uint64             `json:"id"`
	Organizer   Identity           `json:"organizer"`
	Name        string             `json:"name"`
	Date        int64              `json:"date"`
	TicketPrice int64              `json:"ticket_price"`
	Payees      []Identity         `json:"payees"`
	TicketsSold map[Identity]int64 `json:"tickets_sold"`
	Revenue     int64              `json:"revenue"`
	Escrow      int64              `json:"escrow"`
	Refunded    map[Identity]int64 `json:"refunded,omitempty"`
	Status      EventStatus        `json:"status"`
}

func (ev Event) isPayee(id Identity) bool {
	for _, p := range ev.Payees {
		if p == id {
			return true
		}
	}
	return false
}

// Purchase describes a successful ticket purchase.
type Purchase struct {
	EventID       uint64   `json:"event_id"`
	Buyer         Identity `json:"buyer"`
	Quantity      int64    `json:"quantity"`
	Cost          int64    `json:"cost"`
	TicketsHeld   int64    `json:"tickets_held"`
	CreditBalance int64    `json:"credit_balance"`
}

// Settlement describes how an event's escrow was paid out.
type Settlement struct {
	EventID uint64             `json:"event_id"`
	Escrow  int64              `json:"escrow"`
	Shares  map[Identity]int64 `json:"shares"`
}

// UsageAgreement is a third-party licensing request against a work.
type UsageAgreement struct {
	WorkName      string     `json:"work_name"`
	WorkOwner     Identity   `json:"work_owner"`
	WorkTokenID   uint64     `json:"work_token_id"`
	Requester     Identity   `json:"requester"`
	PaymentAmount int64      `json:"payment_amount"`
	IsApproved    bool       `json:"is_approved"`
	CreatedAt     time.Time  `json:"created_at"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
}

// Withdrawal reports a pull-payment. Amount 0 means there was nothing to send.
type Withdrawal struct {
	Identity Identity `json:"identity"`
	Amount   int64    `json:"amount"`
}
