package registry

import "time"

const (
	ActivityArtistRegistered       = "artist.registered"
	ActivityArtistUpdated          = "artist.updated"
	ActivityWorkMinted             = "work.minted"
	ActivityWorkMetadataUpdated    = "work.metadata.updated"
	ActivityWorkTransferred        = "work.transferred"
	ActivityCollaborationCreated   = "collaboration.created"
	ActivityContributionAdded      = "collaboration.contribution.added"
	ActivityCollaborationFinalized = "collaboration.finalized"
	ActivityRoyaltiesDistributed   = "royalties.distributed"
	ActivityEventScheduled         = "event.scheduled"
	ActivityTicketsPurchased       = "event.tickets.purchased"
	ActivityEventSettled           = "event.settled"
	ActivityEventCancelled         = "event.cancelled"
	ActivityCreditDeposited        = "credit.deposited"
	ActivityCreditReclaimed        = "credit.reclaimed"
	ActivityBalanceWithdrawn       = "balance.withdrawn"
	ActivityPayoutReverted         = "payout.reverted"
	ActivityAgreementCreated       = "agreement.created"
	ActivityAgreementApproved      = "agreement.approved"
)

// Activity is a structured notice about a committed operation. Sequence is
// the state sequence the operation produced.
type Activity struct {
	Type       string            `json:"type"`
	Sequence   uint64            `json:"sequence"`
	Caller     Identity          `json:"caller"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes"`
}

// Emitter receives activities after they are durably committed.
type Emitter interface {
	Emit(Activity)
}

// NoopEmitter drops everything.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Activity) {}

// MultiEmitter fans out to several emitters in order.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(a Activity) {
	for _, e := range m {
		if e != nil {
			e.Emit(a)
		}
	}
}

func activity(kind string, attrs map[string]string) Activity {
	return Activity{Type: kind, Attributes: attrs}
}
