package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func addr(n int) Identity {
	return MustIdentity(fmt.Sprintf("0x%040x", n))
}

var (
	operator  = addr(1)
	artistA   = addr(10)
	artistB   = addr(11)
	initiator = addr(12)
	buyer     = addr(20)
	requester = addr(21)
	stranger  = addr(99)
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakePayouts struct {
	mu       sync.Mutex
	received map[Identity]int64
	sent     map[Identity]int64
	onSend   func(to Identity, amount int64) error
}

func newFakePayouts() *fakePayouts {
	return &fakePayouts{received: map[Identity]int64{}, sent: map[Identity]int64{}}
}

func (p *fakePayouts) Receive(_ context.Context, from Identity, amount int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received[from] += amount
	return nil
}

func (p *fakePayouts) Send(_ context.Context, to Identity, amount int64) error {
	if p.onSend != nil {
		if err := p.onSend(to, amount); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent[to] += amount
	return nil
}

func (p *fakePayouts) sentTo(id Identity) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent[id]
}

type recordingEmitter struct {
	mu   sync.Mutex
	acts []Activity
}

func (r *recordingEmitter) Emit(a Activity) {
	r.mu.Lock()
	r.acts = append(r.acts, a)
	r.mu.Unlock()
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.acts))
	for _, a := range r.acts {
		out = append(out, a.Type)
	}
	return out
}

type harness struct {
	*Engine
	clock   *fakeClock
	payouts *fakePayouts
	events  *recordingEmitter
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		clock:   &fakeClock{t: time.Unix(1_700_000_000, 0).UTC()},
		payouts: newFakePayouts(),
		events:  &recordingEmitter{},
	}
	base := []Option{
		WithClock(h.clock.now),
		WithPayouts(h.payouts),
		WithEmitter(h.events),
		WithOperator(operator),
	}
	eng, err := New(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	h.Engine = eng
	return h
}

func (h *harness) register(t *testing.T, ids ...Identity) {
	t.Helper()
	for _, id := range ids {
		_, err := h.RegisterArtist(context.Background(), id, ArtistProfile{
			EmailAddress: "user@example.com",
			Password:     "pw",
			FirstName:    "First",
			LastName:     "Last",
			StageName:    "Stage " + id.String()[:6],
		})
		require.NoError(t, err)
	}
}

func requireConserved(t *testing.T, e *Engine) {
	t.Helper()
	s := e.Snapshot()
	require.Equal(t, s.Deposited-s.PaidOut, s.Liabilities(), "held funds must equal liabilities")
}

func TestRegisterAndUpdateArtist(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.RegisterArtist(ctx, artistA, ArtistProfile{
		EmailAddress: "a@x.com",
		Password:     "pw",
		FirstName:    "John",
		LastName:     "Doe",
		StageName:    "Artist1",
	})
	require.NoError(t, err)

	got, err := h.Artist(ctx, artistA)
	require.NoError(t, err)
	require.True(t, got.IsRegistered)
	require.Equal(t, "pw", got.Password)

	seq := h.Sequence()
	_, err = h.RegisterArtist(ctx, artistA, ArtistProfile{StageName: "Other"})
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.Equal(t, KindState, KindOf(err))
	require.Equal(t, seq, h.Sequence())
	again, _ := h.Artist(ctx, artistA)
	require.Equal(t, "Artist1", again.StageName)

	updated, err := h.UpdateArtist(ctx, artistA, "Jane", "Smith")
	require.NoError(t, err)
	require.Equal(t, "Jane", updated.FirstName)
	require.Equal(t, "Smith", updated.LastName)
	require.Equal(t, "Artist1", updated.StageName)
	require.Equal(t, "a@x.com", updated.EmailAddress)
}

func TestUpdateArtistRequiresRegistration(t *testing.T) {
	h := newHarness(t)
	_, err := h.UpdateArtist(context.Background(), stranger, "A", "B")
	require.ErrorIs(t, err, ErrNotRegistered)

	var regErr *Error
	require.True(t, errors.As(err, &regErr))
	require.Equal(t, "identity", regErr.Field)
	require.Equal(t, stranger.String(), regErr.Value)

	unknown, err := h.Artist(context.Background(), stranger)
	require.NoError(t, err)
	require.False(t, unknown.IsRegistered)
}

func TestMintAndUpdateMetadata(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	w, err := h.MintWork(ctx, operator, artistA, "Work1", "ipfs://work1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), w.TokenID)
	require.Equal(t, artistA, w.Owner)

	_, err = h.MintWork(ctx, artistA, artistA, "Work1", "")
	require.ErrorIs(t, err, ErrDuplicateWork)
	_, err = h.MintWork(ctx, stranger, artistA, "Work2", "")
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = h.MintWork(ctx, artistA, artistA, "  ", "")
	require.ErrorIs(t, err, ErrEmptyName)

	second, err := h.MintWork(ctx, artistB, artistB, "Work1", "")
	require.NoError(t, err)
	require.Equal(t, uint64(1), second.TokenID)

	md := WorkMetadata{ReleaseDate: "2024-01-01", Description: "first", CoverArtURL: "https://img/1"}
	_, err = h.UpdateWorkMetadata(ctx, artistA, "Work1", md)
	require.NoError(t, err)
	got, err := h.WorkMetadata(ctx, artistA, "Work1")
	require.NoError(t, err)
	require.Equal(t, md, got)

	// Full replace: empty fields overwrite.
	_, err = h.UpdateTokenMetadata(ctx, artistA, 0, WorkMetadata{Description: "second"})
	require.NoError(t, err)
	got, _ = h.WorkMetadata(ctx, artistA, "Work1")
	require.Equal(t, WorkMetadata{Description: "second"}, got)

	_, err = h.UpdateTokenMetadata(ctx, artistB, 0, md)
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = h.UpdateWorkMetadata(ctx, stranger, "Work1", md)
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = h.UpdateWorkMetadata(ctx, artistA, "Missing", md)
	require.ErrorIs(t, err, ErrWorkNotFound)

	id, err := h.WorkTokenID(ctx, artistB, "Work1")
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
	_, err = h.WorkTokenID(ctx, stranger, "Work1")
	require.ErrorIs(t, err, ErrWorkNotFound)
	require.Equal(t, KindNotFound, KindOf(err))
	_, err = h.Work(ctx, 42)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTransferWorkKeepsSingleOwner(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	w, err := h.MintWork(ctx, artistA, artistA, "Song", "")
	require.NoError(t, err)
	_, err = h.MintWork(ctx, artistB, artistB, "Song", "")
	require.NoError(t, err)

	_, err = h.TransferWork(ctx, artistB, stranger, w.TokenID)
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = h.TransferWork(ctx, artistA, artistB, w.TokenID)
	require.ErrorIs(t, err, ErrDuplicateWork)

	moved, err := h.TransferWork(ctx, artistA, stranger, w.TokenID)
	require.NoError(t, err)
	require.Equal(t, stranger, moved.Owner)

	owner, err := h.OwnerOf(ctx, w.TokenID)
	require.NoError(t, err)
	require.Equal(t, stranger, owner)
	_, err = h.WorkTokenID(ctx, artistA, "Song")
	require.ErrorIs(t, err, ErrWorkNotFound)
	id, err := h.WorkTokenID(ctx, stranger, "Song")
	require.NoError(t, err)
	require.Equal(t, w.TokenID, id)

	s := h.Snapshot()
	owners := map[uint64]int{}
	for key, tid := range s.WorkIndex {
		owners[tid]++
		require.Equal(t, workKey(s.Works[tid].Owner, s.Works[tid].Name), key)
	}
	for tid, n := range owners {
		require.Equal(t, 1, n, "token %d indexed more than once", tid)
	}
}

// fundPool has requester license the collaboration work for amount.
func fundPool(t *testing.T, h *harness, owner Identity, label string, amount int64) {
	t.Helper()
	ctx := context.Background()
	_, err := h.Deposit(ctx, requester, amount)
	require.NoError(t, err)
	_, err = h.CreateUsageAgreement(ctx, requester, label, owner, amount)
	require.NoError(t, err)
	_, err = h.ApproveUsageAgreement(ctx, owner, label, requester)
	require.NoError(t, err)
}

func TestCollaborationRoyaltyScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, initiator)

	c, err := h.CreateCollaboration(ctx, initiator, []Identity{artistA, artistB})
	require.NoError(t, err)
	require.Equal(t, CollaborationOpen, c.Status)
	first, err := h.CollaborationID(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, c.ID, first)

	_, err = h.AddContribution(ctx, artistA, c.ID, 200)
	require.NoError(t, err)
	_, err = h.AddContribution(ctx, artistB, c.ID, 150)
	require.NoError(t, err)
	_, err = h.AddContribution(ctx, artistB, c.ID, 50)
	require.NoError(t, err)
	_, err = h.AddContribution(ctx, stranger, c.ID, 10)
	require.ErrorIs(t, err, ErrNotParticipant)
	_, err = h.AddContribution(ctx, artistA, c.ID, 0)
	require.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = h.FinalizeCollaboration(ctx, artistA, c.ID, "")
	require.ErrorIs(t, err, ErrNotInitiator)

	w, err := h.FinalizeCollaboration(ctx, initiator, c.ID, "")
	require.NoError(t, err)
	require.Equal(t, initiator, w.Owner)
	require.Equal(t, DefaultCollaborationLabel, w.Name)

	got, err := h.Collaboration(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, CollaborationFinalized, got.Status)
	require.Equal(t, int64(200), got.Contributions[artistB])

	_, err = h.AddContribution(ctx, artistA, c.ID, 1)
	require.ErrorIs(t, err, ErrNotOpen)

	fundPool(t, h, initiator, DefaultCollaborationLabel, 100)
	pool, err := h.RoyaltyPool(ctx, w.TokenID)
	require.NoError(t, err)
	require.Equal(t, int64(100), pool)

	dist, err := h.DistributeRoyalties(ctx, initiator, DefaultCollaborationLabel)
	require.NoError(t, err)
	require.Equal(t, int64(50), dist.Shares[artistA])
	require.Equal(t, int64(50), dist.Shares[artistB])
	var sum int64
	for _, v := range dist.Shares {
		sum += v
	}
	require.Equal(t, dist.Pool, sum)

	balA, _ := h.Balance(ctx, artistA)
	balB, _ := h.Balance(ctx, artistB)
	require.Equal(t, int64(50), balA)
	require.Equal(t, int64(50), balB)

	_, err = h.DistributeRoyalties(ctx, initiator, DefaultCollaborationLabel)
	require.ErrorIs(t, err, ErrAlreadyDistributed)
	_, err = h.AddContribution(ctx, artistA, c.ID, 1)
	require.ErrorIs(t, err, ErrNotOpen)
	requireConserved(t, h.Engine)
}

func TestDistributeRemainderGoesToInitiator(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, initiator)

	c, err := h.CreateCollaboration(ctx, initiator, []Identity{artistA, artistB})
	require.NoError(t, err)
	_, err = h.AddContribution(ctx, artistA, c.ID, 1)
	require.NoError(t, err)
	_, err = h.AddContribution(ctx, artistB, c.ID, 2)
	require.NoError(t, err)
	_, err = h.FinalizeCollaboration(ctx, initiator, c.ID, "Joint")
	require.NoError(t, err)
	fundPool(t, h, initiator, "Joint", 100)

	dist, err := h.DistributeRoyalties(ctx, initiator, "Joint")
	require.NoError(t, err)
	require.Equal(t, int64(33), dist.Shares[artistA])
	require.Equal(t, int64(66), dist.Shares[artistB])
	require.Equal(t, int64(1), dist.Shares[initiator])
	requireConserved(t, h.Engine)
}

func TestDistributeEmptyPoolStillCompletes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, initiator)

	c, err := h.CreateCollaboration(ctx, initiator, []Identity{artistA})
	require.NoError(t, err)
	_, err = h.FinalizeCollaboration(ctx, initiator, c.ID, "")
	require.ErrorIs(t, err, ErrNoContributions)
	_, err = h.AddContribution(ctx, artistA, c.ID, 5)
	require.NoError(t, err)
	_, err = h.FinalizeCollaboration(ctx, initiator, c.ID, "")
	require.NoError(t, err)

	dist, err := h.DistributeRoyalties(ctx, initiator, "")
	require.NoError(t, err)
	require.Zero(t, dist.Pool)
	got, _ := h.Collaboration(ctx, c.ID)
	require.Equal(t, CollaborationRoyaltiesDistributed, got.Status)
}

func TestDistributeRejectsPlainWork(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.MintWork(ctx, artistA, artistA, "Solo", "")
	require.NoError(t, err)
	_, err = h.DistributeRoyalties(ctx, artistA, "Solo")
	require.ErrorIs(t, err, ErrNotCollaborationWork)
	_, err = h.DistributeRoyalties(ctx, artistA, "Missing")
	require.ErrorIs(t, err, ErrWorkNotFound)
}

func TestCreateCollaborationValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.CreateCollaboration(ctx, initiator, nil)
	require.ErrorIs(t, err, ErrEmptyParticipantSet)
	_, err = h.CreateCollaboration(ctx, initiator, []Identity{artistA, artistA})
	require.ErrorIs(t, err, ErrDuplicateParticipant)
	_, err = h.CollaborationID(ctx, 0)
	require.ErrorIs(t, err, ErrCollaborationNotFound)
}

func TestUnregisteredCallersScheduleAndCollaborate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	date := h.clock.now().Add(24 * time.Hour).Unix()
	ev, err := h.ScheduleEvent(ctx, artistA, "Concert1", date, 100, []Identity{artistB})
	require.NoError(t, err)
	require.Equal(t, artistA, ev.Organizer)

	c, err := h.CreateCollaboration(ctx, artistA, []Identity{artistA, artistB})
	require.NoError(t, err)
	require.Equal(t, artistA, c.Initiator)

	who, _ := h.Artist(ctx, artistA)
	require.False(t, who.IsRegistered)
}

const tenthUnit = int64(100_000_000_000_000_000)

func TestTicketPurchaseScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, artistA)

	date := h.clock.now().Add(24 * time.Hour).Unix()
	ev, err := h.ScheduleEvent(ctx, artistA, "Concert", date, tenthUnit, []Identity{artistA, artistB})
	require.NoError(t, err)

	credit, err := h.Deposit(ctx, buyer, 3*tenthUnit)
	require.NoError(t, err)
	require.Equal(t, 3*tenthUnit, credit)

	p, err := h.PurchaseTickets(ctx, buyer, ev.ID, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), p.TicketsHeld)
	require.Zero(t, p.CreditBalance)

	details, err := h.Event(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), details.TicketsSold[buyer])
	require.Equal(t, 3*tenthUnit, details.Revenue)

	left, _ := h.Credit(ctx, buyer)
	require.Zero(t, left)

	seq := h.Sequence()
	out, err := h.Withdraw(ctx, buyer)
	require.NoError(t, err)
	require.Zero(t, out.Amount)
	require.Equal(t, seq, h.Sequence())
	require.Zero(t, h.payouts.sentTo(buyer))
	requireConserved(t, h.Engine)
}

func TestScheduleEventValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	future := h.clock.now().Add(time.Hour).Unix()

	_, err := h.ScheduleEvent(ctx, artistA, "Show", h.clock.now().Unix(), 10, []Identity{artistA})
	require.ErrorIs(t, err, ErrPastDate)
	require.Equal(t, KindValidation, KindOf(err))
	_, err = h.ScheduleEvent(ctx, artistA, "Show", future, 0, []Identity{artistA})
	require.ErrorIs(t, err, ErrNonPositivePrice)
	_, err = h.ScheduleEvent(ctx, artistA, "Show", future, 10, nil)
	require.ErrorIs(t, err, ErrEmptyPayeeSet)
	_, err = h.ScheduleEvent(ctx, artistA, "", future, 10, []Identity{artistA})
	require.ErrorIs(t, err, ErrEmptyName)

	ev, err := h.ScheduleEvent(ctx, artistA, "Show", future, 10, []Identity{artistA})
	require.NoError(t, err)
	require.Equal(t, uint64(0), ev.ID)
	_, err = h.Event(ctx, 7)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestPurchaseFailuresLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, artistA)
	ev, err := h.ScheduleEvent(ctx, artistA, "Show", h.clock.now().Add(time.Hour).Unix(), 40, []Identity{artistA})
	require.NoError(t, err)
	_, err = h.Deposit(ctx, buyer, 100)
	require.NoError(t, err)

	before := h.Snapshot()
	_, err = h.PurchaseTickets(ctx, buyer, 9, 1)
	require.ErrorIs(t, err, ErrEventNotFound)
	_, err = h.PurchaseTickets(ctx, buyer, ev.ID, 0)
	require.ErrorIs(t, err, ErrNonPositiveQuantity)
	_, err = h.PurchaseTickets(ctx, buyer, ev.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientCredit)
	require.Equal(t, KindFunds, KindOf(err))
	require.Equal(t, before, h.Snapshot())

	_, err = h.PurchaseTickets(ctx, buyer, ev.ID, 2)
	require.NoError(t, err)
	h.clock.advance(2 * time.Hour)
	_, err = h.PurchaseTickets(ctx, buyer, ev.ID, 1)
	require.ErrorIs(t, err, ErrSalesClosed)
}

func TestSettleEventPaysPayees(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, artistA)
	ev, err := h.ScheduleEvent(ctx, artistA, "Show", h.clock.now().Add(time.Hour).Unix(), 5, []Identity{artistA, artistB})
	require.NoError(t, err)
	_, err = h.Deposit(ctx, buyer, 15)
	require.NoError(t, err)
	_, err = h.PurchaseTickets(ctx, buyer, ev.ID, 3)
	require.NoError(t, err)

	_, err = h.SettleEvent(ctx, artistA, ev.ID)
	require.ErrorIs(t, err, ErrEventNotStarted)
	h.clock.advance(time.Hour)
	_, err = h.SettleEvent(ctx, stranger, ev.ID)
	require.ErrorIs(t, err, ErrNotPayee)

	st, err := h.SettleEvent(ctx, artistB, ev.ID)
	require.NoError(t, err)
	require.Equal(t, int64(8), st.Shares[artistA])
	require.Equal(t, int64(7), st.Shares[artistB])

	_, err = h.SettleEvent(ctx, artistA, ev.ID)
	require.ErrorIs(t, err, ErrEventClosed)
	_, err = h.CancelEvent(ctx, artistA, ev.ID)
	require.ErrorIs(t, err, ErrEventClosed)

	out, err := h.Withdraw(ctx, artistA)
	require.NoError(t, err)
	require.Equal(t, int64(8), out.Amount)
	require.Equal(t, int64(8), h.payouts.sentTo(artistA))
	requireConserved(t, h.Engine)
}

func TestCancelEventRefundsWithoutShrinkingSales(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, artistA)
	ev, err := h.ScheduleEvent(ctx, artistA, "Show", h.clock.now().Add(time.Hour).Unix(), 5, []Identity{artistA})
	require.NoError(t, err)
	_, err = h.Deposit(ctx, buyer, 20)
	require.NoError(t, err)
	_, err = h.PurchaseTickets(ctx, buyer, ev.ID, 4)
	require.NoError(t, err)

	_, err = h.CancelEvent(ctx, buyer, ev.ID)
	require.ErrorIs(t, err, ErrNotOwner)

	cancelled, err := h.CancelEvent(ctx, artistA, ev.ID)
	require.NoError(t, err)
	require.Equal(t, EventCancelled, cancelled.Status)
	require.Equal(t, int64(4), cancelled.TicketsSold[buyer])
	require.Equal(t, int64(20), cancelled.Refunded[buyer])

	credit, _ := h.Credit(ctx, buyer)
	require.Equal(t, int64(20), credit)
	_, err = h.PurchaseTickets(ctx, buyer, ev.ID, 1)
	require.ErrorIs(t, err, ErrEventClosed)

	out, err := h.ReclaimCredit(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, int64(20), out.Amount)
	require.Equal(t, int64(20), h.payouts.sentTo(buyer))
	requireConserved(t, h.Engine)
}

func TestApproveRequiresCurrentOwner(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.MintWork(ctx, operator, artistA, "Work1", "")
	require.NoError(t, err)

	_, err = h.CreateUsageAgreement(ctx, requester, "Work1", artistA, 300)
	require.NoError(t, err)

	_, err = h.ApproveUsageAgreement(ctx, stranger, "Work1", requester)
	require.ErrorIs(t, err, ErrNotOwner)
	require.Equal(t, KindAuthorization, KindOf(err))

	a, err := h.UsageAgreement(ctx, "Work1", requester)
	require.NoError(t, err)
	require.False(t, a.IsApproved)
}

func TestUsageAgreementPaysOwnerOfPlainWork(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.MintWork(ctx, artistA, artistA, "Work1", "")
	require.NoError(t, err)

	_, err = h.CreateUsageAgreement(ctx, requester, "Missing", artistA, 10)
	require.ErrorIs(t, err, ErrWorkNotFound)
	_, err = h.CreateUsageAgreement(ctx, requester, "Work1", artistA, 0)
	require.ErrorIs(t, err, ErrNonPositivePayment)
	_, err = h.CreateUsageAgreement(ctx, requester, "Work1", artistA, 300)
	require.NoError(t, err)
	_, err = h.CreateUsageAgreement(ctx, requester, "Work1", artistA, 300)
	require.ErrorIs(t, err, ErrDuplicateAgreement)
	_, err = h.ApproveUsageAgreement(ctx, artistA, "Work1", stranger)
	require.ErrorIs(t, err, ErrAgreementNotFound)

	_, err = h.ApproveUsageAgreement(ctx, artistA, "Work1", requester)
	require.ErrorIs(t, err, ErrInsufficientCredit)

	_, err = h.Deposit(ctx, requester, 300)
	require.NoError(t, err)
	a, err := h.ApproveUsageAgreement(ctx, artistA, "Work1", requester)
	require.NoError(t, err)
	require.True(t, a.IsApproved)
	require.NotNil(t, a.ApprovedAt)

	_, err = h.ApproveUsageAgreement(ctx, artistA, "Work1", requester)
	require.ErrorIs(t, err, ErrAlreadyApproved)

	bal, _ := h.Balance(ctx, artistA)
	require.Equal(t, int64(300), bal)
	requireConserved(t, h.Engine)
}

func TestWithdrawIsNotReentrant(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.MintWork(ctx, artistA, artistA, "Work1", "")
	require.NoError(t, err)
	_, err = h.Deposit(ctx, requester, 70)
	require.NoError(t, err)
	_, err = h.CreateUsageAgreement(ctx, requester, "Work1", artistA, 70)
	require.NoError(t, err)
	_, err = h.ApproveUsageAgreement(ctx, artistA, "Work1", requester)
	require.NoError(t, err)

	var nested []Withdrawal
	h.payouts.onSend = func(to Identity, _ int64) error {
		if len(nested) > 0 {
			return nil
		}
		w, err := h.Withdraw(ctx, to)
		require.NoError(t, err)
		nested = append(nested, w)
		return nil
	}

	out, err := h.Withdraw(ctx, artistA)
	require.NoError(t, err)
	require.Equal(t, int64(70), out.Amount)
	require.Len(t, nested, 1)
	require.Zero(t, nested[0].Amount)
	require.Equal(t, int64(70), h.payouts.sentTo(artistA))
	bal, _ := h.Balance(ctx, artistA)
	require.Zero(t, bal)
	requireConserved(t, h.Engine)
}

func TestWithdrawRestoresBalanceWhenSendFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.MintWork(ctx, artistA, artistA, "Work1", "")
	require.NoError(t, err)
	_, err = h.Deposit(ctx, requester, 25)
	require.NoError(t, err)
	_, err = h.CreateUsageAgreement(ctx, requester, "Work1", artistA, 25)
	require.NoError(t, err)
	_, err = h.ApproveUsageAgreement(ctx, artistA, "Work1", requester)
	require.NoError(t, err)

	h.payouts.onSend = func(Identity, int64) error { return errors.New("network down") }
	_, err = h.Withdraw(ctx, artistA)
	require.ErrorIs(t, err, ErrTransferFailed)
	require.Equal(t, KindExternal, KindOf(err))

	bal, _ := h.Balance(ctx, artistA)
	require.Equal(t, int64(25), bal)
	require.Contains(t, h.events.types(), ActivityPayoutReverted)
	requireConserved(t, h.Engine)
}

type failingStore struct {
	MemoryStore
	err error
}

func (f failingStore) Save(context.Context, *State, JournalEntry) error { return f.err }

func TestStoreFailureLeavesStateUntouched(t *testing.T) {
	boom := errors.New("disk full")
	h := newHarness(t, WithStore(failingStore{err: boom}))

	_, err := h.RegisterArtist(context.Background(), artistA, ArtistProfile{StageName: "A"})
	require.ErrorIs(t, err, boom)
	require.Zero(t, h.Sequence())

	got, _ := h.Artist(context.Background(), artistA)
	require.False(t, got.IsRegistered)
	require.Empty(t, h.events.types())
}

type snapshotStore struct {
	mu      sync.Mutex
	data    []byte
	digest  string
	entries []JournalEntry
}

func (m *snapshotStore) Load(context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return DecodeSnapshot(m.data, m.digest)
}

func (m *snapshotStore) Save(_ context.Context, s *State, entry JournalEntry) error {
	data, digest, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data, m.digest = data, digest
	m.entries = append(m.entries, entry)
	return nil
}

func TestEngineRestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	store := &snapshotStore{}
	h := newHarness(t, WithStore(store))
	h.register(t, artistA)
	_, err := h.MintWork(ctx, artistA, artistA, "Work1", "")
	require.NoError(t, err)

	require.Len(t, store.entries, 2)
	require.Equal(t, "mint_work", store.entries[1].Operation)
	require.Equal(t, uint64(2), store.entries[1].Sequence)

	restored, err := New(ctx, WithStore(store))
	require.NoError(t, err)
	require.Equal(t, uint64(2), restored.Sequence())
	owner, err := restored.OwnerOf(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, artistA, owner)

	store.digest = "not-a-digest"
	_, err = New(ctx, WithStore(store))
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestActivitiesCarrySequence(t *testing.T) {
	h := newHarness(t)
	h.register(t, artistA)
	_, err := h.MintWork(context.Background(), artistA, artistA, "Work1", "")
	require.NoError(t, err)

	require.Equal(t, []string{ActivityArtistRegistered, ActivityWorkMinted}, h.events.types())
	require.Equal(t, uint64(2), h.events.acts[1].Sequence)
	require.Equal(t, artistA, h.events.acts[1].Caller)
}

func TestParseIdentityCanonicalises(t *testing.T) {
	id, err := ParseIdentity("0x52908400098527886e0f7030069857d2e4169ee7")
	require.NoError(t, err)
	require.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", id.String())

	_, err = ParseIdentity("alice")
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = New(context.Background())
	require.NoError(t, err)
}

func TestCallerMustBeSet(t *testing.T) {
	h := newHarness(t)
	_, err := h.RegisterArtist(context.Background(), "", ArtistProfile{})
	require.ErrorIs(t, err, ErrInvalidIdentity)
}
