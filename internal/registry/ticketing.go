package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScheduleEvent creates an event strictly in the future. date is unix seconds.
func (e *Engine) ScheduleEvent(ctx context.Context, caller Identity, name string, date, ticketPrice int64, payees []Identity) (Event, error) {
	var out Event
	err := e.commit(ctx, "schedule_event", caller, func(s *State, now time.Time) ([]Activity, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fail(ErrEmptyName, "name", name)
		}
		if date <= now.Unix() {
			return nil, fail(ErrPastDate, "date", date)
		}
		if ticketPrice <= 0 {
			return nil, fail(ErrNonPositivePrice, "ticket_price", ticketPrice)
		}
		if len(payees) == 0 {
			return nil, fail(ErrEmptyPayeeSet, "payees", 0)
		}
		if err := checkIdentitySet("payees", payees); err != nil {
			return nil, err
		}
		ev := Event{
			ID:          s.NextEventID,
			Organizer:   caller,
			Name:        name,
			Date:        date,
			TicketPrice: ticketPrice,
			Payees:      append([]Identity(nil), payees...),
			TicketsSold: map[Identity]int64{},
			Status:      EventScheduled,
		}
		s.NextEventID++
		s.Events[ev.ID] = ev
		out = ev.clone()
		return []Activity{activity(ActivityEventScheduled, map[string]string{
			"event_id":     strconv.FormatUint(ev.ID, 10),
			"organizer":    caller.String(),
			"date":         strconv.FormatInt(date, 10),
			"ticket_price": strconv.FormatInt(ticketPrice, 10),
		})}, nil
	})
	return out, err
}

// Deposit pulls amount from the caller through the payout primitive and
// records it as prepaid market credit. It returns the new credit.
func (e *Engine) Deposit(ctx context.Context, caller Identity, amount int64) (int64, error) {
	if caller.IsZero() {
		return 0, fail(ErrInvalidIdentity, "caller", "")
	}
	if amount <= 0 {
		return 0, fail(ErrNonPositiveAmount, "amount", amount)
	}
	if err := e.payouts.Receive(ctx, caller, amount); err != nil {
		return 0, fmt.Errorf("%w: %v", fail(ErrTransferFailed, "amount", amount), err)
	}
	var credit int64
	err := e.commit(ctx, "deposit", caller, func(s *State, _ time.Time) ([]Activity, error) {
		deposited, err := addAmount(s.Deposited, amount)
		if err != nil {
			return nil, err
		}
		if err := creditTo(s.Credits, caller, amount); err != nil {
			return nil, err
		}
		s.Deposited = deposited
		credit = s.Credits[caller]
		return []Activity{activity(ActivityCreditDeposited, map[string]string{
			"identity": caller.String(),
			"amount":   strconv.FormatInt(amount, 10),
		})}, nil
	})
	if err != nil {
		// The value already arrived; hand it back.
		if bounce := e.payouts.Send(context.WithoutCancel(ctx), caller, amount); bounce != nil {
			return 0, errors.Join(err, fmt.Errorf("return deposit: %w", bounce))
		}
		return 0, err
	}
	return credit, nil
}

// PurchaseTickets debits quantity × price from the caller's credit into the
// event's escrow.
func (e *Engine) PurchaseTickets(ctx context.Context, caller Identity, eventID uint64, quantity int64) (Purchase, error) {
	var out Purchase
	err := e.commit(ctx, "purchase_tickets", caller, func(s *State, now time.Time) ([]Activity, error) {
		ev, ok := s.Events[eventID]
		if !ok {
			return nil, fail(ErrEventNotFound, "event_id", eventID)
		}
		if quantity <= 0 {
			return nil, fail(ErrNonPositiveQuantity, "quantity", quantity)
		}
		if ev.Status != EventScheduled {
			return nil, fail(ErrEventClosed, "status", ev.Status)
		}
		if now.Unix() >= ev.Date {
			return nil, fail(ErrSalesClosed, "date", ev.Date)
		}
		cost, err := mulAmount(quantity, ev.TicketPrice)
		if err != nil {
			return nil, err
		}
		held, err := addAmount(ev.TicketsSold[caller], quantity)
		if err != nil {
			return nil, err
		}
		revenue, err := addAmount(ev.Revenue, cost)
		if err != nil {
			return nil, err
		}
		if s.Credits[caller] < cost {
			return nil, fail(ErrInsufficientCredit, "cost", cost)
		}
		s.Credits[caller] -= cost
		if s.Credits[caller] == 0 {
			delete(s.Credits, caller)
		}
		ev.TicketsSold[caller] = held
		ev.Revenue = revenue
		ev.Escrow += cost
		s.Events[eventID] = ev
		out = Purchase{
			EventID:       eventID,
			Buyer:         caller,
			Quantity:      quantity,
			Cost:          cost,
			TicketsHeld:   held,
			CreditBalance: s.Credits[caller],
		}
		return []Activity{activity(ActivityTicketsPurchased, map[string]string{
			"event_id": strconv.FormatUint(eventID, 10),
			"buyer":    caller.String(),
			"quantity": strconv.FormatInt(quantity, 10),
			"cost":     strconv.FormatInt(cost, 10),
		})}, nil
	})
	return out, err
}

// SettleEvent releases the escrow equally to the payees once the event date
// is reached. The first payee absorbs the remainder.
func (e *Engine) SettleEvent(ctx context.Context, caller Identity, eventID uint64) (Settlement, error) {
	var out Settlement
	err := e.commit(ctx, "settle_event", caller, func(s *State, now time.Time) ([]Activity, error) {
		ev, ok := s.Events[eventID]
		if !ok {
			return nil, fail(ErrEventNotFound, "event_id", eventID)
		}
		if caller != ev.Organizer && !ev.isPayee(caller) {
			return nil, fail(ErrNotPayee, "identity", caller)
		}
		if ev.Status != EventScheduled {
			return nil, fail(ErrEventClosed, "status", ev.Status)
		}
		if now.Unix() < ev.Date {
			return nil, fail(ErrEventNotStarted, "date", ev.Date)
		}
		shares := splitEqual(ev.Escrow, ev.Payees)
		for id, amount := range shares {
			if amount == 0 {
				continue
			}
			if err := creditTo(s.Balances, id, amount); err != nil {
				return nil, err
			}
		}
		out = Settlement{EventID: eventID, Escrow: ev.Escrow, Shares: shares}
		ev.Escrow = 0
		ev.Status = EventSettled
		s.Events[eventID] = ev
		return []Activity{activity(ActivityEventSettled, map[string]string{
			"event_id": strconv.FormatUint(eventID, 10),
			"escrow":   strconv.FormatInt(out.Escrow, 10),
		})}, nil
	})
	return out, err
}

// CancelEvent returns every buyer's spend to their prepaid credit. Tickets
// sold stay on record; refunds are tracked separately.
func (e *Engine) CancelEvent(ctx context.Context, caller Identity, eventID uint64) (Event, error) {
	var out Event
	err := e.commit(ctx, "cancel_event", caller, func(s *State, _ time.Time) ([]Activity, error) {
		ev, ok := s.Events[eventID]
		if !ok {
			return nil, fail(ErrEventNotFound, "event_id", eventID)
		}
		if caller != ev.Organizer {
			return nil, fail(ErrNotOwner, "identity", caller)
		}
		if ev.Status != EventScheduled {
			return nil, fail(ErrEventClosed, "status", ev.Status)
		}
		refunded := make(map[Identity]int64, len(ev.TicketsSold))
		var total int64
		for buyer, qty := range ev.TicketsSold {
			spend, err := mulAmount(qty, ev.TicketPrice)
			if err != nil {
				return nil, err
			}
			if spend == 0 {
				continue
			}
			if err := creditTo(s.Credits, buyer, spend); err != nil {
				return nil, err
			}
			refunded[buyer] = spend
			total += spend
		}
		if total != ev.Escrow {
			return nil, fmt.Errorf("registry: event %d escrow %d does not match sales %d", eventID, ev.Escrow, total)
		}
		ev.Refunded = refunded
		ev.Escrow = 0
		ev.Status = EventCancelled
		s.Events[eventID] = ev
		out = ev.clone()
		return []Activity{activity(ActivityEventCancelled, map[string]string{
			"event_id": strconv.FormatUint(eventID, 10),
			"refunded": strconv.FormatInt(total, 10),
		})}, nil
	})
	return out, err
}

// Event reads an event by id.
func (e *Engine) Event(_ context.Context, eventID uint64) (Event, error) {
	var (
		ev Event
		ok bool
	)
	e.read(func(s *State) {
		ev, ok = s.Events[eventID]
		ev = ev.clone()
	})
	if !ok {
		return Event{}, fail(ErrEventNotFound, "event_id", eventID)
	}
	return ev, nil
}
