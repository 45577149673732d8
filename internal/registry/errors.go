package registry

import (
	"errors"
	"fmt"
)

// Kind classifies a registry failure.
type Kind string

const (
	KindAuthorization Kind = "authorization"
	KindState         Kind = "state"
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation"
	KindFunds         Kind = "funds"
	KindExternal      Kind = "external"
)

// Error is a registry failure. Two errors match under errors.Is when their
// codes are equal, so detailed errors still compare against the sentinels.
type Error struct {
	Kind  Kind   `json:"kind"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "registry: " + e.Code
	}
	return fmt.Sprintf("registry: %s (%s=%q)", e.Code, e.Field, e.Value)
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func sentinel(kind Kind, code string) *Error { return &Error{Kind: kind, Code: code} }

var (
	ErrNotRegistered  = sentinel(KindAuthorization, "not_registered")
	ErrNotOwner       = sentinel(KindAuthorization, "not_owner")
	ErrNotParticipant = sentinel(KindAuthorization, "not_participant")
	ErrNotInitiator   = sentinel(KindAuthorization, "not_initiator")
	ErrNotPayee       = sentinel(KindAuthorization, "not_payee")

	ErrAlreadyRegistered  = sentinel(KindState, "already_registered")
	ErrDuplicateWork      = sentinel(KindState, "duplicate_work")
	ErrNotOpen            = sentinel(KindState, "not_open")
	ErrNoContributions    = sentinel(KindState, "no_contributions")
	ErrNotFinalized       = sentinel(KindState, "not_finalized")
	ErrAlreadyDistributed = sentinel(KindState, "already_distributed")
	ErrAlreadyApproved    = sentinel(KindState, "already_approved")
	ErrDuplicateAgreement = sentinel(KindState, "duplicate_agreement")
	ErrEventClosed        = sentinel(KindState, "event_closed")
	ErrSalesClosed        = sentinel(KindState, "sales_closed")
	ErrEventNotStarted    = sentinel(KindState, "event_not_started")

	ErrWorkNotFound          = sentinel(KindNotFound, "work_not_found")
	ErrTokenNotFound         = sentinel(KindNotFound, "token_not_found")
	ErrCollaborationNotFound = sentinel(KindNotFound, "collaboration_not_found")
	ErrNotCollaborationWork  = sentinel(KindNotFound, "not_collaboration_work")
	ErrEventNotFound         = sentinel(KindNotFound, "event_not_found")
	ErrAgreementNotFound     = sentinel(KindNotFound, "agreement_not_found")

	ErrInvalidIdentity      = sentinel(KindValidation, "invalid_identity")
	ErrEmptyName            = sentinel(KindValidation, "empty_name")
	ErrEmptyParticipantSet  = sentinel(KindValidation, "empty_participant_set")
	ErrDuplicateParticipant = sentinel(KindValidation, "duplicate_participant")
	ErrNonPositiveAmount    = sentinel(KindValidation, "non_positive_amount")
	ErrNonPositivePrice     = sentinel(KindValidation, "non_positive_price")
	ErrNonPositiveQuantity  = sentinel(KindValidation, "non_positive_quantity")
	ErrNonPositivePayment   = sentinel(KindValidation, "non_positive_payment")
	ErrPastDate             = sentinel(KindValidation, "past_date")
	ErrEmptyPayeeSet        = sentinel(KindValidation, "empty_payee_set")
	ErrAmountOverflow       = sentinel(KindValidation, "amount_overflow")
	ErrInsufficientCredit   = sentinel(KindFunds, "insufficient_credit")
	ErrTransferFailed       = sentinel(KindExternal, "transfer_failed")
)

// fail returns a copy of the sentinel annotated with the offending field and value.
func fail(base *Error, field string, value any) *Error {
	return &Error{Kind: base.Kind, Code: base.Code, Field: field, Value: fmt.Sprint(value)}
}

// KindOf reports the kind of a registry error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// LookupCode returns the sentinel registered for code.
func LookupCode(code string) (*Error, bool) {
	e, ok := byCode[code]
	return e, ok
}

var byCode = func() map[string]*Error {
	all := []*Error{
		ErrNotRegistered, ErrNotOwner, ErrNotParticipant, ErrNotInitiator, ErrNotPayee,
		ErrAlreadyRegistered, ErrDuplicateWork, ErrNotOpen, ErrNoContributions, ErrNotFinalized,
		ErrAlreadyDistributed, ErrAlreadyApproved, ErrDuplicateAgreement, ErrEventClosed,
		ErrSalesClosed, ErrEventNotStarted,
		ErrWorkNotFound, ErrTokenNotFound, ErrCollaborationNotFound, ErrNotCollaborationWork,
		ErrEventNotFound, ErrAgreementNotFound,
		ErrInvalidIdentity, ErrEmptyName, ErrEmptyParticipantSet, ErrDuplicateParticipant,
		ErrNonPositiveAmount, ErrNonPositivePrice, ErrNonPositiveQuantity, ErrNonPositivePayment,
		ErrPastDate, ErrEmptyPayeeSet, ErrAmountOverflow,
		ErrInsufficientCredit, ErrTransferFailed,
	}
	m := make(map[string]*Error, len(all))
	for _, e := range all {
		m[e.Code] = e
	}
	return m
}()
