package registry

import (
	"maps"
	"slices"
	"time"
)

// State is the complete persistent state graph. Operations never mutate the
// live State; they run against a Clone that replaces it on commit.
type State struct {
	Sequence uint64 `json:"sequence"`

	Artists map[Identity]Artist `json:"artists"`

	Works       map[uint64]Work   `json:"works"`
	WorkIndex   map[string]uint64 `json:"work_index"`
	NextTokenID uint64            `json:"next_token_id"`

	Collaborations      map[uint64]Collaboration `json:"collaborations"`
	CollaborationIDs    []uint64                 `json:"collaboration_ids"`
	NextCollaborationID uint64                   `json:"next_collaboration_id"`

	Events      map[uint64]Event `json:"events"`
	NextEventID uint64           `json:"next_event_id"`

	Agreements map[string]UsageAgreement `json:"agreements"`

	Pools    map[uint64]int64   `json:"pools"`
	Credits  map[Identity]int64 `json:"credits"`
	Balances map[Identity]int64 `json:"balances"`

	Deposited int64 `json:"deposited"`
	PaidOut   int64 `json:"paid_out"`
}

// NewState returns an empty state graph.
func NewState() *State {
	s := &State{}
	s.ensure()
	return s
}

func (s *State) ensure() {
	if s.Artists == nil {
		s.Artists = map[Identity]Artist{}
	}
	if s.Works == nil {
		s.Works = map[uint64]Work{}
	}
	if s.WorkIndex == nil {
		s.WorkIndex = map[string]uint64{}
	}
	if s.Collaborations == nil {
		s.Collaborations = map[uint64]Collaboration{}
	}
	if s.Events == nil {
		s.Events = map[uint64]Event{}
	}
	if s.Agreements == nil {
		s.Agreements = map[string]UsageAgreement{}
	}
	if s.Pools == nil {
		s.Pools = map[uint64]int64{}
	}
	if s.Credits == nil {
		s.Credits = map[Identity]int64{}
	}
	if s.Balances == nil {
		s.Balances = map[Identity]int64{}
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{
		Sequence:            s.Sequence,
		Artists:             maps.Clone(s.Artists),
		Works:               make(map[uint64]Work, len(s.Works)),
		WorkIndex:           maps.Clone(s.WorkIndex),
		NextTokenID:         s.NextTokenID,
		Collaborations:      make(map[uint64]Collaboration, len(s.Collaborations)),
		CollaborationIDs:    slices.Clone(s.CollaborationIDs),
		NextCollaborationID: s.NextCollaborationID,
		Events:              make(map[uint64]Event, len(s.Events)),
		NextEventID:         s.NextEventID,
		Agreements:          make(map[string]UsageAgreement, len(s.Agreements)),
		Pools:               maps.Clone(s.Pools),
		Credits:             maps.Clone(s.Credits),
		Balances:            maps.Clone(s.Balances),
		Deposited:           s.Deposited,
		PaidOut:             s.PaidOut,
	}
	for k, w := range s.Works {
		c.Works[k] = w.clone()
	}
	for k, col := range s.Collaborations {
		c.Collaborations[k] = col.clone()
	}
	for k, ev := range s.Events {
		c.Events[k] = ev.clone()
	}
	for k, a := range s.Agreements {
		c.Agreements[k] = a.clone()
	}
	c.ensure()
	return c
}

func (w Work) clone() Work {
	if w.CollaborationID != nil {
		id := *w.CollaborationID
		w.CollaborationID = &id
	}
	return w
}

func (c Collaboration) clone() Collaboration {
	c.Participants = slices.Clone(c.Participants)
	c.Contributions = maps.Clone(c.Contributions)
	if c.WorkTokenID != nil {
		id := *c.WorkTokenID
		c.WorkTokenID = &id
	}
	return c
}

func (ev Event) clone() Event {
	ev.Payees = slices.Clone(ev.Payees)
	ev.TicketsSold = maps.Clone(ev.TicketsSold)
	ev.Refunded = maps.Clone(ev.Refunded)
	return ev
}

func (a UsageAgreement) clone() UsageAgreement {
	if a.ApprovedAt != nil {
		t := *a.ApprovedAt
		a.ApprovedAt = &t
	}
	return a
}

// Liabilities is everything the registry currently owes to identities.
func (s *State) Liabilities() int64 {
	var total int64
	for _, v := range s.Credits {
		total += v
	}
	for _, v := range s.Balances {
		total += v
	}
	for _, v := range s.Pools {
		total += v
	}
	for _, ev := range s.Events {
		total += ev.Escrow
	}
	return total
}

func workKey(owner Identity, name string) string { return string(owner) + ":" + name }

func agreementKey(workName string, requester Identity) string {
	return string(requester) + ":" + workName
}

func (s *State) work(owner Identity, name string) (Work, bool) {
	id, ok := s.WorkIndex[workKey(owner, name)]
	if !ok {
		return Work{}, false
	}
	w, ok := s.Works[id]
	return w, ok
}

func (s *State) workNamedByOther(caller Identity, name string) bool {
	for _, w := range s.Works {
		if w.Name == name && w.Owner != caller {
			return true
		}
	}
	return false
}

func (s *State) mint(owner Identity, name, uri string, collaborationID *uint64, at time.Time) (Work, error) {
	if _, exists := s.WorkIndex[workKey(owner, name)]; exists {
		return Work{}, fail(ErrDuplicateWork, "name", name)
	}
	w := Work{
		TokenID:         s.NextTokenID,
		Owner:           owner,
		Name:            name,
		MetadataURI:     uri,
		CollaborationID: collaborationID,
		MintedAt:        at,
	}
	s.NextTokenID++
	s.Works[w.TokenID] = w
	s.WorkIndex[workKey(owner, name)] = w.TokenID
	return w, nil
}

func creditTo(m map[Identity]int64, id Identity, amount int64) error {
	next, err := addAmount(m[id], amount)
	if err != nil {
		return err
	}
	m[id] = next
	return nil
}
