package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	registryv1 "entertablock.io/api/registry/v1"
	"entertablock.io/internal/registry"
)

type updateMetadataRequest = registry.WorkMetadata

type transferRequest struct {
	To string `json:"to"`
}

type contributionRequest struct {
	Amount int64 `json:"amount"`
}

type labelRequest struct {
	Label string `json:"label"`
}

type ticketsRequest struct {
	Quantity int64 `json:"quantity"`
}

type balanceResponse struct {
	Identity registry.Identity `json:"identity"`
	Balance  int64             `json:"balance"`
	Credit   int64             `json:"credit"`
}

type workLookupResponse struct {
	Owner    registry.Identity     `json:"owner"`
	Name     string                `json:"name"`
	TokenID  uint64                `json:"token_id"`
	Metadata registry.WorkMetadata `json:"metadata"`
}

func (a *API) mountRegistry(r chi.Router) {
	r.Route("/v1/artists", func(r chi.Router) {
		r.Post("/", a.registerArtist)
		r.Patch("/me", a.updateArtist)
		r.Get("/{identity}", a.getArtist)
	})
	r.Route("/v1/works", func(r chi.Router) {
		r.Post("/", a.mintWork)
		r.Get("/by-name", a.lookupWork)
		r.Put("/by-name/metadata", a.updateWorkMetadata)
		r.Get("/{tokenID}", a.getWork)
		r.Get("/{tokenID}/owner", a.ownerOf)
		r.Get("/{tokenID}/royalty-pool", a.royaltyPool)
		r.Put("/{tokenID}/metadata", a.updateTokenMetadata)
		r.Post("/{tokenID}/transfer", a.transferWork)
	})
	r.Route("/v1/collaborations", func(r chi.Router) {
		r.Post("/", a.createCollaboration)
		r.Get("/by-index/{index}", a.collaborationByIndex)
		r.Get("/{id}", a.getCollaboration)
		r.Post("/{id}/contributions", a.addContribution)
		r.Post("/{id}/finalize", a.finalizeCollaboration)
	})
	r.Post("/v1/royalties/distribute", a.distributeRoyalties)
	r.Route("/v1/events", func(r chi.Router) {
		r.Post("/", a.scheduleEvent)
		r.Get("/{id}", a.getEvent)
		r.Post("/{id}/tickets", a.purchaseTickets)
		r.Post("/{id}/settle", a.settleEvent)
		r.Post("/{id}/cancel", a.cancelEvent)
	})
	r.Post("/v1/credits/deposit", a.deposit)
	r.Post("/v1/credits/reclaim", a.reclaimCredit)
	r.Route("/v1/agreements", func(r chi.Router) {
		r.Get("/", a.getAgreement)
		r.Post("/", a.createAgreement)
		r.Post("/approve", a.approveAgreement)
	})
	r.Get("/v1/balances/{identity}", a.getBalance)
	r.Post("/v1/withdrawals", a.withdraw)
}

func respond(w http.ResponseWriter, r *http.Request, code int, v any, err error) {
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	writeJSON(w, code, v)
}

func pathUint(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}

func pathIdentity(w http.ResponseWriter, r *http.Request, name string) (registry.Identity, bool) {
	return identityParam(w, r, chi.URLParam(r, name))
}

func identityParam(w http.ResponseWriter, r *http.Request, raw string) (registry.Identity, bool) {
	id, err := registry.ParseIdentity(raw)
	if err != nil {
		handleRegistryError(w, r, err)
		return "", false
	}
	return id, true
}

func parseIdentities(raw []string) ([]registry.Identity, error) {
	out := make([]registry.Identity, 0, len(raw))
	for _, s := range raw {
		id, err := registry.ParseIdentity(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// begin authenticates the caller and decodes the body into dst when given.
func begin(w http.ResponseWriter, r *http.Request, dst any) (registry.Identity, bool) {
	id, ok := caller(w, r)
	if !ok {
		return "", false
	}
	if dst != nil {
		if err := decodeJSON(w, r, dst); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return "", false
		}
	}
	return id, true
}

// --- identity ---

func (a *API) registerArtist(w http.ResponseWriter, r *http.Request) {
	var req registry.ArtistProfile
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	artist, err := a.svc.RegisterArtist(r.Context(), id, req)
	if err == nil {
		w.Header().Set("Location", "/v1/artists/"+id.String())
	}
	respond(w, r, http.StatusCreated, artist, err)
}

func (a *API) updateArtist(w http.ResponseWriter, r *http.Request) {
	var req registryv1.UpdateArtistRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	artist, err := a.svc.UpdateArtist(r.Context(), id, req.FirstName, req.LastName)
	respond(w, r, http.StatusOK, artist, err)
}

func (a *API) getArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIdentity(w, r, "identity")
	if !ok {
		return
	}
	artist, err := a.svc.Artist(r.Context(), id)
	respond(w, r, http.StatusOK, artist, err)
}

// --- works ---

func (a *API) mintWork(w http.ResponseWriter, r *http.Request) {
	var req registryv1.MintWorkRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	owner := id
	if strings.TrimSpace(req.Owner) != "" {
		if owner, ok = identityParam(w, r, req.Owner); !ok {
			return
		}
	}
	work, err := a.svc.MintWork(r.Context(), id, owner, req.Name, req.MetadataURI)
	if err == nil {
		w.Header().Set("Location", "/v1/works/"+strconv.FormatUint(work.TokenID, 10))
	}
	respond(w, r, http.StatusCreated, work, err)
}

func (a *API) lookupWork(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner, ok := identityParam(w, r, q.Get("owner"))
	if !ok {
		return
	}
	name := q.Get("name")
	tokenID, err := a.svc.WorkTokenID(r.Context(), owner, name)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	md, err := a.svc.WorkMetadata(r.Context(), owner, name)
	respond(w, r, http.StatusOK, workLookupResponse{Owner: owner, Name: name, TokenID: tokenID, Metadata: md}, err)
}

func (a *API) updateWorkMetadata(w http.ResponseWriter, r *http.Request) {
	var req registryv1.UpdateWorkMetadataRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	work, err := a.svc.UpdateWorkMetadata(r.Context(), id, req.Name, req.Metadata)
	respond(w, r, http.StatusOK, work, err)
}

func (a *API) updateTokenMetadata(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := pathUint(w, r, "tokenID")
	if !ok {
		return
	}
	var req updateMetadataRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	work, err := a.svc.UpdateTokenMetadata(r.Context(), id, tokenID, req)
	respond(w, r, http.StatusOK, work, err)
}

func (a *API) transferWork(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := pathUint(w, r, "tokenID")
	if !ok {
		return
	}
	var req transferRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	to, ok := identityParam(w, r, req.To)
	if !ok {
		return
	}
	work, err := a.svc.TransferWork(r.Context(), id, to, tokenID)
	respond(w, r, http.StatusOK, work, err)
}

func (a *API) getWork(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := pathUint(w, r, "tokenID")
	if !ok {
		return
	}
	work, err := a.svc.Work(r.Context(), tokenID)
	respond(w, r, http.StatusOK, work, err)
}

func (a *API) ownerOf(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := pathUint(w, r, "tokenID")
	if !ok {
		return
	}
	owner, err := a.svc.OwnerOf(r.Context(), tokenID)
	respond(w, r, http.StatusOK, registryv1.IdentityResponse{Identity: owner}, err)
}

func (a *API) royaltyPool(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := pathUint(w, r, "tokenID")
	if !ok {
		return
	}
	pool, err := a.svc.RoyaltyPool(r.Context(), tokenID)
	respond(w, r, http.StatusOK, registryv1.AmountResponse{Amount: pool}, err)
}

// --- collaborations & royalties ---

func (a *API) createCollaboration(w http.ResponseWriter, r *http.Request) {
	var req registryv1.CreateCollaborationRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	participants, err := parseIdentities(req.Participants)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	c, err := a.svc.CreateCollaboration(r.Context(), id, participants)
	if err == nil {
		w.Header().Set("Location", "/v1/collaborations/"+strconv.FormatUint(c.ID, 10))
	}
	respond(w, r, http.StatusCreated, c, err)
}

func (a *API) addContribution(w http.ResponseWriter, r *http.Request) {
	collabID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req contributionRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	c, err := a.svc.AddContribution(r.Context(), id, collabID, req.Amount)
	respond(w, r, http.StatusOK, c, err)
}

func (a *API) finalizeCollaboration(w http.ResponseWriter, r *http.Request) {
	collabID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req labelRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	work, err := a.svc.FinalizeCollaboration(r.Context(), id, collabID, req.Label)
	respond(w, r, http.StatusOK, work, err)
}

func (a *API) getCollaboration(w http.ResponseWriter, r *http.Request) {
	collabID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	c, err := a.svc.Collaboration(r.Context(), collabID)
	respond(w, r, http.StatusOK, c, err)
}

func (a *API) collaborationByIndex(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, r, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}
	collabID, err := a.svc.CollaborationID(r.Context(), index)
	respond(w, r, http.StatusOK, registryv1.CollaborationIDResponse{CollaborationID: collabID}, err)
}

func (a *API) distributeRoyalties(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	d, err := a.svc.DistributeRoyalties(r.Context(), id, req.Label)
	respond(w, r, http.StatusOK, d, err)
}

// --- ticketing ---

func (a *API) scheduleEvent(w http.ResponseWriter, r *http.Request) {
	var req registryv1.ScheduleEventRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	payees, err := parseIdentities(req.Payees)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	ev, err := a.svc.ScheduleEvent(r.Context(), id, req.Name, req.Date, req.TicketPrice, payees)
	if err == nil {
		w.Header().Set("Location", "/v1/events/"+strconv.FormatUint(ev.ID, 10))
	}
	respond(w, r, http.StatusCreated, ev, err)
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	ev, err := a.svc.Event(r.Context(), eventID)
	respond(w, r, http.StatusOK, ev, err)
}

func (a *API) purchaseTickets(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req ticketsRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	p, err := a.svc.PurchaseTickets(r.Context(), id, eventID, req.Quantity)
	respond(w, r, http.StatusOK, p, err)
}

func (a *API) settleEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	id, ok := begin(w, r, nil)
	if !ok {
		return
	}
	s, err := a.svc.SettleEvent(r.Context(), id, eventID)
	respond(w, r, http.StatusOK, s, err)
}

func (a *API) cancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	id, ok := begin(w, r, nil)
	if !ok {
		return
	}
	ev, err := a.svc.CancelEvent(r.Context(), id, eventID)
	respond(w, r, http.StatusOK, ev, err)
}

func (a *API) deposit(w http.ResponseWriter, r *http.Request) {
	var req registryv1.AmountRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	credit, err := a.svc.Deposit(r.Context(), id, req.Amount)
	respond(w, r, http.StatusOK, balanceResponse{Identity: id, Credit: credit}, err)
}

func (a *API) reclaimCredit(w http.ResponseWriter, r *http.Request) {
	id, ok := begin(w, r, nil)
	if !ok {
		return
	}
	out, err := a.svc.ReclaimCredit(r.Context(), id)
	respond(w, r, http.StatusOK, out, err)
}

// --- usage agreements ---

func (a *API) createAgreement(w http.ResponseWriter, r *http.Request) {
	var req registryv1.CreateUsageAgreementRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	owner, ok := identityParam(w, r, req.Owner)
	if !ok {
		return
	}
	ag, err := a.svc.CreateUsageAgreement(r.Context(), id, req.WorkName, owner, req.PaymentAmount)
	respond(w, r, http.StatusCreated, ag, err)
}

func (a *API) approveAgreement(w http.ResponseWriter, r *http.Request) {
	var req registryv1.AgreementRequest
	id, ok := begin(w, r, &req)
	if !ok {
		return
	}
	requester, ok := identityParam(w, r, req.Requester)
	if !ok {
		return
	}
	ag, err := a.svc.ApproveUsageAgreement(r.Context(), id, req.WorkName, requester)
	respond(w, r, http.StatusOK, ag, err)
}

func (a *API) getAgreement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	requester, ok := identityParam(w, r, q.Get("requester"))
	if !ok {
		return
	}
	ag, err := a.svc.UsageAgreement(r.Context(), q.Get("work_name"), requester)
	respond(w, r, http.StatusOK, ag, err)
}

// --- balances ---

func (a *API) getBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIdentity(w, r, "identity")
	if !ok {
		return
	}
	balance, err := a.svc.Balance(r.Context(), id)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	credit, err := a.svc.Credit(r.Context(), id)
	respond(w, r, http.StatusOK, balanceResponse{Identity: id, Balance: balance, Credit: credit}, err)
}

func (a *API) withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := begin(w, r, nil)
	if !ok {
		return
	}
	out, err := a.svc.Withdraw(r.Context(), id)
	respond(w, r, http.StatusOK, out, err)
}
