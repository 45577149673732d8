package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"entertablock.io/internal/auth"
	"entertablock.io/internal/payout"
	"entertablock.io/internal/registry"
	"entertablock.io/internal/stream"
)

var (
	alice = registry.MustIdentity("0x00000000000000000000000000000000000000a1")
	bob   = registry.MustIdentity("0x00000000000000000000000000000000000000b2")
	carol = registry.MustIdentity("0x00000000000000000000000000000000000000c3")
)

type apiClient struct {
	baseURL string
	client  *http.Client
	engine  *registry.Engine
	t       *testing.T
}

func newTestAPI(t *testing.T, configure ...func(*Options)) *apiClient {
	t.Helper()

	t.Setenv("ENTERTABLOCK_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()
	t.Cleanup(auth.ResetSecretForTests)

	feed := stream.New()
	engine, err := registry.New(context.Background(),
		registry.WithPayouts(payout.NewInMemory()),
		registry.WithEmitter(feed),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	opts := Options{
		Version:    "test",
		Stream:     feed,
		Payouts:    payout.NewInMemory(),
		DevTokens:  true,
		RateBurst:  1000,
		RatePerSec: 1000,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	srv := httptest.NewServer(New(engine, opts).Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		engine:  engine,
		t:       t,
	}
}

func (c *apiClient) do(method, path string, body any, token string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) post(path string, body any, token string) *http.Response {
	c.t.Helper()
	return c.do(http.MethodPost, path, body, token)
}

func (c *apiClient) get(path string, params url.Values) *http.Response {
	c.t.Helper()
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	resp, err := c.client.Get(u.String())
	if err != nil {
		c.t.Fatalf("get request: %v", err)
	}
	return resp
}

func (c *apiClient) obtainToken(id registry.Identity, roles ...string) string {
	c.t.Helper()
	resp := c.post("/v1/auth/token", map[string]any{
		"identity": id.String(),
		"roles":    roles,
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("unexpected token status: %d", resp.StatusCode)
	}
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.t.Fatalf("decode token response: %v", err)
	}
	if payload.Token == "" {
		c.t.Fatalf("empty token issued")
	}
	return payload.Token
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, r *http.Response, want int) {
	t.Helper()
	if r.StatusCode != want {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		r.Body.Close()
		t.Fatalf("expected status %d, got %d: %v", want, r.StatusCode, body)
	}
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Kind      string `json:"kind"`
	Field     string `json:"field"`
	RequestID string `json:"request_id"`
}

func TestHealthAndInfo(t *testing.T) {
	c := newTestAPI(t)

	resp := c.get("/healthz", nil)
	expectStatus(t, resp, http.StatusOK)
	health := decode[map[string]any](t, resp)
	if health["status"] != "ok" || health["version"] != "test" {
		t.Fatalf("unexpected health payload: %v", health)
	}

	resp = c.get("/readyz", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = c.get("/openapi.yaml", nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/yaml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	resp.Body.Close()
}

func TestMutationsRequireToken(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/v1/artists", map[string]any{"stage_name": "A"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Fatalf("expected WWW-Authenticate header")
	}
	resp.Body.Close()

	resp = c.post("/v1/artists", map[string]any{"stage_name": "A"}, "not-a-jwt")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Reads stay anonymous.
	resp = c.get("/v1/artists/"+alice.String(), nil)
	expectStatus(t, resp, http.StatusOK)
	artist := decode[registry.Artist](t, resp)
	if artist.IsRegistered || artist.Identity != alice {
		t.Fatalf("unexpected unregistered artist: %+v", artist)
	}
}

func TestAPICollaborationRoyaltyFlow(t *testing.T) {
	c := newTestAPI(t)
	aliceTok := c.obtainToken(alice)
	bobTok := c.obtainToken(bob)
	carolTok := c.obtainToken(carol)

	resp := c.post("/v1/artists", registry.ArtistProfile{
		EmailAddress: "alice@example.com",
		FirstName:    "Alice",
		StageName:    "<b>Ally</b>",
	}, aliceTok)
	expectStatus(t, resp, http.StatusCreated)
	if loc := resp.Header.Get("Location"); loc != "/v1/artists/"+alice.String() {
		t.Fatalf("unexpected location %q", loc)
	}
	artist := decode[registry.Artist](t, resp)
	if !artist.IsRegistered || artist.StageName != "Ally" {
		t.Fatalf("unexpected artist: %+v", artist)
	}

	resp = c.post("/v1/collaborations", map[string]any{
		"participants": []string{alice.String(), bob.String()},
	}, aliceTok)
	expectStatus(t, resp, http.StatusCreated)
	collab := decode[registry.Collaboration](t, resp)
	collabPath := "/v1/collaborations/" + strconv.FormatUint(collab.ID, 10)

	resp = c.get("/v1/collaborations/by-index/0", nil)
	expectStatus(t, resp, http.StatusOK)
	if idx := decode[map[string]uint64](t, resp); idx["collaboration_id"] != collab.ID {
		t.Fatalf("unexpected index lookup: %v", idx)
	}

	resp = c.post(collabPath+"/contributions", map[string]any{"amount": 30}, aliceTok)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
	resp = c.post(collabPath+"/contributions", map[string]any{"amount": 10}, bobTok)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = c.post(collabPath+"/finalize", map[string]any{"label": "Album"}, aliceTok)
	expectStatus(t, resp, http.StatusOK)
	work := decode[registry.Work](t, resp)
	if work.Owner != alice || work.Name != "Album" || work.CollaborationID == nil {
		t.Fatalf("unexpected collaboration work: %+v", work)
	}
	tokenPath := "/v1/works/" + strconv.FormatUint(work.TokenID, 10)

	resp = c.get("/v1/works/by-name", url.Values{"owner": {alice.String()}, "name": {"Album"}})
	expectStatus(t, resp, http.StatusOK)
	if lookup := decode[workLookupResponse](t, resp); lookup.TokenID != work.TokenID {
		t.Fatalf("unexpected lookup: %+v", lookup)
	}

	resp = c.post("/v1/credits/deposit", map[string]any{"amount": 100}, carolTok)
	expectStatus(t, resp, http.StatusOK)
	if bal := decode[balanceResponse](t, resp); bal.Credit != 100 {
		t.Fatalf("unexpected credit after deposit: %+v", bal)
	}

	resp = c.post("/v1/agreements", map[string]any{
		"work_name":      "Album",
		"owner":          alice.String(),
		"payment_amount": 80,
	}, carolTok)
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = c.post("/v1/agreements/approve", map[string]any{
		"work_name": "Album",
		"requester": carol.String(),
	}, aliceTok)
	expectStatus(t, resp, http.StatusOK)
	if ag := decode[registry.UsageAgreement](t, resp); !ag.IsApproved {
		t.Fatalf("agreement not approved: %+v", ag)
	}

	resp = c.get(tokenPath+"/royalty-pool", nil)
	expectStatus(t, resp, http.StatusOK)
	if pool := decode[map[string]int64](t, resp); pool["amount"] != 80 {
		t.Fatalf("unexpected pool: %v", pool)
	}

	resp = c.post("/v1/royalties/distribute", map[string]any{"label": "Album"}, aliceTok)
	expectStatus(t, resp, http.StatusOK)
	dist := decode[registry.Distribution](t, resp)
	if dist.Pool != 80 || dist.Shares[alice] != 60 || dist.Shares[bob] != 20 {
		t.Fatalf("unexpected distribution: %+v", dist)
	}

	resp = c.get("/v1/balances/"+bob.String(), nil)
	expectStatus(t, resp, http.StatusOK)
	if bal := decode[balanceResponse](t, resp); bal.Balance != 20 {
		t.Fatalf("unexpected bob balance: %+v", bal)
	}
	resp = c.get("/v1/balances/"+carol.String(), nil)
	expectStatus(t, resp, http.StatusOK)
	if bal := decode[balanceResponse](t, resp); bal.Credit != 20 {
		t.Fatalf("unexpected carol credit: %+v", bal)
	}

	resp = c.post("/v1/withdrawals", nil, bobTok)
	expectStatus(t, resp, http.StatusOK)
	if out := decode[registry.Withdrawal](t, resp); out.Amount != 20 {
		t.Fatalf("unexpected withdrawal: %+v", out)
	}
	resp = c.post("/v1/withdrawals", nil, bobTok)
	expectStatus(t, resp, http.StatusOK)
	if out := decode[registry.Withdrawal](t, resp); out.Amount != 0 {
		t.Fatalf("second withdrawal should be empty: %+v", out)
	}

	resp = c.post("/v1/royalties/distribute", map[string]any{"label": "Album"}, aliceTok)
	expectStatus(t, resp, http.StatusConflict)
	if body := decode[errorBody](t, resp); body.Code != "already_distributed" {
		t.Fatalf("unexpected error: %+v", body)
	}
}

func TestAPIWorkLifecycle(t *testing.T) {
	c := newTestAPI(t)
	aliceTok := c.obtainToken(alice)
	bobTok := c.obtainToken(bob)

	resp := c.post("/v1/works", map[string]any{"name": "Song", "metadata_uri": "ipfs://song"}, aliceTok)
	expectStatus(t, resp, http.StatusCreated)
	work := decode[registry.Work](t, resp)
	tokenPath := "/v1/works/" + strconv.FormatUint(work.TokenID, 10)

	resp = c.do(http.MethodPut, tokenPath+"/metadata", registry.WorkMetadata{
		ReleaseDate: "2024-01-01",
		Description: "<script>x</script>debut",
	}, aliceTok)
	expectStatus(t, resp, http.StatusOK)
	if updated := decode[registry.Work](t, resp); updated.Metadata.Description != "debut" {
		t.Fatalf("description not sanitised: %+v", updated.Metadata)
	}

	resp = c.do(http.MethodPut, tokenPath+"/metadata", registry.WorkMetadata{}, bobTok)
	expectStatus(t, resp, http.StatusForbidden)
	if body := decode[errorBody](t, resp); body.Code != "not_owner" || body.Kind != "authorization" {
		t.Fatalf("unexpected error: %+v", body)
	}

	resp = c.post(tokenPath+"/transfer", map[string]any{"to": bob.String()}, aliceTok)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = c.get(tokenPath+"/owner", nil)
	expectStatus(t, resp, http.StatusOK)
	if owner := decode[map[string]registry.Identity](t, resp); owner["identity"] != bob {
		t.Fatalf("unexpected owner: %v", owner)
	}
}

func TestRegistryErrorsMapToStatus(t *testing.T) {
	c := newTestAPI(t)
	aliceTok := c.obtainToken(alice)
	bobTok := c.obtainToken(bob)

	resp := c.post("/v1/artists", registry.ArtistProfile{StageName: "A"}, aliceTok)
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	eventResp := c.post("/v1/events", map[string]any{
		"name":         "Show",
		"date":         time.Now().Add(24 * time.Hour).Unix(),
		"ticket_price": 5,
		"payees":       []string{alice.String()},
	}, aliceTok)
	expectStatus(t, eventResp, http.StatusCreated)
	ev := decode[registry.Event](t, eventResp)
	eventPath := "/v1/events/" + strconv.FormatUint(ev.ID, 10)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		token  string
		status int
		code   string
	}{
		{"duplicate registration", http.MethodPost, "/v1/artists", registry.ArtistProfile{}, aliceTok, http.StatusConflict, "already_registered"},
		{"mint for another owner", http.MethodPost, "/v1/works", map[string]any{"owner": alice.String(), "name": "X"}, bobTok, http.StatusForbidden, "not_owner"},
		{"unknown token", http.MethodGet, "/v1/works/99", nil, "", http.StatusNotFound, "token_not_found"},
		{"zero deposit", http.MethodPost, "/v1/credits/deposit", map[string]any{"amount": 0}, bobTok, http.StatusBadRequest, "non_positive_amount"},
		{"purchase without credit", http.MethodPost, eventPath + "/tickets", map[string]any{"quantity": 2}, bobTok, http.StatusPaymentRequired, "insufficient_credit"},
		{"settle before date", http.MethodPost, eventPath + "/settle", nil, aliceTok, http.StatusConflict, "event_not_started"},
		{"bad identity", http.MethodGet, "/v1/balances/nobody", nil, "", http.StatusBadRequest, "invalid_identity"},
		{"update unregistered artist", http.MethodPatch, "/v1/artists/me", map[string]any{"first_name": "B"}, bobTok, http.StatusForbidden, "not_registered"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := c.do(tc.method, tc.path, tc.body, tc.token)
			expectStatus(t, resp, tc.status)
			body := decode[errorBody](t, resp)
			if body.Code != tc.code {
				t.Fatalf("expected code %q, got %+v", tc.code, body)
			}
			if body.RequestID == "" {
				t.Fatalf("expected request_id in error body")
			}
		})
	}
}

func TestTicketingCancelRefundsCredit(t *testing.T) {
	c := newTestAPI(t)
	aliceTok := c.obtainToken(alice)
	bobTok := c.obtainToken(bob)

	resp := c.post("/v1/artists", registry.ArtistProfile{StageName: "A"}, aliceTok)
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = c.post("/v1/events", map[string]any{
		"name":         "Gig",
		"date":         time.Now().Add(time.Hour).Unix(),
		"ticket_price": 7,
		"payees":       []string{alice.String(), bob.String()},
	}, aliceTok)
	expectStatus(t, resp, http.StatusCreated)
	ev := decode[registry.Event](t, resp)
	eventPath := "/v1/events/" + strconv.FormatUint(ev.ID, 10)

	resp = c.post("/v1/credits/deposit", map[string]any{"amount": 50}, bobTok)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = c.post(eventPath+"/tickets", map[string]any{"quantity": 3}, bobTok)
	expectStatus(t, resp, http.StatusOK)
	if p := decode[registry.Purchase](t, resp); p.Cost != 21 || p.CreditBalance != 29 {
		t.Fatalf("unexpected purchase: %+v", p)
	}

	resp = c.post(eventPath+"/cancel", nil, bobTok)
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	resp = c.post(eventPath+"/cancel", nil, aliceTok)
	expectStatus(t, resp, http.StatusOK)
	if cancelled := decode[registry.Event](t, resp); cancelled.Status != registry.EventCancelled {
		t.Fatalf("unexpected status: %+v", cancelled)
	}

	resp = c.get("/v1/balances/"+bob.String(), nil)
	expectStatus(t, resp, http.StatusOK)
	if bal := decode[balanceResponse](t, resp); bal.Credit != 50 {
		t.Fatalf("expected refunded credit 50, got %+v", bal)
	}

	resp = c.post("/v1/credits/reclaim", nil, bobTok)
	expectStatus(t, resp, http.StatusOK)
	if out := decode[registry.Withdrawal](t, resp); out.Amount != 50 {
		t.Fatalf("unexpected reclaim: %+v", out)
	}
}

func TestPayoutsRequireOperatorRole(t *testing.T) {
	c := newTestAPI(t)
	plain := c.obtainToken(alice)
	operator := c.obtainToken(carol, auth.RoleOperator)

	resp := c.get("/v1/payouts", nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, c.baseURL+"/v1/payouts", nil)
	req.Header.Set("Authorization", "Bearer "+plain)
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("list payouts: %v", err)
	}
	expectStatus(t, resp, http.StatusForbidden)
	if !strings.Contains(resp.Header.Get("WWW-Authenticate"), "insufficient_scope") {
		t.Fatalf("expected insufficient_scope challenge")
	}
	resp.Body.Close()

	resp = c.post("/v1/payouts/fund", map[string]any{"identity": bob.String(), "amount": 40}, operator)
	expectStatus(t, resp, http.StatusCreated)
	tx := decode[payout.Transfer](t, resp)
	if tx.Amount != 40 {
		t.Fatalf("unexpected transfer: %+v", tx)
	}

	req, _ = http.NewRequest(http.MethodGet, c.baseURL+"/v1/payouts/wallets/"+bob.String(), nil)
	req.Header.Set("Authorization", "Bearer "+operator)
	resp, err = c.client.Do(req)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	expectStatus(t, resp, http.StatusOK)
	if wallet := decode[walletResponse](t, resp); wallet.Amount != 40 {
		t.Fatalf("unexpected wallet: %+v", wallet)
	}
}

func TestSignedLogin(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	id := registry.Identity(ethcrypto.PubkeyToAddress(key.PublicKey).Hex())

	c := newTestAPI(t, func(o *Options) {
		o.DevTokens = false
		o.Operator = id
	})

	resp := c.post("/v1/auth/token", map[string]any{"identity": id.String()}, "")
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = c.get("/v1/auth/challenge", url.Values{"identity": {id.String()}})
	expectStatus(t, resp, http.StatusOK)
	challenge := decode[challengeResponse](t, resp)

	sig, err := ethcrypto.Sign(accounts.TextHash([]byte(challenge.Message)), key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sig[64] += 27

	resp = c.post("/v1/auth/token", map[string]any{
		"identity":  id.String(),
		"issued_at": challenge.IssuedAt,
		"signature": hexutil.Encode(sig),
	}, "")
	expectStatus(t, resp, http.StatusOK)
	issued := decode[tokenResponse](t, resp)

	claims, err := auth.ParseAndValidate(issued.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != id.String() || len(claims.Roles) != 1 || claims.Roles[0] != auth.RoleOperator {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// A signature from another key is rejected.
	other, _ := ethcrypto.GenerateKey()
	bad, _ := ethcrypto.Sign(accounts.TextHash([]byte(challenge.Message)), other)
	resp = c.post("/v1/auth/token", map[string]any{
		"identity":  id.String(),
		"issued_at": challenge.IssuedAt,
		"signature": hexutil.Encode(bad),
	}, "")
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestActivityFeedAndStream(t *testing.T) {
	c := newTestAPI(t)
	tok := c.obtainToken(alice)

	resp := c.post("/v1/works", map[string]any{"name": "Demo"}, tok)
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = c.get("/v1/activity", nil)
	expectStatus(t, resp, http.StatusOK)
	feed := decode[listActivityResponse](t, resp)
	if len(feed.Items) != 1 || feed.Items[0].Type != registry.ActivityWorkMinted {
		t.Fatalf("unexpected activity feed: %+v", feed.Items)
	}
	if feed.NextAfter != feed.Items[0].Sequence {
		t.Fatalf("unexpected next_after %d", feed.NextAfter)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/stream?after=0&types="+registry.ActivityWorkMinted, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	stream, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer stream.Body.Close()
	if ct := stream.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	scanner := bufio.NewScanner(stream.Body)
	for scanner.Scan() {
		if scanner.Text() == "event: "+registry.ActivityWorkMinted {
			return
		}
	}
	t.Fatalf("stream ended without replaying the mint: %v", scanner.Err())
}

func TestJournalRequiresDurableStore(t *testing.T) {
	c := newTestAPI(t)
	resp := c.get("/v1/journal", nil)
	expectStatus(t, resp, http.StatusNotImplemented)
	resp.Body.Close()
}

func TestUnknownRouteIsJSON(t *testing.T) {
	c := newTestAPI(t)
	resp := c.get("/v1/nothing-here", nil)
	expectStatus(t, resp, http.StatusNotFound)
	if body := decode[errorBody](t, resp); body.Error == "" {
		t.Fatalf("expected JSON error body")
	}
}

func TestAPIStoresPlainTextNamesVerbatim(t *testing.T) {
	c := newTestAPI(t)
	tok := c.obtainToken(alice)

	resp := c.post("/v1/artists", registry.ArtistProfile{StageName: "Simon & Garfunkel"}, tok)
	expectStatus(t, resp, http.StatusCreated)
	created := decode[registry.Artist](t, resp)
	if created.StageName != "Simon & Garfunkel" {
		t.Fatalf("stage name altered: %q", created.StageName)
	}

	resp = c.do(http.MethodPatch, "/v1/artists/me", map[string]any{"first_name": "<b>Sin</b>ead", "last_name": "O'Brien"}, tok)
	expectStatus(t, resp, http.StatusOK)
	updated := decode[registry.Artist](t, resp)
	if updated.FirstName != "Sinead" || updated.LastName != "O'Brien" {
		t.Fatalf("unexpected names: %q %q", updated.FirstName, updated.LastName)
	}
}
