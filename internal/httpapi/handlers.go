package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"entertablock.io/api/spec"
	"entertablock.io/internal/obs"
	"entertablock.io/internal/payout"
	"entertablock.io/internal/registry"
	"entertablock.io/internal/stream"
)

const serviceName = "entertablock-api"

// Pinger is anything whose liveness gates readiness, usually the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyProbe: проверка готовности (ping хранилища).
type ReadyProbe struct {
	Store Pinger
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Store == nil {
		return nil
	}
	return rp.Store.Ping(ctx)
}

// PayoutJournal is the part of the payout primitive exposed over HTTP.
type PayoutJournal interface {
	List(ctx context.Context, limit int, afterSeq uint64) ([]payout.Transfer, uint64, error)
	Fund(ctx context.Context, to registry.Identity, amount int64) (payout.Transfer, error)
	Wallet(ctx context.Context, id registry.Identity) int64
}

// JournalReader pages through committed operations.
type JournalReader interface {
	Journal(ctx context.Context, limit int, afterSeq uint64) ([]registry.JournalEntry, uint64, error)
}

// Options configures the HTTP surface. Zero values disable the optional parts.
type Options struct {
	Version     string
	Ready       ReadyProbe
	Stream      *stream.Stream
	Payouts     PayoutJournal
	Journal     JournalReader
	CORSOrigins []string
	// Operator receives the operator role when it logs in.
	Operator registry.Identity

	TokenTTL        time.Duration
	ChallengeWindow time.Duration
	DevTokens       bool

	RateBurst  int
	RatePerSec float64
}

// API: HTTP слой поверх registry.Service.
type API struct {
	svc        registry.Service
	readyProbe ReadyProbe
	version    string
	stream     *stream.Stream
	payouts    PayoutJournal
	journal    JournalReader
	origins    []string
	operator   registry.Identity

	tokenTTL        time.Duration
	challengeWindow time.Duration
	devTokens       bool
	now             func() time.Time

	rateBurst  int
	ratePerSec float64
}

func New(svc registry.Service, opts Options) *API {
	a := &API{
		svc:             svc,
		readyProbe:      opts.Ready,
		version:         opts.Version,
		stream:          opts.Stream,
		payouts:         opts.Payouts,
		journal:         opts.Journal,
		origins:         opts.CORSOrigins,
		operator:        opts.Operator,
		tokenTTL:        opts.TokenTTL,
		challengeWindow: opts.ChallengeWindow,
		devTokens:       opts.DevTokens,
		now:             time.Now,
		rateBurst:       opts.RateBurst,
		ratePerSec:      opts.RatePerSec,
	}
	if a.tokenTTL <= 0 {
		a.tokenTTL = time.Hour
	}
	if a.challengeWindow <= 0 {
		a.challengeWindow = 5 * time.Minute
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 40
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 20
	}
	return a
}

// Handler собирает роутер со всеми middleware.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, LoggingJSON, SecurityHeaders, CORS(a.origins), obs.Instrument)
	r.Use(func(next http.Handler) http.Handler { return RateLimit(next, a.rateBurst, a.ratePerSec) })

	// health/ready/info
	r.Get("/healthz", a.Healthz)
	r.Get("/readyz", a.Ready)
	r.Get("/v1/info", a.Info)
	r.Get("/openapi.yaml", a.OpenAPISpec)
	r.Handle("/metrics", obs.Handler())

	r.Group(func(r chi.Router) {
		r.Use(MaxBodyBytes(1<<20), SanitizeInput(sanitizedFields...), a.withAuth)
		r.Get("/v1/auth/challenge", a.handleAuthChallenge)
		r.Post("/v1/auth/token", a.handleAuthToken)
		a.mountRegistry(r)
		a.mountFeeds(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Free-text fields cleaned of markup before they reach the registry.
var sanitizedFields = []string{"first_name", "last_name", "stage_name", "description"}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

func (a *API) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(spec.OpenAPI)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

// statusForKind maps registry error kinds onto HTTP statuses.
func statusForKind(k registry.Kind) int {
	switch k {
	case registry.KindValidation:
		return http.StatusBadRequest
	case registry.KindAuthorization:
		return http.StatusForbidden
	case registry.KindNotFound:
		return http.StatusNotFound
	case registry.KindState:
		return http.StatusConflict
	case registry.KindFunds:
		return http.StatusPaymentRequired
	case registry.KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func handleRegistryError(w http.ResponseWriter, r *http.Request, err error) {
	var re *registry.Error
	if errors.As(err, &re) {
		payload := map[string]any{
			"error": err.Error(),
			"code":  re.Code,
			"kind":  re.Kind,
		}
		if re.Field != "" {
			payload["field"] = re.Field
			payload["value"] = re.Value
		}
		if rid := RequestIDFromContext(r.Context()); rid != "" {
			payload["request_id"] = rid
		}
		writeJSON(w, statusForKind(re.Kind), payload)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	obs.Error("registry operation failed", map[string]any{
		"request_id": RequestIDFromContext(r.Context()),
		"path":       r.URL.Path,
		"error":      err.Error(),
	})
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func parsePositiveInt(raw string, def, min, max int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	if val < min || val > max {
		return 0, errors.New("limit must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
	}
	return val, nil
}

func parseAfter(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("after must be a non-negative integer")
	}
	return v, nil
}
