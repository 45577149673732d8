package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"entertablock.io/internal/registry"
	"entertablock.io/internal/sim"
)

// loadgen hammers the ticket market of a daemon started with
// ENTERTABLOCK_DEV_TOKENS=true and checks escrow against accepted orders.
func main() {
	var (
		baseURL  = flag.String("base-url", "http://localhost:8080", "API base URL")
		workers  = flag.Int("workers", 4, "Concurrent worker count")
		fans     = flag.Int("fans", 16, "Number of simulated buyers")
		duration = flag.Duration("duration", time.Minute, "Duration of the run")
		seed     = flag.Int64("seed", 0, "Random seed (0 picks one)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scenario := sim.SoldOutShowScenario(*fans)
	generator := sim.NewGenerator(scenario, *seed)
	c := &client{base: *baseURL, http: &http.Client{Timeout: 10 * time.Second}, tokens: map[registry.Identity]string{}}

	log.Printf("Launching load run: base=%s workers=%d fans=%d duration=%s", *baseURL, *workers, *fans, *duration)

	eventID, err := setup(ctx, c, scenario)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	var (
		counter  sim.Counter
		mu       sync.Mutex
		failures int64
		broke    int64
		limited  int64
		other    int64
	)
	var wg sync.WaitGroup
	deadline := time.Now().Add(*duration)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id*9973)))
			for time.Now().Before(deadline) {
				select {
				case <-ctx.Done():
					return
				default:
				}
				mu.Lock()
				p := generator.NextPurchase()
				mu.Unlock()

				status, err := c.call(ctx, p.Buyer, fmt.Sprintf("/v1/events/%d/tickets", eventID), map[string]any{"quantity": p.Quantity}, nil)
				if err != nil {
					log.Printf("worker %d do: %v", id, err)
					atomic.AddInt64(&failures, 1)
					continue
				}
				if status >= 300 {
					atomic.AddInt64(&failures, 1)
					switch status {
					case http.StatusPaymentRequired:
						atomic.AddInt64(&broke, 1)
					case http.StatusTooManyRequests:
						atomic.AddInt64(&limited, 1)
						time.Sleep(250 * time.Millisecond)
					default:
						atomic.AddInt64(&other, 1)
						log.Printf("worker %d purchase failed: %d", id, status)
						time.Sleep(200 * time.Millisecond)
					}
					continue
				}
				counter.Add(p, scenario.TicketPrice)
				time.Sleep(time.Duration(50+rnd.Intn(120)) * time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	orders, tickets, spend := counter.Totals()
	log.Printf("Run complete: %d orders / %d failed (no_credit=%d, rate_limited=%d, other=%d), %d tickets, spend %d",
		orders, failures, broke, limited, other, tickets, spend)

	var ev registry.Event
	if _, err := c.call(context.Background(), "", fmt.Sprintf("/v1/events/%d", eventID), nil, &ev); err != nil {
		log.Fatalf("read event: %v", err)
	}
	if ev.Escrow != spend {
		log.Fatalf("escrow mismatch: event holds %d, accepted orders spent %d", ev.Escrow, spend)
	}
	log.Printf("Escrow for event %d matches accepted spend", eventID)
}

// setup registers the organizer, schedules the show and funds every fan.
func setup(ctx context.Context, c *client, s sim.Scenario) (uint64, error) {
	status, err := c.call(ctx, s.Organizer, "/v1/artists", registry.ArtistProfile{StageName: s.Name}, nil)
	if err != nil {
		return 0, err
	}
	if status >= 300 && status != http.StatusConflict {
		return 0, fmt.Errorf("register organizer: status %d", status)
	}

	payees := make([]string, len(s.Payees))
	for i, p := range s.Payees {
		payees[i] = p.String()
	}
	var ev registry.Event
	status, err = c.call(ctx, s.Organizer, "/v1/events", map[string]any{
		"name":         s.EventName,
		"date":         time.Now().Add(24 * time.Hour).Unix(),
		"ticket_price": s.TicketPrice,
		"payees":       payees,
	}, &ev)
	if err != nil {
		return 0, err
	}
	if status != http.StatusCreated {
		return 0, fmt.Errorf("schedule event: status %d", status)
	}

	for _, fan := range s.Fans {
		status, err := c.call(ctx, fan.Identity, "/v1/credits/deposit", map[string]any{"amount": fan.Budget}, nil)
		if err != nil {
			return 0, err
		}
		if status != http.StatusOK {
			return 0, fmt.Errorf("deposit for %s: status %d", fan.Label, status)
		}
	}
	return ev.ID, nil
}

type client struct {
	base string
	http *http.Client

	mu     sync.Mutex
	tokens map[registry.Identity]string
}

// call sends body as POST (GET when body is nil) on behalf of caller and
// decodes a successful response into out.
func (c *client) call(ctx context.Context, caller registry.Identity, path string, body, out any) (int, error) {
	method := http.MethodGet
	var payload []byte
	if body != nil {
		method = http.MethodPost
		payload, _ = json.Marshal(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if caller != "" {
		token, err := c.token(ctx, caller)
		if err != nil {
			return 0, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (c *client) token(ctx context.Context, id registry.Identity) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tokens[id]; ok {
		return t, nil
	}
	body, _ := json.Marshal(map[string]any{"identity": id.String()})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("token endpoint: %s", resp.Status)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("empty token returned")
	}
	c.tokens[id] = out.Token
	return out.Token, nil
}
