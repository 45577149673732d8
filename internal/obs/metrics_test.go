package obs

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                                        "/",
		"/metrics":                                                "/metrics",
		"/v1/events/12":                                           "/v1/events/:id",
		"/v1/events/12/settle":                                    "/v1/events/:id/settle",
		"/v1/balances/0x52908400098527886E0F7030069857D2E4169EE7": "/v1/balances/:identity",
		"/v1/works/Work1/metadata":                                "/v1/works/Work1/metadata",
		"/v1/payouts?limit=10":                                    "/v1/payouts",
		"/v1/collaboration-ids/3":                                 "/v1/collaboration-ids/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

func TestObserveOperationCounts(t *testing.T) {
	before := testutil.ToFloat64(registryOperations.WithLabelValues("mint_work", "ok"))
	ObserveOperation("mint_work", "ok", 3*time.Millisecond)
	ObserveOperation("mint_work", "ok", time.Millisecond)
	if got := testutil.ToFloat64(registryOperations.WithLabelValues("mint_work", "ok")); got != before+2 {
		t.Fatalf("registry_operations_total = %v, want %v", got, before+2)
	}
}

func TestSetReady(t *testing.T) {
	SetReady(true)
	if v := testutil.ToFloat64(ready); v != 1 {
		t.Fatalf("ready = %v", v)
	}
	SetReady(false)
	if v := testutil.ToFloat64(ready); v != 0 {
		t.Fatalf("ready = %v", v)
	}
}
