package main

import (
	"context"
	"strings"
	"testing"

	"entertablock.io/internal/config"
	"entertablock.io/internal/registry"
)

func TestPayoutSetupRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"operator", config.Config{Operator: "not-an-address"}, "operator"},
		{"wallet key", config.Config{PayoutWallets: map[string]int64{"nope": 5}}, "payout wallets"},
		{"wallet amount", config.Config{PayoutWallets: map[string]int64{"0x00000000000000000000000000000000000000a1": -1}}, "payout wallets"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := payoutSetup(tc.cfg); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q error, got %v", tc.want, err)
			}
		})
	}
}

func TestPayoutSetupFundsConfiguredWallets(t *testing.T) {
	alice := registry.MustIdentity("0x00000000000000000000000000000000000000a1")
	operator, payouts, err := payoutSetup(config.Config{
		Operator:      alice.String(),
		PayoutWallets: map[string]int64{alice.String(): 50},
	})
	if err != nil {
		t.Fatalf("payoutSetup: %v", err)
	}
	if operator != alice {
		t.Fatalf("unexpected operator %s", operator)
	}
	if got := payouts.Wallet(context.Background(), alice); got != 50 {
		t.Fatalf("wallet = %d, want 50", got)
	}

	operator, payouts, err = payoutSetup(config.Config{})
	if err != nil || operator != "" {
		t.Fatalf("empty config: %q, %v", operator, err)
	}
	if err := payouts.Receive(context.Background(), alice, 10); err != nil {
		t.Fatalf("unfunded primitive should accept deposits: %v", err)
	}
}
