package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"entertablock.io/internal/registry"
	"entertablock.io/internal/registry/remote"
)

// Runs one royalty round trip against a live daemon. The daemon must share
// ENTERTABLOCK_AUTH_SECRET and use an unfunded payout primitive.
func main() {
	addr := os.Getenv("ENTERTABLOCK_GRPC_TARGET")
	if addr == "" {
		addr = "localhost:9090"
	}

	client, err := remote.Dial(addr)
	if err != nil {
		log.Fatalf("dial registry at %s: %v", addr, err)
	}
	defer client.Close()

	svc := remote.NewService(client, nil)

	ctx, cancel := remote.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	artist, partner, licensee := fresh(), fresh(), fresh()

	if _, err := svc.RegisterArtist(ctx, artist, registry.ArtistProfile{StageName: "smoke"}); err != nil {
		log.Fatalf("register artist: %v", err)
	}
	collab, err := svc.CreateCollaboration(ctx, artist, []registry.Identity{artist, partner})
	if err != nil {
		log.Fatalf("create collaboration: %v", err)
	}
	if _, err := svc.AddContribution(ctx, artist, collab.ID, 2); err != nil {
		log.Fatalf("contribute artist: %v", err)
	}
	if _, err := svc.AddContribution(ctx, partner, collab.ID, 1); err != nil {
		log.Fatalf("contribute partner: %v", err)
	}
	label := "smoke-" + artist.String()[2:10]
	work, err := svc.FinalizeCollaboration(ctx, artist, collab.ID, label)
	if err != nil {
		log.Fatalf("finalize: %v", err)
	}

	const payment = int64(1_000)
	if _, err := svc.Deposit(ctx, licensee, payment); err != nil {
		log.Fatalf("deposit: %v", err)
	}
	if _, err := svc.CreateUsageAgreement(ctx, licensee, label, artist, payment); err != nil {
		log.Fatalf("create agreement: %v", err)
	}
	if _, err := svc.ApproveUsageAgreement(ctx, artist, label, licensee); err != nil {
		log.Fatalf("approve agreement: %v", err)
	}
	pool, err := svc.RoyaltyPool(ctx, work.TokenID)
	if err != nil || pool != payment {
		log.Fatalf("royalty pool = %d, %v", pool, err)
	}
	dist, err := svc.DistributeRoyalties(ctx, artist, label)
	if err != nil {
		log.Fatalf("distribute: %v", err)
	}

	var total int64
	for _, share := range dist.Shares {
		total += share
	}
	if total != payment {
		log.Fatalf("royalty conservation failed: shares sum to %d, pool %d", total, payment)
	}
	partnerBal, err := svc.Balance(ctx, partner)
	if err != nil {
		log.Fatalf("balance partner: %v", err)
	}
	if partnerBal != payment/3 {
		log.Fatalf("unexpected partner balance %d", partnerBal)
	}
	out, err := svc.Withdraw(ctx, partner)
	if err != nil || out.Amount != partnerBal {
		log.Fatalf("withdraw partner = %+v, %v", out, err)
	}

	fmt.Printf("✅ registry smoke test passed: token=%d collaboration=%d\n", work.TokenID, collab.ID)
}

func fresh() registry.Identity {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		log.Fatalf("generate identity: %v", err)
	}
	return registry.Identity(ethcrypto.PubkeyToAddress(key.PublicKey).Hex())
}
