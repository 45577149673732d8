package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"entertablock.io/internal/registry"
)

// ErrInvalidSignature indicates a login challenge could not be verified.
var ErrInvalidSignature = errors.New("invalid signature")

// ChallengeMessage is the text a wallet signs to prove it controls id.
func ChallengeMessage(id registry.Identity, issuedAt time.Time) string {
	return fmt.Sprintf("entertablock login %s %d", id, issuedAt.Unix())
}

// VerifyChallenge checks a personal_sign signature over
// ChallengeMessage(id, issuedAt). issuedAt must lie within window of now.
func VerifyChallenge(id registry.Identity, issuedAt, now time.Time, window time.Duration, signature string) error {
	if d := now.Sub(issuedAt); d > window || d < -window {
		return fmt.Errorf("%w: challenge expired", ErrInvalidSignature)
	}
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(sig) != 65 {
		return fmt.Errorf("%w: signature must be 65 bytes", ErrInvalidSignature)
	}
	// Wallets emit v as 27/28.
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	digest := accounts.TextHash([]byte(ChallengeMessage(id, issuedAt)))
	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if ethcrypto.PubkeyToAddress(*pub).Hex() != id.String() {
		return fmt.Errorf("%w: signature does not match identity", ErrInvalidSignature)
	}
	return nil
}
