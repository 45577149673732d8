package httpapi

import (
	"net/http"
	"strings"
	"time"

	"entertablock.io/internal/audit"
	"entertablock.io/internal/auth"
	"entertablock.io/internal/registry"
)

type challengeResponse struct {
	Identity  registry.Identity `json:"identity"`
	Message   string            `json:"message"`
	IssuedAt  int64             `json:"issued_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type tokenRequest struct {
	Identity  string   `json:"identity"`
	IssuedAt  int64    `json:"issued_at,omitempty"`
	Signature string   `json:"signature,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

type tokenResponse struct {
	Token     string            `json:"token"`
	Identity  registry.Identity `json:"identity"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// handleAuthChallenge returns the message a wallet signs to log in.
func (a *API) handleAuthChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := registry.ParseIdentity(r.URL.Query().Get("identity"))
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	now := a.now().UTC().Truncate(time.Second)
	writeJSON(w, http.StatusOK, challengeResponse{
		Identity:  id,
		Message:   auth.ChallengeMessage(id, now),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(a.challengeWindow),
	})
}

// handleAuthToken exchanges a signed challenge for a bearer token. With dev
// tokens enabled the signature may be omitted and roles requested freely.
func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	id, err := registry.ParseIdentity(req.Identity)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}

	var roles []string
	switch {
	case strings.TrimSpace(req.Signature) != "":
		issued := time.Unix(req.IssuedAt, 0)
		if err := auth.VerifyChallenge(id, issued, a.now(), a.challengeWindow, req.Signature); err != nil {
			unauthorized(w, r, err.Error())
			return
		}
		if !a.operator.IsZero() && id == a.operator {
			roles = []string{auth.RoleOperator}
		}
	case a.devTokens:
		roles = req.Roles
	default:
		writeError(w, r, http.StatusBadRequest, "signature is required")
		return
	}

	token, err := auth.GenerateToken(id, roles, a.tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"identity":   id.String(),
		"roles":      roles,
		"signed":     req.Signature != "",
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		Identity:  id,
		ExpiresAt: expiresAt,
	})
}
