package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CalibrationToken binds a generated puzzle's id back to the calibration
// inputs that produced it, so a later /api/puzzle/:id lookup can be
// authenticated without a server-side session store.
type CalibrationToken struct {
	PuzzleID  string    `json:"puzzle_id"`
	Seed      int64     `json:"seed"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// sign returns the base64-encoded HMAC-SHA256 of encodedPayload under secret.
func sign(secret, encodedPayload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func createToken(secret string, tok CalibrationToken) (string, error) {
	payload, err := json.Marshal(tok)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return fmt.Sprintf("%s.%s", encoded, sign(secret, encoded)), nil
}

func verifyToken(secret, token string) (*CalibrationToken, error) {
	encoded, sig, found := strings.Cut(token, ".")
	if !found {
		return nil, fmt.Errorf("invalid token format")
	}

	// Constant-time comparison to prevent timing attacks on the signature.
	if subtle.ConstantTimeCompare([]byte(sig), []byte(sign(secret, encoded))) != 1 {
		return nil, fmt.Errorf("invalid signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	var tok CalibrationToken
	if err := json.Unmarshal(payload, &tok); err != nil {
		return nil, err
	}

	if time.Now().After(tok.ExpiresAt) {
		return nil, fmt.Errorf("token expired")
	}

	return &tok, nil
}
