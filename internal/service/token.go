package service

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// Approved requests expose an opaque verification token (printed as a QR code
// by the clients) instead of the raw request id. The token is the base64 of
// the UUID bytes, matching the storage contract of the existing label printers.

// VerificationToken encodes a request id into its opaque token form.
func VerificationToken(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("parse request id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(u[:]), nil
}

// ParseVerificationToken decodes a token back into the request id.
func ParseVerificationToken(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", &ValidationError{Field: "token", Reason: "malformed verification token"}
	}
	u, err := uuid.FromBytes(raw)
	if err != nil {
		return "", &ValidationError{Field: "token", Reason: "malformed verification token"}
	}
	return u.String(), nil
}
