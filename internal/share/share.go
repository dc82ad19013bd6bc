// Package share encodes trips into self-contained share tokens and back.
// A token is the base64 form of a small JSON document, so a shared trip can be
// reopened without any server-side storage.
package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// token is the wire shape inside a share token. Short keys keep URLs short.
type token struct {
	Title       string           `json:"t"`
	Description string           `json:"d"`
	IDs         []domain.PlaceID `json:"ids"`
}

// Encode returns the URL-safe, unpadded token for p.
func Encode(p domain.SharePayload) string {
	ids := p.PlaceIDs
	if ids == nil {
		ids = []domain.PlaceID{}
	}
	// Marshal cannot fail: every field is a string or a PlaceID.
	raw, _ := json.Marshal(token{Title: p.Title, Description: p.Description, IDs: ids})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// EncodeTrip builds the payload for t and encodes it.
func EncodeTrip(t domain.Trip) string {
	return Encode(domain.SharePayload{
		Title:       t.Name,
		Description: t.Description,
		PlaceIDs:    t.PlaceIDs(),
	})
}

// Decode parses a token produced by Encode or by a browser btoa call.
// URL-safe and standard alphabets are accepted, padded or not.
// Every failure is reported as domain.ErrInvalidToken.
func Decode(s string) (domain.SharePayload, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.SharePayload{}, fmt.Errorf("share.Decode: empty token: %w", domain.ErrInvalidToken)
	}

	norm := strings.TrimRight(s, "=")
	norm = strings.NewReplacer("+", "-", "/", "_").Replace(norm)
	raw, err := base64.RawURLEncoding.DecodeString(norm)
	if err != nil {
		return domain.SharePayload{}, fmt.Errorf("share.Decode: %w: %w", domain.ErrInvalidToken, err)
	}

	var tok token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return domain.SharePayload{}, fmt.Errorf("share.Decode: %w: %w", domain.ErrInvalidToken, err)
	}
	ids := tok.IDs
	if ids == nil {
		ids = []domain.PlaceID{}
	}
	return domain.SharePayload{Title: tok.Title, Description: tok.Description, PlaceIDs: ids}, nil
}

// URL returns the public share link for tok under base.
func URL(base, tok string) string {
	return strings.TrimRight(base, "/") + "/share/" + tok
}
