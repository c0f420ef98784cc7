package token

import (
	"testing"
	"time"

	"caregate/internal/shared/authz"
)

func TestSignParseRoundTrip(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	raw, err := signer.Sign("user-1", authz.RoleProvider)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	actor, err := signer.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if actor.ID != "user-1" || actor.Role != authz.RoleProvider {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	signer := NewSigner("secret", time.Hour)

	foreign, err := NewSigner("other", time.Hour).Sign("user-1", authz.RolePatient)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := signer.Parse(foreign); err == nil {
		t.Fatal("expected foreign-secret token to be rejected")
	}

	expired, err := (&Signer{secret: []byte("secret"), ttl: -time.Minute}).Sign("user-1", authz.RolePatient)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := signer.Parse(expired); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	if _, err := signer.Parse("not.a.jwt"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}
