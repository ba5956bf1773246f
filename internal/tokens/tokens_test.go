package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/nutricoach/backend/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("test-secret-32-bytes-should-be-long", time.Minute)

	raw, err := iss.Issue(42, models.RolePatient)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := iss.Verify(raw)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected subject: got=%d want=42", claims.UserID)
	}
	if claims.Role != models.RolePatient {
		t.Fatalf("unexpected role: got=%v", claims.Role)
	}
}

func TestVerify_Expired(t *testing.T) {
	iss := NewIssuer("another-secret-32-bytes-longgggggg", -time.Minute)
	raw, err := iss.Issue(1, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := iss.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	iss := NewIssuer("secret-one-32-bytes-xxxxxxxxxxxxxx", time.Minute)
	raw, err := iss.Issue(7, models.RoleNutritionist)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	other := NewIssuer("different-secret-xxxxxxxxxxxxxxxxx", time.Minute)
	if _, err := other.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	iss := NewIssuer("x", time.Minute)
	if _, err := iss.Verify("not.a.jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	enc := base64.RawURLEncoding
	raw := enc.EncodeToString([]byte(`{"alg":"none"}`)) + "." +
		enc.EncodeToString([]byte(`{"sub":"1","role":"admin","exp":9999999999}`)) + "."

	iss := NewIssuer("x", time.Minute)
	if _, err := iss.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none token, got %v", err)
	}
}

func TestVerify_TamperedRoleRejected(t *testing.T) {
	iss := NewIssuer("tamper-test-secret-32-bytes-xxxxxx", time.Minute)
	raw, err := iss.Issue(9, models.RolePatient)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	parts[1] = enc.EncodeToString([]byte(strings.Replace(string(payload), "patient", "admin", 1)))
	if _, err := iss.Verify(strings.Join(parts, ".")); err != ErrInvalidToken {
		t.Fatalf("expected signature verification to fail for tampered token, got %v", err)
	}
}
