package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/audioryx/backend/internal/models"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", "audioryx-test")
}

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	tm := newTestManager()
	identity := models.Identity{ID: 42, Email: "a@x.com"}

	token, err := tm.Issue(identity, RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.IdentityID != 42 {
		t.Fatalf("identity id = %d, want 42", claims.IdentityID)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.Role != RoleUser {
		t.Fatalf("role = %q, want %q", claims.Role, RoleUser)
	}
}

func TestEmployeeTokenCarriesRole(t *testing.T) {
	tm := newTestManager()
	employee := models.Identity{ID: 0, Email: "ops@audioryx.io"}

	token, err := tm.Issue(employee, RoleEmployee)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.IdentityID != 0 || claims.Role != RoleEmployee {
		t.Fatalf("claims = %+v, want id 0 role employee", claims)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := newTestManager()
	token, err := tm.issueWithTTL(models.Identity{ID: 1, Email: "a@x.com"}, RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("verify expired token err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := newTestManager().Issue(models.Identity{ID: 1, Email: "a@x.com"}, RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokenManager("different-secret", "audioryx-test")
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("verify with wrong secret err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tm := newTestManager()
	token, err := tm.Issue(models.Identity{ID: 1, Email: "a@x.com"}, RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := tm.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("verify tampered token err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	if _, err := newTestManager().Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("verify empty token err = %v, want ErrMissingToken", err)
	}
}
