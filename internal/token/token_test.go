package token

import (
	"strings"
	"testing"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	Init("test-secret")

	signed, err := Generate("drv-1", "driver")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	identity, err := Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "drv-1" || identity.Role != "driver" {
		t.Errorf("identity = %+v, want drv-1/driver", identity)
	}
}

func TestVerify_RejectsMalformedToken(t *testing.T) {
	Init("test-secret")
	if _, err := Verify("not-a-token"); err == nil {
		t.Error("malformed token accepted")
	}
}

func TestVerify_RejectsWrongKey(t *testing.T) {
	Init("first-secret")
	signed, err := Generate("drv-1", "driver")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	Init("other-secret")
	if _, err := Verify(signed); err == nil {
		t.Error("token signed with a different key accepted")
	}
}

func TestVerify_RejectsTamperedToken(t *testing.T) {
	Init("test-secret")
	signed, err := Generate("drv-1", "driver")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + "X." + parts[2]
	if _, err := Verify(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}
