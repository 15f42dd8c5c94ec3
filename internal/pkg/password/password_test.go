package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("motdepasse123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !Verify("motdepasse123", hash) {
		t.Error("expected password to verify")
	}
	if Verify("autrechose", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestValidate(t *testing.T) {
	if Validate("court") {
		t.Error("7 chars or less should be rejected")
	}
	if !Validate("12345678") {
		t.Error("8 chars should be accepted")
	}
}

func TestTemporary(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := Temporary(12)
		if err != nil {
			t.Fatalf("temporary: %v", err)
		}
		if len(p) != 12 {
			t.Fatalf("expected 12 chars, got %d", len(p))
		}
		if seen[p] {
			t.Fatalf("duplicate temporary password: %s", p)
		}
		seen[p] = true
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	if a != b {
		t.Error("same token should hash identically")
	}
	if a == HashToken("other-token") {
		t.Error("different tokens should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
