package cert_test

import (
	"regexp"
	"testing"

	"github.com/ativbrasil/arsenal/internal/cert"
)

func TestNewCodeFormat(t *testing.T) {
	issue := regexp.MustCompile(`^ATIV-[A-Z0-9]{8}$`)
	quick := regexp.MustCompile(`^ATIV-[A-Z0-9]{6}$`)

	c8, err := cert.NewCode(cert.IssueCodeLen)
	if err != nil {
		t.Fatal(err)
	}
	if !issue.MatchString(c8) {
		t.Errorf("issuance code %q does not match format", c8)
	}
	c6, err := cert.NewCode(cert.QuickCodeLen)
	if err != nil {
		t.Fatal(err)
	}
	if !quick.MatchString(c6) {
		t.Errorf("quick-link code %q does not match format", c6)
	}
}

func TestNewCodeUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		c, err := cert.NewCode(cert.IssueCodeLen)
		if err != nil {
			t.Fatal(err)
		}
		if seen[c] {
			t.Fatalf("duplicate code after %d draws: %s", i, c)
		}
		seen[c] = true
	}
}
