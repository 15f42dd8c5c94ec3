package ident

import (
	"regexp"
	"testing"
)

var numberPattern = regexp.MustCompile(`^(PRO|CONT)-\d{13,}-\d{1,3}$`)

func TestProformaNumberFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := ProformaNumber()
		if !numberPattern.MatchString(n) {
			t.Fatalf("bad proforma number: %s", n)
		}
	}
}

func TestContractNumberFormat(t *testing.T) {
	n := ContractNumber()
	if !numberPattern.MatchString(n) {
		t.Fatalf("bad contract number: %s", n)
	}
	if n[:5] != "CONT-" {
		t.Fatalf("expected CONT- prefix, got %s", n)
	}
}
