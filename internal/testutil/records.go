package testutil

import (
	"testing"

	"github.com/roach88/execdash/internal/records"
)

// Payloads holds the decoded fixture payloads.
type Payloads struct {
	Financial *records.FinancialPayload
	HR        *records.HRPayload
	RND       *records.RNDPayload
	Security  *records.SecurityPayload
}

// DecodeFixtures decodes the fixture payloads with strict validation and
// fails the test on any error.
func DecodeFixtures(t testing.TB) Payloads {
	t.Helper()
	var (
		p   Payloads
		err error
	)
	opts := records.DecodeOptions{}

	if p.Financial, err = records.DecodeFinancial([]byte(FinancialJSON), opts); err != nil {
		t.Fatalf("decoding financial fixture: %v", err)
	}
	if p.HR, err = records.DecodeHR([]byte(HRJSON), opts); err != nil {
		t.Fatalf("decoding hr fixture: %v", err)
	}
	if p.RND, err = records.DecodeRND([]byte(RNDJSON), opts); err != nil {
		t.Fatalf("decoding rnd fixture: %v", err)
	}
	if p.Security, err = records.DecodeSecurity([]byte(SecurityJSON), opts); err != nil {
		t.Fatalf("decoding security fixture: %v", err)
	}
	return p
}
