package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/report"
)

func TestFormatEmptyList(t *testing.T) {
	assert.Equal(t, "", report.Format(nil))
}

func TestFormatDashesEntries(t *testing.T) {
	got := report.Format([]string{"Q1: bad thing", "Q2: other thing"})
	want := "Topology verification failed:\n- Q1: bad thing\n- Q2: other thing"
	assert.Equal(t, want, got)
}

func TestFormatForLLMCollapsesSameRef(t *testing.T) {
	errs := []string{
		"Q1: kelvin source should not be shorted to source net (SRC)",
		"Q1: gate pin G must be connected",
		"Q2: gate pin G must be connected",
	}
	got := report.FormatForLLM(errs)
	assert.Contains(t, got, "Fix Q1: kelvin source should not be shorted to source net (SRC); gate pin G must be connected")
	assert.Contains(t, got, "Fix Q2: gate pin G must be connected")
}

func TestFormatForLLMSeparatesHints(t *testing.T) {
	errs := []string{
		"U1: C_DIRECT(out_plus, mosfet_gate): shorted (same net CLMPI)",
		"Hint: UCC21710 CLMPI actively clamps OUTH/OUTL to GATE during off-state; this is expected and does not indicate a wiring short.",
	}
	got := report.FormatForLLM(errs)
	assert.Contains(t, got, "Hint: UCC21710 CLMPI")
}
