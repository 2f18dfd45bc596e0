package ledger

import (
	"errors"
	"testing"

	"go-helpdesk-api/internal/errs"
	"go-helpdesk-api/internal/model"
)

func TestParseRemarks(t *testing.T) {
	cases := []struct {
		name string
		text string
		want LegacyRemarks
	}{
		{
			name: "pending inbound with actor and note",
			text: "[PENDING] [MASUK] tech1 - restock gudang",
			want: LegacyRemarks{State: model.StatePending, Direction: model.DirectionIn, Actor: "tech1", Note: "restock gudang"},
		},
		{
			name: "approved outbound",
			text: "[APPROVED] [KELUAR] tech2 - issued to branch X",
			want: LegacyRemarks{State: model.StateApproved, Direction: model.DirectionOut, Actor: "tech2", Note: "issued to branch X"},
		},
		{
			name: "no direction tag",
			text: "[PENDING] stok opname",
			want: LegacyRemarks{State: model.StatePending, Note: "stok opname"},
		},
		{
			name: "approved wins over leftover pending tag",
			text: "[APPROVED] [PENDING] [MASUK] tech1 - double tagged",
			want: LegacyRemarks{State: model.StateApproved, Direction: model.DirectionIn, Actor: "tech1", Note: "double tagged"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRemarks(tc.text)
			if err != nil {
				t.Fatalf("ParseRemarks(%q): %v", tc.text, err)
			}
			if got != tc.want {
				t.Errorf("ParseRemarks(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseRemarksUntagged(t *testing.T) {
	_, err := ParseRemarks("restock 10 pcs oleh tech1")
	if !errors.Is(err, errs.ErrInconsistentState) {
		t.Errorf("untagged remarks should fail with ErrInconsistentState, got %v", err)
	}
}

func TestParseRemarksIsCaseSensitive(t *testing.T) {
	// The old system matched tags case-sensitively; lowercase must not count.
	_, err := ParseRemarks("[pending] [masuk] tech1 - restock")
	if !errors.Is(err, errs.ErrInconsistentState) {
		t.Errorf("lowercase tags should not match, got %v", err)
	}
}

func TestComposeParseRoundTrip(t *testing.T) {
	orig := LegacyRemarks{
		State:     model.StatePending,
		Direction: model.DirectionOut,
		Actor:     "tech2",
		Note:      "issued to branch X",
	}
	got, err := ParseRemarks(ComposeRemarks(orig))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if got != orig {
		t.Errorf("round trip = %+v, want %+v", got, orig)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	text := ComposeRemarks(LegacyRemarks{State: model.StatePending, Direction: model.DirectionIn, Actor: "tech1", Note: "restock"})

	once := Approve(text)
	twice := Approve(once)
	if once != twice {
		t.Errorf("second approve changed the text: %q vs %q", once, twice)
	}

	parsed, err := ParseRemarks(twice)
	if err != nil {
		t.Fatalf("parse approved: %v", err)
	}
	if parsed.State != model.StateApproved {
		t.Errorf("state after approve = %s, want APPROVED", parsed.State)
	}
}
