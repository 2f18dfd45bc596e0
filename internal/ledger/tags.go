// Package ledger holds the pure sparepart-ledger logic: the legacy remarks
// tag convention and the grouped stock summation over movement rows.
package ledger

import (
	"fmt"
	"strings"

	"go-helpdesk-api/internal/errs"
	"go-helpdesk-api/internal/model"
)

// The old dashboard kept all control state inside the free-text keterangan
// column as literal substrings. The live schema uses real columns now; this
// codec exists only to read (and reproduce, for round-trip checks) legacy
// dumps.
const (
	TagPending  = "[PENDING]"
	TagApproved = "[APPROVED]"
	TagIn       = "[MASUK]"
	TagOut      = "[KELUAR]"
)

// LegacyRemarks is the decoded form of one legacy keterangan value.
type LegacyRemarks struct {
	State     model.MovementState
	Direction model.MovementDirection
	Actor     string
	Note      string
}

// ParseRemarks decodes the substring convention. Tags are case sensitive,
// exactly as the old system matched them. A value carrying neither lifecycle
// tag is inconsistent: counting it either way would corrupt derived stock.
func ParseRemarks(text string) (LegacyRemarks, error) {
	var out LegacyRemarks

	switch {
	// [APPROVED] wins when both tags are present: approval rewrote
	// [PENDING] in place, so a row with both went through a partial edit.
	case strings.Contains(text, TagApproved):
		out.State = model.StateApproved
	case strings.Contains(text, TagPending):
		out.State = model.StatePending
	default:
		return LegacyRemarks{}, fmt.Errorf("parse remarks %q: %w", text, errs.ErrInconsistentState)
	}

	switch {
	case strings.Contains(text, TagIn):
		out.Direction = model.DirectionIn
	case strings.Contains(text, TagOut):
		out.Direction = model.DirectionOut
	}

	rest := text
	for _, tag := range []string{TagPending, TagApproved, TagIn, TagOut} {
		rest = strings.ReplaceAll(rest, tag, "")
	}
	rest = strings.TrimSpace(rest)

	if actor, note, ok := strings.Cut(rest, " - "); ok {
		out.Actor = strings.TrimSpace(actor)
		out.Note = strings.TrimSpace(note)
	} else {
		out.Note = rest
	}

	return out, nil
}

// ComposeRemarks renders the legacy convention: "[TAG] [DIR] actor - note".
func ComposeRemarks(r LegacyRemarks) string {
	var b strings.Builder

	if r.State == model.StateApproved {
		b.WriteString(TagApproved)
	} else {
		b.WriteString(TagPending)
	}

	switch r.Direction {
	case model.DirectionIn:
		b.WriteString(" " + TagIn)
	case model.DirectionOut:
		b.WriteString(" " + TagOut)
	}

	if r.Actor != "" {
		b.WriteString(" " + r.Actor)
	}
	if r.Note != "" {
		b.WriteString(" - " + r.Note)
	}
	return b.String()
}

// Approve rewrites a legacy remarks value in place, the way the old approve
// button did: a plain substring replace of [PENDING] with [APPROVED]. Running
// it twice is a no-op.
func Approve(text string) string {
	return strings.Replace(text, TagPending, TagApproved, 1)
}
