package ledger

import "go-helpdesk-api/internal/model"

// InferDirection classifies a signed legacy quantity. Old rows whose remarks
// carry no [MASUK]/[KELUAR] tag still stored the signed delta, so the sign
// is authoritative: negative means outbound.
func InferDirection(qty int) model.MovementDirection {
	if qty < 0 {
		return model.DirectionOut
	}
	return model.DirectionIn
}

// SignedQuantity normalizes a form quantity (always entered positive) into
// the signed delta the ledger stores: IN stays positive, OUT flips negative.
func SignedQuantity(direction model.MovementDirection, qty int) int {
	if qty < 0 {
		qty = -qty
	}
	if direction == model.DirectionOut {
		return -qty
	}
	return qty
}

// Sum derives on-hand stock per part key by summing the signed deltas of
// approved movements. Pending rows are excluded; this is the invariant the
// whole ledger rests on. The SQL aggregation in the repository computes the
// same thing server-side; this in-memory form backs the legacy import
// verification and keeps the rule testable without a database.
func Sum(movements []model.Movement) map[model.PartKey]int {
	totals := make(map[model.PartKey]int)
	for i := range movements {
		m := &movements[i]
		if m.State != model.StateApproved {
			continue
		}
		totals[m.Key()] += m.Quantity
	}
	return totals
}
