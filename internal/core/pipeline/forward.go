package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/prodline/internal/core/stage"
)

// ForwardPlan is the computed effect of a conserved quantity transfer.
// Sets holds every field write of the transfer; GuardField/GuardValue name
// the originating quantity field and the value it held when the plan was
// computed, so the store can reject the write if a concurrent mutation got
// there first.
type ForwardPlan struct {
	Sets       map[string]string
	GuardField string
	GuardValue string
}

// ForwardInput describes one forward request against a record snapshot.
// FromQuantityField and ToQuantityField are already-resolved qualified
// names on the same schema.
type ForwardInput struct {
	From              string
	FromQuantityField string
	To                string
	ToQuantityField   string
	Amount            int
	Operator          string
}

// PlanForward validates a forward request against the snapshot and returns
// the write plan. The transfer conserves quantity: the originating field
// loses exactly what the destination gains, in one write. The originating
// stage is marked done and stamped with the acting operator.
func PlanForward(snap Snapshot, in ForwardInput) (ForwardPlan, error) {
	if !stage.Known(in.From) || !stage.Known(in.To) {
		return ForwardPlan{}, fmt.Errorf("unknown stage in forward: %s -> %s", in.From, in.To)
	}
	if !stage.Before(in.From, in.To) {
		return ForwardPlan{}, fmt.Errorf("forward must move strictly forward: %s -> %s", in.From, in.To)
	}
	if in.Amount < 0 {
		return ForwardPlan{}, fmt.Errorf("forward amount must not be negative: %d", in.Amount)
	}

	// The amount is validated against the current quantity before the
	// boundary rule, so an over-ask reports what the originating stage
	// actually holds.
	raw := snap.Values[in.FromQuantityField]
	current, err := ParseQuantity(raw)
	if err != nil {
		return ForwardPlan{}, fmt.Errorf("quantity field %s holds %q: %w", in.FromQuantityField, raw, err)
	}
	if in.Amount > current {
		return ForwardPlan{}, &InsufficientQuantityError{
			Field:     in.FromQuantityField,
			Current:   current,
			Requested: in.Amount,
		}
	}

	// Automatic propagation never crosses the production QC boundary.
	if stage.PreQC(in.From) != stage.PreQC(in.To) {
		return ForwardPlan{}, &CrossSchemaForwardError{From: in.From, To: in.To}
	}

	next, err := ParseQuantity(snap.Values[in.ToQuantityField])
	if err != nil {
		return ForwardPlan{}, fmt.Errorf("quantity field %s holds %q: %w", in.ToQuantityField, snap.Values[in.ToQuantityField], err)
	}

	return ForwardPlan{
		Sets: map[string]string{
			in.FromQuantityField:       strconv.Itoa(current - in.Amount),
			in.ToQuantityField:         strconv.Itoa(next + in.Amount),
			stage.DoneField(in.From):   "1",
			stage.DoneByField(in.From): in.Operator,
		},
		GuardField: in.FromQuantityField,
		GuardValue: raw,
	}, nil
}

// ParseQuantity reads a stored quantity value. Quantity fields are plain
// text fields; an empty value counts as zero.
func ParseQuantity(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("not a whole number")
	}
	return n, nil
}
