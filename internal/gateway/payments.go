package gateway

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// SimulatedPayments approves every positive charge with a generated reference.
type SimulatedPayments struct {
	sim *Simulator
}

// NewSimulatedPayments wires the payment collaborator.
func NewSimulatedPayments(sim *Simulator) *SimulatedPayments {
	return &SimulatedPayments{sim: sim}
}

func (p *SimulatedPayments) Charge(ctx context.Context, jobID string, amount float64) (string, error) {
	if amount <= 0 {
		return "", apperrors.NewValidationError("validation failed", map[string]any{
			"amount": "Amount must be greater than zero",
		})
	}
	if err := p.sim.call(ctx, OpCharge); err != nil {
		return "", err
	}
	return "ch_" + jobID + "_" + uuid.NewString()[:8], nil
}
