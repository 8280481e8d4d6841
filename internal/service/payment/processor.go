package payment

import (
	"context"
	"math/rand"
	"time"

	"github.com/ovchar/trainbook/internal/domain"
)

// SimulatedProcessor approves charges with a fixed probability after a short
// delay, modeling a flaky downstream gateway. It never errors; a declined
// charge is a normal result, not a failure.
type SimulatedProcessor struct {
	successRate float64
	delay       time.Duration
}

func NewSimulatedProcessor(successRate float64, delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{successRate: successRate, delay: delay}
}

func (p *SimulatedProcessor) Charge(ctx context.Context, source domain.PaymentSource, amount float64, currency string) (bool, error) {
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	return rand.Float64() < p.successRate, nil
}

var _ Processor = (*SimulatedProcessor)(nil)
