// Package allocation converts optimized target weights into whole-lot share
// purchases within the available capital.
package allocation

import (
	"math"

	"github.com/rs/zerolog"
)

// LotSize is the exchange's round-lot size: shares trade in multiples of it.
const LotSize = 100

// Position is one allocation input: a ticker's optimized target weight and
// its latest price per share.
type Position struct {
	Ticker string
	Weight float64
	Price  float64
}

// Line is one allocated holding. InvestedCapital is Lots×LotSize×Price and
// ActualWeight is its share of the total invested capital.
type Line struct {
	Ticker          string
	TargetWeight    float64
	Price           float64
	Lots            int
	InvestedCapital float64
	ActualWeight    float64
}

// Plan is the full lot allocation. PercentValid is false when the requested
// capital was zero, in which case PercentInvested is meaningless.
type Plan struct {
	Lines           []Line
	TotalInvested   float64
	UnallocatedCash float64
	PercentInvested float64
	PercentValid    bool
}

// Allocator floors target weights to whole lots.
type Allocator struct {
	log zerolog.Logger
}

// NewAllocator creates a new lot allocator.
func NewAllocator(log zerolog.Logger) *Allocator {
	return &Allocator{
		log: log.With().Str("component", "allocation").Logger(),
	}
}

// Allocate computes floor((capital×weight)/(LotSize×price)) lots per
// position, dropping zero-lot positions. The plan preserves input order.
// Positions with a non-positive price are skipped.
func (a *Allocator) Allocate(capital float64, positions []Position) Plan {
	plan := Plan{PercentValid: capital > 0}

	for _, pos := range positions {
		if pos.Price <= 0 {
			continue
		}
		lots := int(math.Floor(capital * pos.Weight / (LotSize * pos.Price)))
		if lots <= 0 {
			continue
		}
		invested := float64(lots) * LotSize * pos.Price
		plan.Lines = append(plan.Lines, Line{
			Ticker:          pos.Ticker,
			TargetWeight:    pos.Weight,
			Price:           pos.Price,
			Lots:            lots,
			InvestedCapital: invested,
		})
		plan.TotalInvested += invested
	}

	for i := range plan.Lines {
		if plan.TotalInvested > 0 {
			plan.Lines[i].ActualWeight = plan.Lines[i].InvestedCapital / plan.TotalInvested
		}
	}

	plan.UnallocatedCash = capital - plan.TotalInvested
	if plan.PercentValid {
		plan.PercentInvested = plan.TotalInvested / capital
	}

	a.log.Debug().
		Float64("capital", capital).
		Float64("invested", plan.TotalInvested).
		Int("positions", len(plan.Lines)).
		Msg("Allocated lots")

	return plan
}
