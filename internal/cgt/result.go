package cgt

import (
	"errors"

	"github.com/mdrysdale/cgtcalc/internal/matching"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

// Errors reported by the gains computation.
var (
	ErrPositiveLosses      = errors.New("carried capital losses cannot be positive")
	ErrUnsupportedCategory = errors.New("asset category not implemented")
)

// Lot is the matched-lot shape the gains engine consumes.
type Lot = matching.Lot[types.TranslatedTrade]

// CapitalGains is the taxable outcome of one matched lot: the gain after
// loss netting and any discount, the loss balance carried forward to the
// next lot (always <= 0), and the pro-rata commission shares applied on each
// side.
type CapitalGains struct {
	ID             string
	Lot            Lot
	TaxableGain    float64
	CarriedLosses  float64
	BuyCommission  float64
	SellCommission float64
}

// Method computes the taxable gain for a single matched lot given the signed
// loss balance carried into it.
type Method interface {
	TaxableGain(carriedLosses float64, lot Lot) (CapitalGains, error)
}
