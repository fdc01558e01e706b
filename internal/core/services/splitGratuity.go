package services

import (
	"brew-and-board/internal/core/domain"

	"github.com/shopspring/decimal"
)

const (
	smallTipThreshold = 500  // below this everything stays internal
	driverTipFloor    = 500  // cents
	driverTipCeiling  = 1500 // cents
)

// SplitGratuity apportions a gratuity (minor units) between the delivery
// worker and the platform. Tips under $5 are not dispatch-worthy as a
// separate driver incentive and are retained in full. The two shares always
// sum to the input exactly.
func SplitGratuity(amountMinorUnits int64) domain.GratuitySplit {
	if amountMinorUnits < 0 {
		amountMinorUnits = 0
	}
	if amountMinorUnits < smallTipThreshold {
		return domain.GratuitySplit{DriverTip: 0, InternalTip: amountMinorUnits}
	}

	driver := decimal.NewFromInt(amountMinorUnits).
		Mul(decimal.NewFromFloat(0.25)).
		Round(0).
		IntPart()
	if driver < driverTipFloor {
		driver = driverTipFloor
	}
	if driver > driverTipCeiling {
		driver = driverTipCeiling
	}

	return domain.GratuitySplit{DriverTip: driver, InternalTip: amountMinorUnits - driver}
}
