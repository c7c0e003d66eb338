package services

import "itinerary-optimizer-service/internal/domain"

// Linear cost model mapping kilometers saved per mode to money saved.
// The coefficients are tuning constants, not derived at runtime.
const (
	SavingsIntercept     = -31.0
	FlightCostPerKmCoeff = 0.065
	CarCostPerKmCoeff    = 0.45
)

// EstimateSavings compares totals before and after reordering.
// Negative values mean the new order is longer; they are reported as-is.
func EstimateSavings(beforeFlightKm, afterFlightKm, beforeCarKm, afterCarKm float64) domain.SavingsEstimate {
	flightKmSaved := beforeFlightKm - afterFlightKm
	carKmSaved := beforeCarKm - afterCarKm

	return domain.SavingsEstimate{
		DistanceSavedKm: flightKmSaved + carKmSaved,
		MoneySaved:      MoneySaved(flightKmSaved, carKmSaved),
	}
}

func MoneySaved(flightKmSaved, carKmSaved float64) float64 {
	return SavingsIntercept + FlightCostPerKmCoeff*flightKmSaved + CarCostPerKmCoeff*carKmSaved
}
