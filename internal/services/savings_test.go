package services

import "testing"

func TestEstimateSavings(t *testing.T) {
	tests := []struct {
		name                      string
		beforeFlight, afterFlight float64
		beforeCar, afterCar       float64
		wantDistance, wantMoney   float64
	}{
		{name: "break even", beforeFlight: 1000, afterFlight: 800, beforeCar: 100, afterCar: 60, wantDistance: 240, wantMoney: 0},
		{name: "nothing changed", beforeFlight: 500, afterFlight: 500, beforeCar: 20, afterCar: 20, wantDistance: 0, wantMoney: -31},
		{name: "car only", beforeCar: 200, afterCar: 100, wantDistance: 100, wantMoney: 14},
		{name: "longer after", beforeFlight: 100, afterFlight: 300, wantDistance: -200, wantMoney: -44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateSavings(tt.beforeFlight, tt.afterFlight, tt.beforeCar, tt.afterCar)
			if diff := got.DistanceSavedKm - tt.wantDistance; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("distance saved: expected %.6f, got %.6f", tt.wantDistance, got.DistanceSavedKm)
			}
			if diff := got.MoneySaved - tt.wantMoney; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("money saved: expected %.6f, got %.6f", tt.wantMoney, got.MoneySaved)
			}
		})
	}
}
