package usecase

import (
	"errors"
	"math"
	"testing"

	"github.com/menucost/backend/internal/domain"
)

func TestConvertUnit(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		from     string
		to       string
		want     float64
		wantErr  error
	}{
		{name: "same unit returns unchanged", quantity: 42.5, from: "KG", to: "kg", want: 42.5},
		{name: "same unknown unit returns unchanged", quantity: 3, from: "fardo", to: "FARDO ", want: 3},
		{name: "grams to kilograms", quantity: 2500, from: "G", to: "KG", want: 2.5},
		{name: "kilograms to grams", quantity: 1.2, from: "kg", to: "g", want: 1200},
		{name: "milliliters to liters", quantity: 750, from: "ML", to: "L", want: 0.75},
		{name: "liters to milliliters", quantity: 2, from: "l", to: "ml", want: 2000},
		{name: "count units convert 1:1", quantity: 12, from: "UN", to: "unidade", want: 12},
		{name: "recipe count units convert 1:1", quantity: 4, from: "dente", to: "un", want: 4},
		{name: "caixa to peça", quantity: 2, from: "caixa", to: "peça", want: 2},
		{name: "mass to volume fails", quantity: 100, from: "g", to: "ml", wantErr: domain.ErrIncompatibleUnits},
		{name: "mass to count fails", quantity: 100, from: "kg", to: "un", wantErr: domain.ErrIncompatibleUnits},
		{name: "unknown source unit fails", quantity: 1, from: "arroba", to: "kg", wantErr: domain.ErrUnknownUnit},
		{name: "unknown target unit fails", quantity: 1, from: "kg", to: "arroba", wantErr: domain.ErrUnknownUnit},
		{name: "whitespace and case are ignored", quantity: 500, from: " g ", to: "Kg", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertUnit(tt.quantity, tt.from, tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ConvertUnit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConvertUnit() unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ConvertUnit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertUnitRoundTrip(t *testing.T) {
	pairs := []struct{ a, b string }{
		{"g", "kg"},
		{"ml", "l"},
		{"un", "caixa"},
	}
	quantities := []float64{0.001, 1, 3.37, 250, 99999.5}

	for _, pair := range pairs {
		for _, q := range quantities {
			forward, err := ConvertUnit(q, pair.a, pair.b)
			if err != nil {
				t.Fatalf("ConvertUnit(%v, %s, %s) error: %v", q, pair.a, pair.b, err)
			}
			back, err := ConvertUnit(forward, pair.b, pair.a)
			if err != nil {
				t.Fatalf("ConvertUnit(%v, %s, %s) error: %v", forward, pair.b, pair.a, err)
			}
			if math.Abs(back-q) > 1e-9*math.Max(1, q) {
				t.Errorf("round trip %s<->%s for %v gave %v", pair.a, pair.b, q, back)
			}
		}
	}
}
