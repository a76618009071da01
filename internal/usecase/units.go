package usecase

import (
	"fmt"
	"strings"

	"github.com/menucost/backend/internal/domain"
)

// unitFamily groups units that can be converted among themselves.
type unitFamily int

const (
	familyMass unitFamily = iota
	familyVolume
	familyCount
)

// unitEntry maps a unit token to its family and its factor relative to the
// family's base unit (g, ml, or one whole unit).
type unitEntry struct {
	family unitFamily
	factor float64
}

// unitTable holds the known units of measure. Count units include the
// recipe-specific ones (dente, colher) that legacy recipes carry; they all
// convert 1:1 among themselves.
var unitTable = map[string]unitEntry{
	// mass
	"g":  {familyMass, 1},
	"gr": {familyMass, 1},
	"kg": {familyMass, 1000},
	// volume
	"ml": {familyVolume, 1},
	"l":  {familyVolume, 1000},
	"lt": {familyVolume, 1000},
	// count / whole units
	"un":      {familyCount, 1},
	"unid":    {familyCount, 1},
	"unidade": {familyCount, 1},
	"pc":      {familyCount, 1},
	"pç":      {familyCount, 1},
	"peca":    {familyCount, 1},
	"peça":    {familyCount, 1},
	"cx":      {familyCount, 1},
	"caixa":   {familyCount, 1},
	"dente":   {familyCount, 1},
	"colher":  {familyCount, 1},
}

// normalizeUnit lowercases and trims a unit token for lookup.
func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// ConvertUnit converts a quantity between units of the same family using
// exact fixed multipliers; rounding to whole packages happens later in the
// cost pipeline. Identical tokens convert to themselves even when the unit
// is not in the table. Cross-family or unrecognized conversions return an
// error and the caller skips that candidate offer.
func ConvertUnit(quantity float64, fromUnit, toUnit string) (float64, error) {
	from := normalizeUnit(fromUnit)
	to := normalizeUnit(toUnit)

	if from == to {
		return quantity, nil
	}

	fromEntry, ok := unitTable[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, fromUnit)
	}
	toEntry, ok := unitTable[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, toUnit)
	}

	if fromEntry.family != toEntry.family {
		return 0, fmt.Errorf("%w: %q -> %q", domain.ErrIncompatibleUnits, fromUnit, toUnit)
	}

	return quantity * fromEntry.factor / toEntry.factor, nil
}
