package inventory

import (
	"fmt"
	"sync"
	"time"

	"github.com/growops/backend/internal/domain/catalog"
)

// lotPrefixes is the single source of truth for category prefixes in
// generated lot numbers. Handlers and services must not carry their
// own copies of this mapping.
var lotPrefixes = map[catalog.ProductCategory]string{
	catalog.CategorySeed:          "SD",
	catalog.CategoryClone:         "CL",
	catalog.CategorySeedling:      "SL",
	catalog.CategoryPlant:         "PL",
	catalog.CategoryPlantMaterial: "PM",
	catalog.CategoryNutrient:      "NT",
	catalog.CategorySupply:        "SP",
}

const lotPrefixDefault = "GN"

// LotPrefixFor returns the lot number prefix for a product category.
// Unknown categories get a generic prefix rather than an error so that
// receipt of a newly added category never fails on numbering.
func LotPrefixFor(category catalog.ProductCategory) string {
	if p, ok := lotPrefixes[category]; ok {
		return p
	}
	return lotPrefixDefault
}

// LotNumberGenerator produces internal lot codes of the form
// PREFIX-YYYYMMDD-NNNN. The sequence restarts per prefix and day.
type LotNumberGenerator struct {
	mu        sync.Mutex
	now       func() time.Time
	sequences map[string]int
}

// NewLotNumberGenerator creates a generator using wall clock time
func NewLotNumberGenerator() *LotNumberGenerator {
	return &LotNumberGenerator{
		now:       time.Now,
		sequences: make(map[string]int),
	}
}

// NewLotNumberGeneratorAt creates a generator with an injected clock
func NewLotNumberGeneratorAt(now func() time.Time) *LotNumberGenerator {
	return &LotNumberGenerator{
		now:       now,
		sequences: make(map[string]int),
	}
}

// Next returns the next lot number for a product category
func (g *LotNumberGenerator) Next(category catalog.ProductCategory) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	prefix := LotPrefixFor(category)
	day := g.now().Format("20060102")
	key := prefix + "-" + day

	g.sequences[key]++
	return fmt.Sprintf("%s-%s-%04d", prefix, day, g.sequences[key])
}
