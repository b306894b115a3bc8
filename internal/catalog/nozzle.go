package catalog

import "fmt"

// TipMaterial identifies what a nozzle tip is made of.
type TipMaterial string

const (
	TipBrass           TipMaterial = "brass"
	TipHardenedSteel   TipMaterial = "hardened_steel"
	TipRuby            TipMaterial = "ruby"
	TipTungstenCarbide TipMaterial = "tungsten_carbide"
)

// TipMaterials lists the accepted tip materials in a stable order.
var TipMaterials = []TipMaterial{TipBrass, TipHardenedSteel, TipRuby, TipTungstenCarbide}

// ParseTipMaterial maps a stored tip string to its TipMaterial value.
func ParseTipMaterial(s string) (TipMaterial, error) {
	for _, tip := range TipMaterials {
		if string(tip) == s {
			return tip, nil
		}
	}
	return "", fmt.Errorf("unknown nozzle tip material %q", s)
}

// Diameters is the fixed set of orifice diameters sold for the supported
// hotends, in millimeters.
var Diameters = []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.8, 1.0, 1.2}

// ValidDiameter reports whether d is a member of the fixed diameter set.
func ValidDiameter(d float64) bool {
	for _, known := range Diameters {
		if d == known {
			return true
		}
	}
	return false
}

// Nozzle is a consumable catalog entry. Wear cost per hour derives from
// price and lifetime; it is computed by the pricing package.
type Nozzle struct {
	ID            int64
	Name          string
	DiameterMM    float64
	Tip           TipMaterial
	Price         float64
	LifetimeHours float64
	WearFactor    float64
	Active        bool
}

// Validate checks the nozzle invariants: diameter from the fixed set,
// positive price and lifetime.
func (n Nozzle) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("nozzle name is required")
	}
	if !ValidDiameter(n.DiameterMM) {
		return fmt.Errorf("nozzle diameter %.2f is not in the supported set", n.DiameterMM)
	}
	if _, err := ParseTipMaterial(string(n.Tip)); err != nil {
		return err
	}
	if n.Price <= 0 {
		return fmt.Errorf("nozzle price must be greater than 0")
	}
	if n.LifetimeHours <= 0 {
		return fmt.Errorf("nozzle lifetime_hours must be greater than 0")
	}
	if n.WearFactor < 0 {
		return fmt.Errorf("nozzle wear_factor must not be negative")
	}
	return nil
}
