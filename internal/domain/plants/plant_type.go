package plants

import "strings"

// PlantType is the closed set of categories a plant is classified into.
type PlantType string

const (
	PlantTypeHerb           PlantType = "Herb"
	PlantTypeFlowering      PlantType = "Flowering"
	PlantTypeFruitVegetable PlantType = "Fruit/Vegetable"
	PlantTypeTree           PlantType = "Tree"
	PlantTypeGrass          PlantType = "Grass"
	PlantTypeSucculent      PlantType = "Succulent"
	PlantTypeOrnamental     PlantType = "Ornamental"
	// PlantTypePlant is the universal default.
	PlantTypePlant PlantType = "Plant"
)

var allPlantTypes = [...]PlantType{
	PlantTypeHerb,
	PlantTypeFlowering,
	PlantTypeFruitVegetable,
	PlantTypeTree,
	PlantTypeGrass,
	PlantTypeSucculent,
	PlantTypeOrnamental,
	PlantTypePlant,
}

// AllPlantTypes returns every member of the enum, default last.
func AllPlantTypes() []PlantType {
	out := make([]PlantType, len(allPlantTypes))
	copy(out, allPlantTypes[:])
	return out
}

func (t PlantType) Valid() bool {
	for _, v := range allPlantTypes {
		if v == t {
			return true
		}
	}
	return false
}

// OrDefault maps anything outside the enum to PlantTypePlant.
func (t PlantType) OrDefault() PlantType {
	if t.Valid() {
		return t
	}
	return PlantTypePlant
}

func (t PlantType) String() string { return string(t) }

// ParsePlantType matches s case-insensitively against the enum; unknown input
// yields PlantTypePlant.
func ParsePlantType(s string) PlantType {
	s = strings.TrimSpace(s)
	for _, v := range allPlantTypes {
		if strings.EqualFold(string(v), s) {
			return v
		}
	}
	return PlantTypePlant
}
