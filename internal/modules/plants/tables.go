package plants

import (
	"strings"

	domain "github.com/greenur/plantbasics/internal/domain/plants"
)

// Search qualifiers appended to the bare common name, in order.
var variantQualifiers = [...]string{"(plant)", "plant", "species", "genus", "herb", "tree", "flower", "medicinal"}

// Substrings that mark a search hit's description as plant-related.
var plantKeywords = [...]string{
	"plant", "species", "genus", "tree", "herb", "flower",
	"medicinal", "flowering", "ornamental", "succulent",
	"grass", "vegetable", "fruit", "spice", "aromatic",
}

const rootPlantNode = "Q756"

type categoryNode struct {
	QID  string
	Type domain.PlantType
}

// Nodes checked by the direct membership strategy.
var membershipNodes = [...]categoryNode{
	{"Q11004", domain.PlantTypeHerb},
	{"Q506", domain.PlantTypeFlowering},
	{"Q23501", domain.PlantTypeFruitVegetable},
	{"Q193647", domain.PlantTypeTree},
	{"Q11369", domain.PlantTypeGrass},
	{"Q27744", domain.PlantTypeSucculent},
	{"Q188771", domain.PlantTypeOrnamental},
}

var familyTypes = map[string]domain.PlantType{
	"Lamiaceae":     domain.PlantTypeHerb,
	"Apiaceae":      domain.PlantTypeHerb,
	"Zingiberaceae": domain.PlantTypeHerb,

	"Rosaceae":    domain.PlantTypeFlowering,
	"Asteraceae":  domain.PlantTypeFlowering,
	"Orchidaceae": domain.PlantTypeFlowering,
	"Oleaceae":    domain.PlantTypeFlowering,

	"Solanaceae":    domain.PlantTypeFruitVegetable,
	"Cucurbitaceae": domain.PlantTypeFruitVegetable,
	"Fabaceae":      domain.PlantTypeFruitVegetable,

	"Meliaceae": domain.PlantTypeTree,
	"Pinaceae":  domain.PlantTypeTree,
	"Fagaceae":  domain.PlantTypeTree,

	"Poaceae": domain.PlantTypeGrass,

	"Asphodelaceae": domain.PlantTypeSucculent,
	"Cactaceae":     domain.PlantTypeSucculent,

	"Araceae":     domain.PlantTypeOrnamental,
	"Begoniaceae": domain.PlantTypeOrnamental,
}

// TypeForFamily maps a botanical family name to its category.
func TypeForFamily(family string) (domain.PlantType, bool) {
	t, ok := familyTypes[strings.TrimSpace(family)]
	return t, ok
}

type descriptionRule struct {
	Keywords []string
	Type     domain.PlantType
}

// Checked in order; the first rule with any keyword in the description wins.
var descriptionRules = [...]descriptionRule{
	{[]string{"herb"}, domain.PlantTypeHerb},
	{[]string{"flower", "flowering"}, domain.PlantTypeFlowering},
	{[]string{"fruit", "vegetable"}, domain.PlantTypeFruitVegetable},
	{[]string{"tree"}, domain.PlantTypeTree},
	{[]string{"grass"}, domain.PlantTypeGrass},
	{[]string{"succulent"}, domain.PlantTypeSucculent},
	{[]string{"ornamental"}, domain.PlantTypeOrnamental},
}

// TypeForDescription scans an English description for category keywords.
func TypeForDescription(desc string) (domain.PlantType, bool) {
	desc = strings.ToLower(desc)
	if desc == "" {
		return "", false
	}
	for _, rule := range descriptionRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Type, true
			}
		}
	}
	return "", false
}

// Nodes the wide hierarchy query is filtered to.
var hierarchyNodes = [...]string{
	"Q25031", "Q506", "Q33971", "Q7979", "Q11004", "Q190390", "Q23668",
	"Q19088", "Q47154513", "Q181172", "Q3314483", "Q42295", "Q37692",
	"Q156578", "Q183332", "Q127421", "Q27349", "Q161726", "Q28377",
	"Q11292", "Q25390", "Q200250", rootPlantNode,
}

// Properties linking an entity directly to a hierarchy node.
var hierarchyProperties = [...]string{"P1269", "P1889", "P31", "P279", "P171", "P105", "P1582", "P2578", "P1063"}

var typeLabels = map[string]domain.PlantType{
	"herb":              domain.PlantTypeHerb,
	"flower":            domain.PlantTypeFlowering,
	"fruit":             domain.PlantTypeFruitVegetable,
	"tree":              domain.PlantTypeTree,
	"grass":             domain.PlantTypeGrass,
	"succulent":         domain.PlantTypeSucculent,
	"ornamental plant":  domain.PlantTypeOrnamental,
	"flowering plant":   domain.PlantTypeFlowering,
	"medicinal plant":   domain.PlantTypeHerb,
	"vegetable":         domain.PlantTypeFruitVegetable,
	"fruit plant":       domain.PlantTypeFruitVegetable,
	"spice":             domain.PlantTypeHerb,
	"garden plant":      domain.PlantTypeFlowering,
	"aromatic plant":    domain.PlantTypeHerb,
	"culinary plant":    domain.PlantTypeHerb,
	"ornamental flower": domain.PlantTypeFlowering,
	"perennial plant":   domain.PlantTypeFlowering,
	"medicinal herb":    domain.PlantTypeHerb,
	"cultivated plant":  domain.PlantTypeFruitVegetable,
	"spice plant":       domain.PlantTypeHerb,
	"houseplant":        domain.PlantTypeOrnamental,
	"vine":              domain.PlantTypeFlowering,
	"plant":             domain.PlantTypePlant,
}

var typeRanks = map[domain.PlantType]int{
	domain.PlantTypeHerb:           5,
	domain.PlantTypeFlowering:      4,
	domain.PlantTypeFruitVegetable: 4,
	domain.PlantTypeTree:           4,
	domain.PlantTypeGrass:          4,
	domain.PlantTypeSucculent:      4,
	domain.PlantTypeOrnamental:     3,
	domain.PlantTypePlant:          1,
}

func typeRank(t domain.PlantType) int {
	if r, ok := typeRanks[t]; ok {
		return r
	}
	return 2
}

// RankTypeLabels maps each English type label through the label table and
// returns the most specific category. Equal ranks keep the earliest label.
func RankTypeLabels(labels []string) (domain.PlantType, bool) {
	var (
		best     domain.PlantType
		bestRank int
	)
	for _, l := range labels {
		t, ok := typeLabels[strings.ToLower(strings.TrimSpace(l))]
		if !ok {
			continue
		}
		if r := typeRank(t); r > bestRank {
			best, bestRank = t, r
		}
	}
	return best, bestRank > 0
}

func hasPlantKeyword(desc string) bool {
	desc = strings.ToLower(desc)
	for _, kw := range plantKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// SearchVariants returns the ordered search texts tried for a common name.
func SearchVariants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	out := make([]string, 0, len(variantQualifiers)+1)
	out = append(out, name)
	for _, q := range variantQualifiers {
		out = append(out, name+" "+q)
	}
	return out
}
