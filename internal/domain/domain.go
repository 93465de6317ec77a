package domain

import "github.com/greenur/plantbasics/internal/domain/plants"

type PlantQuery = plants.PlantQuery
type PlantRecord = plants.PlantRecord
type PlantType = plants.PlantType
type ScrapeRun = plants.ScrapeRun
type Language = plants.Language

const (
	PlantTypeHerb           = plants.PlantTypeHerb
	PlantTypeFlowering      = plants.PlantTypeFlowering
	PlantTypeFruitVegetable = plants.PlantTypeFruitVegetable
	PlantTypeTree           = plants.PlantTypeTree
	PlantTypeGrass          = plants.PlantTypeGrass
	PlantTypeSucculent      = plants.PlantTypeSucculent
	PlantTypeOrnamental     = plants.PlantTypeOrnamental
	PlantTypePlant          = plants.PlantTypePlant
)

var (
	ParsePlantType   = plants.ParsePlantType
	AllPlantTypes    = plants.AllPlantTypes
	DefaultCatalog   = plants.DefaultCatalog
	LoadCatalog      = plants.LoadCatalog
	TranslationCodes = plants.TranslationCodes
)
