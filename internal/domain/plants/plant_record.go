package plants

import "time"

// PlantQuery is one catalog entry to enrich.
type PlantQuery struct {
	ID         int64  `yaml:"id" json:"id"`
	CommonName string `yaml:"name" json:"common_name"`
}

// PlantRecord is the persisted, fully assembled result for one catalog entry.
// ID is always the catalog id.
type PlantRecord struct {
	ID               int64             `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	CommonName       string            `gorm:"column:common_name;type:text;not null" json:"common_name"`
	ScientificName   string            `gorm:"column:scientific_name;type:text;not null;default:''" json:"scientific_name"`
	PlantType        PlantType         `gorm:"column:plant_type;type:text;not null;default:'Plant';index" json:"plant_type"`
	NamesInLanguages map[string]string `gorm:"column:names_in_languages;serializer:json;type:jsonb;not null" json:"names_in_languages"`
	DefaultImageURL  string            `gorm:"column:default_image_url;type:text;not null;default:''" json:"default_image_url"`
	Family           string            `gorm:"column:family;type:text;not null;default:'';index" json:"family"`
	LastUpdated      time.Time         `gorm:"column:last_updated;not null;index" json:"last_updated"`
}

func (PlantRecord) TableName() string { return "plant_basics" }
