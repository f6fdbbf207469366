package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Student represents a coached client whose diet plans are managed here.
type Student struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Weight    *float64       `json:"weight"` // kg
	Age       *int           `json:"age"`
	Goal      *string        `gorm:"type:text" json:"goal"`
	CreatorID uint           `gorm:"not null;index" json:"creator_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Diets []Diet `json:"diets,omitempty"`
}

// FoodType is the coarse category every food must reference.
// Name is unique case/whitespace-insensitively; the resolver normalizes
// before lookup so the DB constraint only sees canonical casing.
type FoodType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Food is a durable catalog row for one named food and its reference
// nutrition profile per PortionGrams.
type Food struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:255;not null;index" json:"name"`
	NormalizedName string         `gorm:"size:255;not null;index" json:"-"`
	TypeID         uint           `gorm:"not null;index" json:"type_id"`
	ProteinOrigin  *string        `gorm:"size:50" json:"protein_origin"`
	PortionGrams   float64        `gorm:"default:100" json:"portion_grams"`
	Calories       float64        `gorm:"default:0" json:"calories"`
	Protein        float64        `gorm:"default:0" json:"protein"`
	Carbs          float64        `gorm:"default:0" json:"carbs"`
	Fat            float64        `gorm:"default:0" json:"fat"`
	Note           string         `gorm:"type:text" json:"note"`
	CreatorID      uint           `gorm:"index" json:"creator_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Type FoodType `gorm:"foreignKey:TypeID" json:"type,omitempty"`
}

// Diet is one plan belonging to a student.
type Diet struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	StudentID      uint           `gorm:"not null;index" json:"student_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Goal           *string        `gorm:"type:text" json:"goal"`
	ProteinTarget  *float64       `json:"protein_target"`
	CarbsTarget    *float64       `json:"carbs_target"`
	FatTarget      *float64       `json:"fat_target"`
	CaloriesTarget *float64       `json:"calories_target"`
	CreatorID      uint           `gorm:"not null;index" json:"creator_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Items       []DietItem       `json:"items,omitempty"`
	Supplements []DietSupplement `json:"supplements,omitempty"`
}

// DietItem links a diet to a catalog food with a numeric quantity in grams
// (or units, for count-based foods) under a canonical meal label.
type DietItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DietID    uint      `gorm:"not null;index" json:"diet_id"`
	FoodID    uint      `gorm:"not null;index" json:"food_id"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	MealLabel string    `gorm:"size:100;not null" json:"meal_label"`
	CreatedAt time.Time `json:"created_at"`

	Food Food `gorm:"foreignKey:FoodID" json:"food,omitempty"`
}

// DietSupplement stores both supplements and medications for a diet; Kind
// discriminates the two.
type DietSupplement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DietID    uint      `gorm:"not null;index" json:"diet_id"`
	Kind      string    `gorm:"size:20;not null;default:'supplement'" json:"kind"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Dosage    string    `gorm:"size:255;not null" json:"dosage"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// Supplement/medication kinds.
const (
	SupplementKindSupplement = "supplement"
	SupplementKindMedication = "medication"
)

// ImportRecord is the audit row written at preview time. It keeps the
// sanitized payload so a confirm call can reference what was previewed by
// token instead of resending the document.
type ImportRecord struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Token      string         `gorm:"size:36;uniqueIndex;not null" json:"token"`
	CreatorID  uint           `gorm:"not null;index" json:"creator_id"`
	Status     string         `gorm:"size:20;not null;default:'previewed'" json:"status"`
	Source     string         `gorm:"size:50" json:"source"` // extraction provider name, or "payload"
	RawPayload datatypes.JSON `json:"raw_payload"`
	Warnings   int            `gorm:"default:0" json:"warnings"`
	StudentID  *uint          `json:"student_id"`
	DietID     *uint          `json:"diet_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Import record statuses.
const (
	ImportStatusPreviewed = "previewed"
	ImportStatusConfirmed = "confirmed"
)
