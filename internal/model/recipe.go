package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JSONBValue stores any JSON value in a JSONB column. Recipe fields like
// ingredients arrive as arrays from some clients and as plain strings from
// others, so the column stays shapeless.
type JSONBValue json.RawMessage

// Value implements the driver.Valuer interface
func (v JSONBValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return []byte(v), nil
}

// Scan implements the sql.Scanner interface
func (v *JSONBValue) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	switch data := value.(type) {
	case []byte:
		*v = JSONBValue(append([]byte(nil), data...))
	case string:
		*v = JSONBValue(data)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}
	return nil
}

// MarshalJSON returns the stored value verbatim.
func (v JSONBValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// UnmarshalJSON keeps the raw bytes.
func (v *JSONBValue) UnmarshalJSON(data []byte) error {
	*v = JSONBValue(append([]byte(nil), data...))
	return nil
}

// FlexString accepts either a JSON string or a number. Models routinely emit
// "servings": 4 one day and "servings": "4 people" the next.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if num == float64(int64(num)) {
			*s = FlexString(fmt.Sprintf("%d", int64(num)))
		} else {
			*s = FlexString(fmt.Sprintf("%g", num))
		}
		return nil
	}
	return fmt.Errorf("invalid string-or-number value: %s", string(data))
}

// Recipe is the persisted recipe record. Only fields named in
// service.RecipeFields are ever written; anything else a client sends is
// dropped before it reaches this struct.
type Recipe struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Source          string     `gorm:"size:255" json:"source"`
	SourceLink      string     `gorm:"size:1024" json:"source_link"`
	PrepTime        FlexString `gorm:"size:100" json:"prep_time"`
	CookTime        FlexString `gorm:"size:100" json:"cook_time"`
	TotalTime       FlexString `gorm:"size:100" json:"total_time"`
	Servings        FlexString `gorm:"size:100" json:"servings"`
	OvenTemperature FlexString `gorm:"size:100" json:"oven_temperature"`
	TinSize         FlexString `gorm:"size:100" json:"tin_size"`
	DietaryInfo     JSONBValue `gorm:"type:jsonb" json:"dietary_info"`
	Ingredients     JSONBValue `gorm:"type:jsonb" json:"ingredients"`
	Method          JSONBValue `gorm:"type:jsonb" json:"method"`
	Tips            JSONBValue `gorm:"type:jsonb" json:"tips"`
	Notes           JSONBValue `gorm:"type:jsonb" json:"notes"`
	Storage         JSONBValue `gorm:"type:jsonb" json:"storage"`
	Equipment       JSONBValue `gorm:"type:jsonb" json:"equipment"`
	Variations      JSONBValue `gorm:"type:jsonb" json:"variations"`
	MakeAhead       JSONBValue `gorm:"type:jsonb" json:"make_ahead"`
}
