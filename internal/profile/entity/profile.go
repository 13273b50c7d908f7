package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Profile is the dating profile owned by exactly one user.
type Profile struct {
	ID           string    `db:"id" bson:"_id" json:"id"`
	UserID       string    `db:"user_id" bson:"user_id" json:"userId"`
	Name         string    `db:"name" bson:"name" json:"name"`
	Birthday     string    `db:"birthday" bson:"birthday" json:"birthday"`
	Gender       string    `db:"gender" bson:"gender" json:"gender"`
	Height       float64   `db:"height" bson:"height" json:"height"`
	Weight       float64   `db:"weight" bson:"weight" json:"weight"`
	Interests    Interests `db:"interests" bson:"interests" json:"interests"`
	ProfileImage string    `db:"profile_image" bson:"profile_image" json:"profileImage"`
	HeightUnit   string    `db:"height_unit" bson:"height_unit" json:"heightUnit"`
	HeightFeet   int       `db:"height_feet" bson:"height_feet" json:"heightFeet"`
	HeightInches int       `db:"height_inches" bson:"height_inches" json:"heightInches"`
	Zodiac       string    `db:"zodiac" bson:"zodiac" json:"zodiac"`
	Horoscope    string    `db:"horoscope" bson:"horoscope" json:"horoscope"`
	CreatedAt    time.Time `db:"created_at" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" bson:"updated_at" json:"updatedAt"`
}

// Interests is stored as a JSON array in SQL columns.
type Interests []string

func (i Interests) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(i))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (i *Interests) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*i = Interests{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("interests: cannot scan %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("interests: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*i = out
	return nil
}
