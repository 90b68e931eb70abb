package entity

import "time"

// Patient is the sole persisted record. RegisteredAt is assigned by the
// storage engine at insert time and never changes afterwards.
type Patient struct {
	ID            string    `gorm:"column:id;primaryKey" json:"id"`
	FullName      string    `gorm:"column:fullName;not null" json:"fullName"`
	DateOfBirth   string    `gorm:"column:dateOfBirth;not null" json:"dateOfBirth"`
	ContactNumber *string   `gorm:"column:contactNumber" json:"contactNumber,omitempty"`
	Address       *string   `gorm:"column:address" json:"address,omitempty"`
	Gender        string    `gorm:"column:gender;not null" json:"gender"`
	RegisteredAt  time.Time `gorm:"column:registeredAt;<-:false" json:"registeredAt"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// DateOfBirthLayout is the ISO calendar form dateOfBirth is stored in.
const DateOfBirthLayout = "2006-01-02"
