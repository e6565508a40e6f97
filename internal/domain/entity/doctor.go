package entity

import "time"

// Doctor учётная запись врача.
type Doctor struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(200);not null" json:"name"`
	Email           string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Qualification   *string   `gorm:"type:varchar(200)" json:"qualification"`
	Specialization  *string   `gorm:"type:varchar(200)" json:"specialization"`
	ExperienceYears *int      `json:"experience_years"`
	Hospital        *string   `gorm:"type:varchar(200)" json:"hospital"`
	ClinicAddress   *string   `gorm:"type:text" json:"clinic_address"`
	City            *string   `gorm:"type:varchar(100)" json:"city"`
	ClinicPhone     *string   `gorm:"type:varchar(50)" json:"clinic_phone"`
	CreatedAt       time.Time `json:"created_at"`
}
