package entity

import "time"

// Record запись о проведённом обследовании.
type Record struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PatientID        string    `gorm:"type:varchar(100);index;not null" json:"patientId"`
	PatientName      string    `gorm:"type:varchar(200)" json:"patientName"`
	Eye              string    `gorm:"type:varchar(10)" json:"eye"`
	Diagnosis        string    `gorm:"type:varchar(20);not null" json:"diagnosis"`
	Confidence       float64   `json:"confidence"`
	FundusImagePath  string    `gorm:"type:varchar(500)" json:"fundusImagePath"`
	GradcamImagePath string    `gorm:"type:varchar(500)" json:"gradcamImagePath"`
	Notes            string    `gorm:"type:text" json:"notes"`
	DoctorEmail      string    `gorm:"type:varchar(200);index" json:"doctorEmail"`
	CreatedAt        time.Time `json:"createdAt"`
}
