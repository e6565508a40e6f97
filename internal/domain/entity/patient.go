package entity

import (
	"strings"
	"time"
)

// Patient карточка пациента, привязанная к врачу.
type Patient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Age       *int      `json:"age"`
	Gender    string    `gorm:"type:varchar(20)" json:"gender"`
	Diagnosis string    `gorm:"type:varchar(20);index" json:"diagnosis"` // Normal / Early / Advanced
	Eye       string    `gorm:"type:varchar(10)" json:"eye"`
	IOP       string    `gorm:"column:iop;type:varchar(20)" json:"iop"`
	CDR       string    `gorm:"column:cdr;type:varchar(20)" json:"cdr"`
	Symptoms  string    `gorm:"type:text" json:"symptoms"`
	ImagePath string    `gorm:"type:varchar(500)" json:"image_path"`
	DoctorID  uint      `gorm:"not null;index" json:"doctor_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID;constraint:OnDelete:RESTRICT" json:"-"`
}

// Stage стадия из диагноза, без учёта регистра.
func (p *Patient) Stage() (Stage, bool) {
	s := Stage(strings.ToLower(strings.TrimSpace(p.Diagnosis)))
	return s, s.Valid()
}

// DiagnosisSummary сводка по стадиям для дашборда.
type DiagnosisSummary struct {
	TotalPatients int64 `json:"total_patients"`
	Normal        int64 `json:"normal"`
	Early         int64 `json:"early"`
	Advanced      int64 `json:"advanced"`
}

// DateCount число пациентов за день.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AgeGroupCount число пациентов в возрастной группе.
type AgeGroupCount struct {
	AgeGroup string `json:"age_group"`
	Count    int64  `json:"count"`
}
