package models

import (
	"time"
)

// Measurement is one persisted observation. field1..field3 are nullable so
// that rows written by external sources may carry only a subset of fields.
// When a row comes from weather ingestion the fields hold temperature (°C),
// humidity (%) and pressure (mb), and City is set.
type Measurement struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"-"`
	Timestamp time.Time `gorm:"column:timestamp;index;not null" json:"timestamp"`
	Field1    *float64  `gorm:"column:field1" json:"field1,omitempty"`
	Field2    *float64  `gorm:"column:field2" json:"field2,omitempty"`
	Field3    *float64  `gorm:"column:field3" json:"field3,omitempty"`
	City      *string   `gorm:"column:city" json:"city,omitempty"`
}

func (Measurement) TableName() string {
	return "measurements"
}

// MeasurementPoint is the query projection: timestamp plus a single
// requested field. The row id and city are never exposed.
type MeasurementPoint struct {
	Timestamp time.Time `gorm:"column:timestamp" json:"timestamp"`
	Value     *float64  `gorm:"column:value" json:"-"`
}
