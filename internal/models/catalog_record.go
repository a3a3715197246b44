package models

import (
	"database/sql"
	"time"
)

// NEORecord is a row of the neos catalog table
type NEORecord struct {
	ID          uint            `gorm:"primaryKey"`
	Designation string          `gorm:"column:pdes;not null;uniqueIndex"`
	Name        sql.NullString  `gorm:"column:name"`
	Diameter    sql.NullFloat64 `gorm:"column:diameter"`
	Hazardous   bool            `gorm:"column:pha;not null;default:false"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (NEORecord) TableName() string {
	return "neos"
}

// ApproachRecord is a row of the close_approaches table
type ApproachRecord struct {
	ID          uint            `gorm:"primaryKey"`
	Designation string          `gorm:"column:des;not null;index"`
	ApproachAt  sql.NullTime    `gorm:"column:approach_at"`
	Distance    sql.NullFloat64 `gorm:"column:dist"`
	Velocity    sql.NullFloat64 `gorm:"column:v_rel"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (ApproachRecord) TableName() string {
	return "close_approaches"
}

func (r NEORecord) ToModel() *NearEarthObject {
	neo := &NearEarthObject{
		Designation: r.Designation,
		Name:        r.Name.String,
		Diameter:    nan(),
		Hazardous:   r.Hazardous,
	}
	if r.Diameter.Valid {
		neo.Diameter = r.Diameter.Float64
	}
	return neo
}

func (r ApproachRecord) ToModel() *CloseApproach {
	ca := &CloseApproach{
		Designation: r.Designation,
		Distance:    r.Distance.Float64,
		Velocity:    r.Velocity.Float64,
	}
	if r.ApproachAt.Valid {
		t := r.ApproachAt.Time.UTC()
		ca.Time = &t
	}
	return ca
}
