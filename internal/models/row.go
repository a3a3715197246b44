package models

// Row is the flat output record of one query result.
// Name, DiameterKm and PotentiallyHazardous are nil when the approach has
// no linked NEO. DiameterKm is also nil when the diameter is unknown.
type Row struct {
	DatetimeUTC          string   `json:"datetime_utc"`
	DistanceAU           float64  `json:"distance_au"`
	VelocityKmS          float64  `json:"velocity_km_s"`
	Designation          string   `json:"designation"`
	Name                 *string  `json:"name"`
	DiameterKm           *float64 `json:"diameter_km"`
	PotentiallyHazardous *bool    `json:"potentially_hazardous"`
}

var RowFields = []string{
	"datetime_utc",
	"distance_au",
	"velocity_km_s",
	"designation",
	"name",
	"diameter_km",
	"potentially_hazardous",
}

func (ca *CloseApproach) Row() Row {
	row := Row{
		DatetimeUTC: ca.TimeString(),
		DistanceAU:  ca.Distance,
		VelocityKmS: ca.Velocity,
		Designation: ca.Designation,
	}

	if ca.NEO == nil {
		return row
	}

	name := ca.NEO.Name
	hazardous := ca.NEO.Hazardous
	row.Name = &name
	row.PotentiallyHazardous = &hazardous
	if ca.NEO.HasDiameter() {
		diameter := ca.NEO.Diameter
		row.DiameterKm = &diameter
	}

	return row
}
