package filters

import "time"

// Criteria holds the user's query options. Nil fields add no filter.
type Criteria struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Since     *time.Time
	Until     *time.Time

	DistanceMin *float64
	DistanceMax *float64
	VelocityMin *float64
	VelocityMax *float64
	DiameterMin *float64
	DiameterMax *float64

	Hazardous   *bool
	Designation string
	Name        string
}

// Build converts criteria into a flat list of filters, all of which must hold.
func Build(c Criteria) []AttributeFilter {
	var out []AttributeFilter

	if c.Date != nil {
		out = append(out, Date(OpEqual, *c.Date))
	}
	if c.StartDate != nil {
		out = append(out, Date(OpGreaterOrEqual, *c.StartDate))
	}
	if c.EndDate != nil {
		out = append(out, Date(OpLessOrEqual, *c.EndDate))
	}
	if c.Since != nil {
		out = append(out, Time(OpGreaterOrEqual, *c.Since))
	}
	if c.Until != nil {
		out = append(out, Time(OpLessOrEqual, *c.Until))
	}

	if c.DistanceMin != nil {
		out = append(out, Distance(OpGreaterOrEqual, *c.DistanceMin))
	}
	if c.DistanceMax != nil {
		out = append(out, Distance(OpLessOrEqual, *c.DistanceMax))
	}
	if c.VelocityMin != nil {
		out = append(out, Velocity(OpGreaterOrEqual, *c.VelocityMin))
	}
	if c.VelocityMax != nil {
		out = append(out, Velocity(OpLessOrEqual, *c.VelocityMax))
	}
	if c.DiameterMin != nil {
		out = append(out, Diameter(OpGreaterOrEqual, *c.DiameterMin))
	}
	if c.DiameterMax != nil {
		out = append(out, Diameter(OpLessOrEqual, *c.DiameterMax))
	}

	if c.Hazardous != nil {
		out = append(out, Hazardous(*c.Hazardous))
	}
	if c.Designation != "" {
		out = append(out, Designation(c.Designation))
	}
	if c.Name != "" {
		out = append(out, Name(c.Name))
	}

	return out
}
