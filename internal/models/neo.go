package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// NearEarthObject is a single NEO from the SBDB catalog.
// Approaches is filled once by the database when it links the dataset.
type NearEarthObject struct {
	Designation string
	Name        string
	Diameter    float64 // km, NaN if unknown
	Hazardous   bool

	Approaches []*CloseApproach
}

// NewNearEarthObject builds an NEO from raw catalog fields.
// Empty name and diameter are not errors.
func NewNearEarthObject(designation, name, diameter, hazardous string) (*NearEarthObject, error) {
	neo := &NearEarthObject{
		Designation: strings.TrimSpace(designation),
		Name:        strings.TrimSpace(name),
		Diameter:    nan(),
		Hazardous:   strings.TrimSpace(hazardous) == "Y",
	}

	if d := strings.TrimSpace(diameter); d != "" {
		v, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid diameter %q for %s", d, neo.Designation)
		}
		neo.Diameter = v
	}

	return neo, nil
}

func (n *NearEarthObject) HasName() bool {
	return n.Name != ""
}

func (n *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(n.Diameter)
}

// FullName возвращает "<designation> (<name>)" или только designation
func (n *NearEarthObject) FullName() string {
	if n.HasName() {
		return fmt.Sprintf("%s (%s)", n.Designation, n.Name)
	}
	return n.Designation
}

func (n *NearEarthObject) String() string {
	hazard := "is not"
	if n.Hazardous {
		hazard = "is"
	}
	return fmt.Sprintf("A NearEarthObject named '%s' has a diameter of %.3f km and %s potentially hazardous.",
		n.FullName(), n.Diameter, hazard)
}

func nan() float64 {
	return math.NaN()
}
