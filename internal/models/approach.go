package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// CalendarLayout is the CAD API "cd" format, e.g. 2025-Jan-01 00:00
	CalendarLayout = "2006-Jan-02 15:04"
	// OutputLayout drops seconds, the source data has minute precision
	OutputLayout = "2006-01-02 15:04"
)

// CloseApproach is one recorded pass of an NEO near Earth.
// NEO stays nil until the database links the approach, and is never
// reassigned afterwards.
type CloseApproach struct {
	Designation string
	Time        *time.Time
	Distance    float64 // au
	Velocity    float64 // km/s

	NEO *NearEarthObject
}

// NewCloseApproach builds an approach from raw CAD fields.
// Empty distance and velocity default to 0.
func NewCloseApproach(designation, calendarDate, distance, velocity string) (*CloseApproach, error) {
	ca := &CloseApproach{Designation: strings.TrimSpace(designation)}

	if cd := strings.TrimSpace(calendarDate); cd != "" {
		t, err := ParseCalendarDate(cd)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid approach time for %s", ca.Designation)
		}
		ca.Time = &t
	}

	var err error
	if ca.Distance, err = parseOptionalFloat(distance); err != nil {
		return nil, errors.Wrapf(err, "invalid distance for %s", ca.Designation)
	}
	if ca.Velocity, err = parseOptionalFloat(velocity); err != nil {
		return nil, errors.Wrapf(err, "invalid velocity for %s", ca.Designation)
	}

	return ca, nil
}

// ParseCalendarDate parses a NASA calendar date like "2020-Dec-31 23:59" as UTC.
func ParseCalendarDate(cd string) (time.Time, error) {
	return time.ParseInLocation(CalendarLayout, cd, time.UTC)
}

func parseOptionalFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Link attaches the approach to its NEO. Only the first call has an effect.
func (ca *CloseApproach) Link(neo *NearEarthObject) bool {
	if ca.NEO != nil || neo == nil {
		return false
	}
	ca.NEO = neo
	neo.Approaches = append(neo.Approaches, ca)
	return true
}

func (ca *CloseApproach) Linked() bool {
	return ca.NEO != nil
}

// TimeString форматирует время сближения без секунд
func (ca *CloseApproach) TimeString() string {
	if ca.Time == nil {
		return ""
	}
	return ca.Time.UTC().Format(OutputLayout)
}

func (ca *CloseApproach) String() string {
	name := ca.Designation
	if ca.NEO != nil {
		name = ca.NEO.FullName()
	}
	return fmt.Sprintf("On %s in UTC, the NEO named '%s' approaches Earth at a distance of %.2f au with a velocity of %.2f km/s.",
		ca.TimeString(), name, ca.Distance, ca.Velocity)
}
