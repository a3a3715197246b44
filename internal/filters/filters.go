// Package filters turns user criteria into predicates over close approaches.
//
// A filter is a tagged value {attribute, operator, threshold}. A query keeps
// an approach only if every filter applies to it.
package filters

import (
	"fmt"
	"strconv"
	"time"

	"neowatch/internal/models"

	"github.com/cockroachdb/errors"
)

// ErrMissingNEO is returned when a filter needs NEO data but the approach
// is not linked to any NEO.
var ErrMissingNEO = errors.New("close approach has no linked NEO")

type Operator int

const (
	OpEqual Operator = iota
	OpLessOrEqual
	OpGreaterOrEqual
)

func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "=="
	case OpLessOrEqual:
		return "<="
	case OpGreaterOrEqual:
		return ">="
	default:
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
}

type Attribute int

const (
	AttrDate Attribute = iota
	AttrTime
	AttrDistance
	AttrVelocity
	AttrDiameter
	AttrHazardous
	AttrDesignation
	AttrName
)

var attributeNames = map[Attribute]string{
	AttrDate:        "date",
	AttrTime:        "time",
	AttrDistance:    "distance",
	AttrVelocity:    "velocity",
	AttrDiameter:    "diameter",
	AttrHazardous:   "hazardous",
	AttrDesignation: "designation",
	AttrName:        "name",
}

func (a Attribute) String() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return "attr(" + strconv.Itoa(int(a)) + ")"
}

// NEOSourced reports whether the attribute is read from the linked NEO.
func (a Attribute) NEOSourced() bool {
	return a == AttrDiameter || a == AttrHazardous || a == AttrName
}

// AttributeFilter compares one attribute of an approach against a threshold.
// Only the threshold field matching the attribute kind is used.
type AttributeFilter struct {
	attr Attribute
	op   Operator

	when time.Time
	num  float64
	flag bool
	text string
}

func Date(op Operator, day time.Time) AttributeFilter {
	return AttributeFilter{attr: AttrDate, op: op, when: truncateDay(day)}
}

func Time(op Operator, t time.Time) AttributeFilter {
	return AttributeFilter{attr: AttrTime, op: op, when: t.UTC()}
}

func Distance(op Operator, au float64) AttributeFilter {
	return AttributeFilter{attr: AttrDistance, op: op, num: au}
}

func Velocity(op Operator, kms float64) AttributeFilter {
	return AttributeFilter{attr: AttrVelocity, op: op, num: kms}
}

func Diameter(op Operator, km float64) AttributeFilter {
	return AttributeFilter{attr: AttrDiameter, op: op, num: km}
}

func Hazardous(hazardous bool) AttributeFilter {
	return AttributeFilter{attr: AttrHazardous, op: OpEqual, flag: hazardous}
}

func Designation(designation string) AttributeFilter {
	return AttributeFilter{attr: AttrDesignation, op: OpEqual, text: designation}
}

func Name(name string) AttributeFilter {
	return AttributeFilter{attr: AttrName, op: OpEqual, text: name}
}

func (f AttributeFilter) Attribute() Attribute { return f.attr }
func (f AttributeFilter) Operator() Operator   { return f.op }

// Apply evaluates the filter against an approach.
// NEO-sourced attributes fail with ErrMissingNEO on unlinked approaches.
func (f AttributeFilter) Apply(ca *models.CloseApproach) (bool, error) {
	if f.attr.NEOSourced() && ca.NEO == nil {
		return false, errors.Wrapf(ErrMissingNEO, "%s filter on approach of %s", f.attr, ca.Designation)
	}

	switch f.attr {
	case AttrDate:
		if ca.Time == nil {
			return false, nil
		}
		return compareTime(f.op, truncateDay(*ca.Time), f.when), nil
	case AttrTime:
		if ca.Time == nil {
			return false, nil
		}
		return compareTime(f.op, ca.Time.UTC(), f.when), nil
	case AttrDistance:
		return compareFloat(f.op, ca.Distance, f.num), nil
	case AttrVelocity:
		return compareFloat(f.op, ca.Velocity, f.num), nil
	case AttrDiameter:
		return compareFloat(f.op, ca.NEO.Diameter, f.num), nil
	case AttrHazardous:
		return compareBool(f.op, ca.NEO.Hazardous, f.flag), nil
	case AttrDesignation:
		return compareString(f.op, ca.Designation, f.text), nil
	case AttrName:
		return compareString(f.op, ca.NEO.Name, f.text), nil
	}

	return false, errors.Newf("unknown filter attribute %d", int(f.attr))
}

func (f AttributeFilter) String() string {
	var value string
	switch f.attr {
	case AttrDate:
		value = f.when.Format(time.DateOnly)
	case AttrTime:
		value = f.when.Format(models.OutputLayout)
	case AttrDistance, AttrVelocity, AttrDiameter:
		value = strconv.FormatFloat(f.num, 'g', -1, 64)
	case AttrHazardous:
		value = strconv.FormatBool(f.flag)
	default:
		value = strconv.Quote(f.text)
	}
	return fmt.Sprintf("%s %s %s", f.attr, f.op, value)
}

// MatchAll is the conjunction of filters. Every filter is evaluated, so a
// data-availability error wins over an earlier false.
func MatchAll(ca *models.CloseApproach, filters []AttributeFilter) (bool, error) {
	match := true
	for _, f := range filters {
		ok, err := f.Apply(ca)
		if err != nil {
			return false, err
		}
		match = match && ok
	}
	return match, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NaN never satisfies any operator
func compareFloat(op Operator, v, threshold float64) bool {
	switch op {
	case OpEqual:
		return v == threshold
	case OpLessOrEqual:
		return v <= threshold
	case OpGreaterOrEqual:
		return v >= threshold
	}
	return false
}

func compareTime(op Operator, v, threshold time.Time) bool {
	switch op {
	case OpEqual:
		return v.Equal(threshold)
	case OpLessOrEqual:
		return !v.After(threshold)
	case OpGreaterOrEqual:
		return !v.Before(threshold)
	}
	return false
}

func compareString(op Operator, v, threshold string) bool {
	switch op {
	case OpEqual:
		return v == threshold
	case OpLessOrEqual:
		return v <= threshold
	case OpGreaterOrEqual:
		return v >= threshold
	}
	return false
}

// false < true
func compareBool(op Operator, v, threshold bool) bool {
	switch op {
	case OpEqual:
		return v == threshold
	case OpLessOrEqual:
		return !v || threshold
	case OpGreaterOrEqual:
		return v || !threshold
	}
	return false
}
