package filters

import (
	"math"
	"testing"
	"time"

	"neowatch/internal/models"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approachAt(t time.Time, distance, velocity float64) *models.CloseApproach {
	return &models.CloseApproach{Designation: "2000 AB", Time: &t, Distance: distance, Velocity: velocity}
}

func linked(ca *models.CloseApproach, neo *models.NearEarthObject) *models.CloseApproach {
	ca.Link(neo)
	return ca
}

func TestDateFilter(t *testing.T) {
	ca := approachAt(time.Date(2025, time.January, 1, 18, 45, 0, 0, time.UTC), 0.1, 5)
	day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter AttributeFilter
		want   bool
	}{
		{"on the day", Date(OpEqual, day), true},
		{"on another day", Date(OpEqual, day.AddDate(0, 0, 1)), false},
		{"start date same day", Date(OpGreaterOrEqual, day), true},
		{"start date next day", Date(OpGreaterOrEqual, day.AddDate(0, 0, 1)), false},
		{"end date same day", Date(OpLessOrEqual, day), true},
		{"end date previous day", Date(OpLessOrEqual, day.AddDate(0, 0, -1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(ca)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeFilter(t *testing.T) {
	at := time.Date(2025, time.January, 1, 18, 45, 0, 0, time.UTC)
	ca := approachAt(at, 0.1, 5)

	got, err := Time(OpGreaterOrEqual, at.Add(-time.Minute)).Apply(ca)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Time(OpLessOrEqual, at.Add(-time.Minute)).Apply(ca)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = Time(OpEqual, at).Apply(ca)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestDateFilterWithoutTime(t *testing.T) {
	ca := &models.CloseApproach{Designation: "2000 AB"}
	got, err := Date(OpEqual, time.Now()).Apply(ca)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = Time(OpLessOrEqual, time.Now()).Apply(ca)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestNumericFilters(t *testing.T) {
	ca := linked(
		approachAt(time.Now(), 0.05, 12.5),
		&models.NearEarthObject{Designation: "2000 AB", Diameter: 0.3},
	)

	tests := []struct {
		name   string
		filter AttributeFilter
		want   bool
	}{
		{"distance max", Distance(OpLessOrEqual, 0.05), true},
		{"distance min", Distance(OpGreaterOrEqual, 0.06), false},
		{"velocity min", Velocity(OpGreaterOrEqual, 12.5), true},
		{"velocity max", Velocity(OpLessOrEqual, 12), false},
		{"diameter min", Diameter(OpGreaterOrEqual, 0.1), true},
		{"diameter max", Diameter(OpLessOrEqual, 0.1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(ca)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownDiameterNeverMatches(t *testing.T) {
	ca := linked(approachAt(time.Now(), 0, 0), &models.NearEarthObject{Designation: "2000 AB", Diameter: math.NaN()})

	for _, op := range []Operator{OpEqual, OpLessOrEqual, OpGreaterOrEqual} {
		got, err := Diameter(op, 1).Apply(ca)
		require.NoError(t, err)
		assert.False(t, got, op.String())
	}
}

func TestHazardousAndNameFilters(t *testing.T) {
	ca := linked(approachAt(time.Now(), 0, 0), &models.NearEarthObject{Designation: "2000 AB", Name: "Apophis", Hazardous: true})

	got, err := Hazardous(true).Apply(ca)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Hazardous(false).Apply(ca)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = Name("Apophis").Apply(ca)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Name("apophis").Apply(ca)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = Designation("2000 AB").Apply(ca)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestNEOSourcedFiltersOnUnlinkedApproach(t *testing.T) {
	ca := approachAt(time.Now(), 0.1, 1)

	for _, f := range []AttributeFilter{Hazardous(true), Diameter(OpGreaterOrEqual, 0), Name("Apophis")} {
		_, err := f.Apply(ca)
		assert.True(t, errors.Is(err, ErrMissingNEO), f.String())
	}

	got, err := Designation("2000 AB").Apply(ca)
	require.NoError(t, err, "designation comes from the approach itself")
	assert.True(t, got)
}

func TestMatchAll(t *testing.T) {
	ca := approachAt(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 0.05, 10)

	ok, err := MatchAll(ca, nil)
	require.NoError(t, err)
	assert.True(t, ok, "no filters match everything")

	ok, err = MatchAll(ca, []AttributeFilter{Distance(OpLessOrEqual, 0.1), Velocity(OpGreaterOrEqual, 5)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MatchAll(ca, []AttributeFilter{Distance(OpLessOrEqual, 0.01), Velocity(OpGreaterOrEqual, 5)})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = MatchAll(ca, []AttributeFilter{Distance(OpLessOrEqual, 0.01), Hazardous(true)})
	assert.ErrorIs(t, err, ErrMissingNEO, "missing NEO wins over an earlier false")
}

func TestBuild(t *testing.T) {
	assert.Empty(t, Build(Criteria{}))

	day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	minDist, maxVel := 0.01, 20.0
	hazardous := false

	fs := Build(Criteria{
		StartDate:   &day,
		DistanceMin: &minDist,
		VelocityMax: &maxVel,
		Hazardous:   &hazardous,
		Name:        "Eros",
	})
	require.Len(t, fs, 5)

	assert.Equal(t, AttrDate, fs[0].Attribute())
	assert.Equal(t, OpGreaterOrEqual, fs[0].Operator())
	assert.Equal(t, "distance >= 0.01", fs[1].String())
	assert.Equal(t, "velocity <= 20", fs[2].String())
	assert.Equal(t, "hazardous == false", fs[3].String())
	assert.Equal(t, `name == "Eros"`, fs[4].String())
}
