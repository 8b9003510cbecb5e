package dashboard

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigapp/gig/backend/internal/contracts"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)

func confirmed(id, date string, amount float64) contracts.Contract {
	return contracts.Contract{
		ID:        contracts.ID(id),
		EventDate: date,
		Budget:    contracts.NewBudget(amount),
		Status:    contracts.StatusConfirmed,
	}
}

func TestAggregate_Empty(t *testing.T) {
	for _, collection := range [][]contracts.Contract{nil, {}} {
		s := Aggregate(collection, now)

		assert.True(t, s.Empty())
		assert.Zero(t, s.TotalRevenue)
		assert.Zero(t, s.PendingCount)
		assert.Zero(t, s.UpcomingConfirmedCount)
		assert.Equal(t, [12]float64{}, s.MonthlyRevenue)
		require.NotNil(t, s.NextUpcoming)
		assert.Empty(t, s.NextUpcoming)
		assert.Len(t, s.StatusCounts, 4)
		for _, status := range contracts.Statuses {
			assert.Equal(t, 0, s.StatusCounts[status])
		}
		assert.Nil(t, s.Chart())
	}
}

func TestAggregate_MalformedBudgetCountsAsZero(t *testing.T) {
	var bad contracts.Budget
	require.NoError(t, json.Unmarshal([]byte(`"bad"`), &bad))

	collection := []contracts.Contract{
		confirmed("1", "2025-03-01", 100),
		confirmed("2", "2025-03-02", 200),
		{ID: "3", EventDate: "2025-03-03", Budget: bad, Status: contracts.StatusConfirmed},
	}

	s := Aggregate(collection, now)

	assert.Equal(t, 300.0, s.TotalRevenue)
	assert.False(t, math.IsNaN(s.TotalRevenue))
	assert.Equal(t, 300.0, s.MonthlyRevenue[time.March-1])
}

func TestAggregate_Counts(t *testing.T) {
	collection := []contracts.Contract{
		{ID: "1", Status: contracts.StatusPending, EventDate: "2025-07-01", Budget: contracts.NewBudget(999)},
		{ID: "2", Status: contracts.StatusPending, EventDate: "2025-07-02"},
		{ID: "3", Status: contracts.StatusDeclined, EventDate: "2025-07-03", Budget: contracts.NewBudget(50)},
		{ID: "4", Status: contracts.StatusCanceled, EventDate: "2025-07-04"},
		confirmed("5", "2025-01-10", 400),
		{ID: "6", Status: contracts.Status("archived")},
	}

	s := Aggregate(collection, now)

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.PendingCount)
	assert.Equal(t, 400.0, s.TotalRevenue)
	assert.Equal(t, map[contracts.Status]int{
		contracts.StatusPending:   2,
		contracts.StatusConfirmed: 1,
		contracts.StatusDeclined:  1,
		contracts.StatusCanceled:  1,
	}, s.StatusCounts)
	assert.Equal(t, 400.0, s.MonthlyRevenue[time.January-1])
	assert.Zero(t, s.UpcomingConfirmedCount)
}

func TestAggregate_NonFiniteAndNegativeBudgetsCountAsZero(t *testing.T) {
	collection := []contracts.Contract{
		confirmed("1", "2025-03-01", 100),
		confirmed("2", "2025-03-02", math.NaN()),
		confirmed("3", "2025-03-03", math.Inf(1)),
		confirmed("4", "2025-03-04", -50),
	}

	s := Aggregate(collection, now)

	assert.Equal(t, 100.0, s.TotalRevenue)
	assert.Equal(t, 100.0, s.MonthlyRevenue[time.March-1])
	for _, v := range s.MonthlyRevenue {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestAggregate_MonthFromDatePrefix(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	collection := []contracts.Contract{
		confirmed("1", "2025-03-31T23:00:00Z", 80),
	}

	s := Aggregate(collection, now.In(plus2))

	assert.Equal(t, 80.0, s.MonthlyRevenue[time.March-1])
	assert.Zero(t, s.MonthlyRevenue[time.April-1])
}

func TestAggregate_MonthlyRevenue(t *testing.T) {
	collection := []contracts.Contract{
		confirmed("1", "2025-01-05", 100),
		confirmed("2", "2024-01-20T21:00:00.000Z", 50),
		confirmed("3", "2025-12-31", 25),
		confirmed("4", "not-a-date", 10),
	}

	s := Aggregate(collection, now)

	assert.Equal(t, 150.0, s.MonthlyRevenue[0])
	assert.Equal(t, 25.0, s.MonthlyRevenue[11])
	assert.Equal(t, 185.0, s.TotalRevenue)

	var bucketed float64
	for _, v := range s.MonthlyRevenue {
		bucketed += v
	}
	assert.Equal(t, 175.0, bucketed)
}

func TestAggregate_NextUpcoming(t *testing.T) {
	collection := []contracts.Contract{
		confirmed("late", "2025-09-01", 1),
		confirmed("past", "2025-06-01", 1),
		confirmed("today", "2025-06-15", 1),
		confirmed("soon", "2025-06-16", 1),
		confirmed("mid", "2025-07-04T20:00:00", 1),
		{ID: "pending", Status: contracts.StatusPending, EventDate: "2025-06-17"},
	}

	s := Aggregate(collection, now)

	assert.Equal(t, 3, s.UpcomingConfirmedCount)
	require.Len(t, s.NextUpcoming, NextUpcomingLimit)
	assert.Equal(t, contracts.ID("soon"), s.NextUpcoming[0].ID)
	assert.Equal(t, contracts.ID("mid"), s.NextUpcoming[1].ID)
}

func TestAggregate_NextUpcomingStableOnTies(t *testing.T) {
	collection := []contracts.Contract{
		confirmed("a", "2025-08-01", 1),
		confirmed("b", "2025-08-01", 1),
		confirmed("c", "2025-08-01", 1),
	}

	s := Aggregate(collection, now)

	require.Len(t, s.NextUpcoming, 2)
	assert.Equal(t, contracts.ID("a"), s.NextUpcoming[0].ID)
	assert.Equal(t, contracts.ID("b"), s.NextUpcoming[1].ID)
}

func TestSummary_Chart(t *testing.T) {
	collection := []contracts.Contract{
		confirmed("1", "2025-02-10", 120),
		{ID: "2", Status: contracts.StatusPending, EventDate: "2025-02-11"},
	}

	chart := Aggregate(collection, now).Chart()
	require.NotNil(t, chart)

	require.Len(t, chart.Revenue, 12)
	assert.Equal(t, Point{Label: "Jan", Value: 0}, chart.Revenue[0])
	assert.Equal(t, Point{Label: "Feb", Value: 120}, chart.Revenue[1])
	assert.Equal(t, "Dec", chart.Revenue[11].Label)

	assert.Equal(t, []Point{
		{Label: "Pending", Value: 1},
		{Label: "Confirmed", Value: 1},
		{Label: "Declined", Value: 0},
		{Label: "Canceled", Value: 0},
	}, chart.Status)
}
