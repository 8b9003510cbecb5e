package dashboard

import (
	"sort"
	"time"

	"github.com/gigapp/gig/backend/internal/contracts"
)

// NextUpcomingLimit is how many upcoming confirmed contracts the dashboard lists
const NextUpcomingLimit = 2

// Summary is the derived dashboard view of a contract collection.
// It is recomputed from scratch whenever the collection changes.
type Summary struct {
	TotalRevenue           float64                  `json:"totalRevenue"`
	PendingCount           int                      `json:"pendingCount"`
	UpcomingConfirmedCount int                      `json:"upcomingConfirmedCount"`
	StatusCounts           map[contracts.Status]int `json:"statusCounts"`
	MonthlyRevenue         [12]float64              `json:"monthlyRevenue"`
	NextUpcoming           []contracts.Contract     `json:"nextUpcoming"`
	Total                  int                      `json:"total"`
}

// Aggregate computes the dashboard summary. now decides what is upcoming:
// a confirmed contract is upcoming when its event day is after today.
// Malformed budgets count as 0 and malformed dates are left out of the
// monthly buckets and the upcoming list.
//
// Months come from the date prefix of the event date as written, so
// "2025-03-31T23:00:00Z" is a March contract in every time zone.
func Aggregate(collection []contracts.Contract, now time.Time) Summary {
	s := Summary{
		StatusCounts: make(map[contracts.Status]int, len(contracts.Statuses)),
		NextUpcoming: []contracts.Contract{},
		Total:        len(collection),
	}
	for _, status := range contracts.Statuses {
		s.StatusCounts[status] = 0
	}

	type upcoming struct {
		day time.Time
		c   contracts.Contract
	}
	var future []upcoming

	for _, c := range collection {
		if c.Status.Valid() {
			s.StatusCounts[c.Status]++
		}

		switch c.Status {
		case contracts.StatusPending:
			s.PendingCount++
		case contracts.StatusConfirmed:
			amount := c.Budget.Amount()
			s.TotalRevenue += amount

			day, ok := c.EventDay()
			if !ok {
				continue
			}
			s.MonthlyRevenue[day.Month()-1] += amount

			if contracts.DaysBetween(now, day) > 0 {
				s.UpcomingConfirmedCount++
				future = append(future, upcoming{day: day, c: c})
			}
		}
	}

	sort.SliceStable(future, func(i, j int) bool {
		return future[i].day.Before(future[j].day)
	})
	for i := 0; i < len(future) && i < NextUpcomingLimit; i++ {
		s.NextUpcoming = append(s.NextUpcoming, future[i].c)
	}

	return s
}

// Empty reports whether there is nothing to chart
func (s Summary) Empty() bool {
	return s.Total == 0
}
