package dashboard

import (
	"time"

	"github.com/gigapp/gig/backend/internal/contracts"
)

// Point is one labelled value of a chart series
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart holds the series a front-end needs for the revenue bar chart and the status pie
type Chart struct {
	Revenue []Point `json:"revenue"`
	Status  []Point `json:"status"`
}

// Chart returns nil for an empty summary so callers render the empty state instead
func (s Summary) Chart() *Chart {
	if s.Empty() {
		return nil
	}

	chart := &Chart{
		Revenue: make([]Point, 0, len(s.MonthlyRevenue)),
		Status:  make([]Point, 0, len(contracts.Statuses)),
	}
	for i, v := range s.MonthlyRevenue {
		chart.Revenue = append(chart.Revenue, Point{
			Label: time.Month(i + 1).String()[:3],
			Value: v,
		})
	}
	for _, status := range contracts.Statuses {
		chart.Status = append(chart.Status, Point{
			Label: status.Label(),
			Value: float64(s.StatusCounts[status]),
		})
	}
	return chart
}
