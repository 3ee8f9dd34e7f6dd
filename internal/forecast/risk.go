package forecast

import "github.com/Dan9191/cash-coach/internal/models"

// DetectRisk reports the span from the first to the last negative point,
// or nil when the balance never drops below zero.
func DetectRisk(points []models.ProjectionPoint) *models.RiskWindow {
	first, last := -1, -1
	for i, p := range points {
		if p.Balance < 0 {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return nil
	}
	return &models.RiskWindow{
		From: points[first].Date,
		To:   points[last].Date,
		Min:  minBalance(points),
	}
}

func minBalance(points []models.ProjectionPoint) float64 {
	low := points[0].Balance
	for _, p := range points[1:] {
		if p.Balance < low {
			low = p.Balance
		}
	}
	return low
}

// firstNegative returns the index of the first negative point or -1
func firstNegative(points []models.ProjectionPoint) int {
	for i, p := range points {
		if p.Balance < 0 {
			return i
		}
	}
	return -1
}
