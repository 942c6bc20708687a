package repository

import "time"

// Query structs carry already-parsed filters from services to repositories.
// Day, when set, restricts created_at to [Day, Day+24h).

type StockQuery struct {
	ProductID    *int64
	Name         string
	MovementType string
	Day          *time.Time
}

type ProductQuery struct {
	Name         string
	Search       string
	Day          *time.Time
	Status       string
	ReorderPoint int
}

type OrderQuery struct {
	OrderID string
	Search  string
	Phone   string
	Day     *time.Time
}

func dayRange(day time.Time) (time.Time, time.Time) {
	return day, day.Add(24 * time.Hour)
}
