package dto

import "github.com/shopspring/decimal"

type ProductStats struct {
	Total      int64 `json:"total"`
	Normal     int64 `json:"normal"`
	Low        int64 `json:"low"`
	OutOfStock int64 `json:"out_of_stock"`
}

type OrderStats struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StatsResponse struct {
	Products  ProductStats       `json:"products"`
	Movements StockCountResponse `json:"movements"`
	Orders    OrderStats         `json:"orders"`
}
