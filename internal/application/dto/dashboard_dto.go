package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts  int `json:"total_products"` // activos
	TotalUsers     int `json:"total_users"`
	TodayMovements int `json:"today_movements"`

	// TodaySalesEstimate es Σ(cantidad SALIDA × precio actual) de hoy. No es un dato contable.
	TodaySalesEstimate decimal.Decimal `json:"today_sales_estimate"`
	SalesEstimated     bool            `json:"sales_estimated"`

	LowStockThreshold int               `json:"low_stock_threshold"`
	LowStock          []LowStockItemDTO `json:"low_stock"`

	DateLabel string `json:"date_label"` // ej: "16 de octubre de 2026"
}

// LowStockItemDTO producto activo con stock bajo el umbral.
type LowStockItemDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Stock       int64  `json:"stock"`
}
