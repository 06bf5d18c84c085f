package store

import (
	"context"
	"database/sql"
)

type DashboardStats struct {
	TotalFarmers    int              `json:"total_farmers"`
	TotalItems      int              `json:"total_items"`
	ItemsByStatus   map[string]int   `json:"items_by_status"`
	TotalOrders     int              `json:"total_orders"`
	TotalVolume     int64            `json:"total_volume"`
	ItemOrderCounts []ItemOrderCount `json:"item_order_counts"`
}

type ItemOrderCount struct {
	ItemID     int64  `json:"item_id"`
	Name       string `json:"name"`
	OrderCount int    `json:"order_count"`
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ItemsByStatus: make(map[string]int),
	}

	// 1. Totals
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM farmers WHERE is_registered = 1").Scan(&stats.TotalFarmers)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&stats.TotalItems)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(paid_amount), 0) FROM orders").Scan(&stats.TotalOrders, &stats.TotalVolume)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	// 2. Items by status
	rows, err := s.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM items GROUP BY status")
	if err != nil {
		return nil, err
	}
	// The pool holds a single connection, so rows must be closed before the next query.
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ItemsByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 3. Orders per item
	itemRows, err := s.DB.QueryContext(ctx, `
		SELECT i.id, i.name, COUNT(o.idx) AS order_count
		FROM items i
		LEFT JOIN orders o ON i.id = o.item_id
		GROUP BY i.id
		ORDER BY order_count DESC, i.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var ioc ItemOrderCount
		if err := itemRows.Scan(&ioc.ItemID, &ioc.Name, &ioc.OrderCount); err != nil {
			return nil, err
		}
		stats.ItemOrderCounts = append(stats.ItemOrderCounts, ioc)
	}

	return stats, itemRows.Err()
}
