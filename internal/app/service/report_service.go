package service

import (
	"fmt"
	"time"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const ordersSheetName = "Orders"

var ordersExportHeaders = []string{
	"Order ID", "Date", "Customer", "Phone", "Province",
	"Items", "Total (THB)", "Payment Method", "Status",
}

type ReportService interface {
	BuildOrdersWorkbook(status model.OrderStatus) (*excelize.File, error)
}

type reportService struct {
	orderService OrderService
}

func NewReportService(orderService OrderService) ReportService {
	return &reportService{orderService: orderService}
}

// BuildOrdersWorkbook renders the admin order list into an XLSX workbook.
// The caller owns the file and must Close it.
func (s *reportService) BuildOrdersWorkbook(status model.OrderStatus) (*excelize.File, error) {
	orders, err := s.orderService.ListOrders(status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), ordersSheetName)

	for col, header := range ordersExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(ordersSheetName, cell, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, order := range orders {
		row := i + 2

		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Quantity
		}

		values := []interface{}{
			order.ID,
			order.CreatedAt.Format(time.DateTime),
			order.ShippingAddress.Name,
			order.ShippingAddress.Phone,
			order.ShippingAddress.Province,
			itemCount,
			order.TotalAmount,
			order.PaymentMethod,
			string(order.Status),
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(ordersSheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write order row: %w", err)
			}
		}
	}

	logger.Info("Orders workbook built", map[string]interface{}{
		"order_count": len(orders),
		"status":      status,
	})
	return f, nil
}
