package httpserver

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/capsulahaus/shop/internal/domain"
)

func (s *Server) adminExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.List(r.Context(), "")
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"Order", "Number", "Created", "Status", "Name", "Phone", "Email", "Items", "Total", "Cancellation reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, o := range orders {
		items := ""
		for _, it := range o.Items {
			if items != "" {
				items += "; "
			}
			items += fmt.Sprintf("%s x%d", it.Name, it.Qty)
		}
		values := []any{o.ID, o.OrderNumber, o.CreatedAt.Format("2006-01-02 15:04"), string(o.Status), o.Name, o.Phone, o.Email, items, o.Total, o.CancellationReason}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=orders.xlsx")
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("orders export")
	}
}

func (s *Server) adminExportProducts(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.Query(r.Context(), domain.ProductQuery{PageSize: 10000})
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"Slug", "Name", "Category", "Price", "Guests", "Dimensions", "In stock"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, p := range res.Items {
		values := []any{p.Slug, p.Name, p.Category, p.Price, p.Guests, p.Dimensions, p.InStock}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("products export")
	}
}
