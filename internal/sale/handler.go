package sale

import (
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/respond"
	"lokanta-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type DetailRequest struct {
	DishID    uint    `json:"dish_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

type SaleRequest struct {
	SaleDate  string          `json:"sale_date"` // "2025-12-09"
	Customer  string          `json:"customer"`
	Notes     string          `json:"notes"`
	Details   []DetailRequest `json:"details"`
	ForceSale bool            `json:"force_sale"`
}

type UpdateRequest struct {
	SaleDate *string         `json:"sale_date"`
	Customer *string         `json:"customer"`
	Notes    *string         `json:"notes"`
	Details  []DetailRequest `json:"details"`
}

type DetailResponse struct {
	ID        uint    `json:"id"`
	DishID    uint    `json:"dish_id"`
	DishName  string  `json:"dish_name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
	Subtotal  float64 `json:"subtotal"`
}

type SaleResponse struct {
	ID        uint             `json:"id"`
	SaleDate  string           `json:"sale_date"`
	Customer  string           `json:"customer"`
	Notes     string           `json:"notes"`
	Total     float64          `json:"total"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"created_at"`
	Details   []DetailResponse `json:"details"`
}

func toResponse(s *models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:        s.ID,
		SaleDate:  s.SaleDate.Format("2006-01-02"),
		Customer:  s.Customer,
		Notes:     s.Notes,
		Total:     s.Total,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
		Details:   make([]DetailResponse, 0, len(s.Details)),
	}
	for _, d := range s.Details {
		resp.Details = append(resp.Details, DetailResponse{
			ID:        d.ID,
			DishID:    d.DishID,
			DishName:  d.Dish.Name,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Discount:  d.Discount,
			Subtotal:  d.Subtotal,
		})
	}
	return resp
}

func toDetailInputs(details []DetailRequest) []DetailInput {
	in := make([]DetailInput, 0, len(details))
	for _, d := range details {
		in = append(in, DetailInput{
			DishID:    d.DishID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Discount:  d.Discount,
		})
	}
	return in
}

// POST /api/sales (?force=true ile stok doğrulaması atlanır)
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaleRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}

		d, err := time.Parse("2006-01-02", body.SaleDate)
		if err != nil {
			return apperr.BadRequest("Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		force := body.ForceSale || c.QueryBool("force", false)

		s, err := Create(database.DB, Input{
			SaleDate: d,
			Customer: body.Customer,
			Notes:    body.Notes,
			Details:  toDetailInputs(body.Details),
		}, force)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, toResponse(s), "Satış oluşturuldu", nil)
	}
}

// POST /api/sales/validate-stock
func ValidateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Details []DetailRequest `json:"details"`
		}
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if len(body.Details) == 0 {
			return apperr.BadRequest("Doğrulanacak kalem yok")
		}

		items := make([]stock.SaleItem, 0, len(body.Details))
		for _, d := range body.Details {
			items = append(items, stock.SaleItem{DishID: d.DishID, Quantity: d.Quantity})
		}

		validation, err := stock.ValidateSale(database.DB, items)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, validation, "", nil)
	}
}

// GET /api/sales
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		pageSize := c.QueryInt("pageSize", 10)

		filters := ListFilters{
			Search: c.Query("search"),
			Status: c.Query("status"),
		}
		if s := c.Query("start_date"); s != "" {
			if d, err := time.Parse("2006-01-02", s); err == nil {
				filters.StartDate = &d
			}
		}
		if s := c.Query("end_date"); s != "" {
			if d, err := time.Parse("2006-01-02", s); err == nil {
				filters.EndDate = &d
			}
		}

		sales, total, err := List(database.DB, filters, page, pageSize)
		if err != nil {
			return err
		}

		resp := make([]SaleResponse, 0, len(sales))
		for i := range sales {
			resp = append(resp, toResponse(&sales[i]))
		}

		pagination := respond.NewPagination(page, pageSize, total)
		return respond.Success(c, fiber.StatusOK, resp, "", &respond.Meta{
			Pagination: &pagination,
			Filters:    filters,
		})
	}
}

// GET /api/sales/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		s, err := GetByID(database.DB, uint(id))
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, toResponse(s), "", nil)
	}
}

// PATCH /api/sales/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		var body UpdateRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}

		in := UpdateInput{Customer: body.Customer, Notes: body.Notes}
		if body.SaleDate != nil {
			d, err := time.Parse("2006-01-02", *body.SaleDate)
			if err != nil {
				return apperr.BadRequest("Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			in.SaleDate = &d
		}
		if body.Details != nil {
			in.Details = toDetailInputs(body.Details)
		}

		s, err := Update(database.DB, uint(id), in)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, toResponse(s), "Satış güncellendi", nil)
	}
}

// DELETE /api/sales/:id (iptal)
func CancelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		s, err := Cancel(database.DB, uint(id))
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, toResponse(s), "Satış iptal edildi", nil)
	}
}
