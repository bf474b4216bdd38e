package purchase

import (
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

type DetailRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
}

type PurchaseRequest struct {
	SupplierID   *uint           `json:"supplier_id"`
	PurchaseDate string          `json:"purchase_date"` // "2025-12-09"
	Notes        string          `json:"notes"`
	Details      []DetailRequest `json:"details"`
}

type DetailResponse struct {
	ID             uint    `json:"id"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	IngredientUnit string  `json:"ingredient_unit"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	Subtotal       float64 `json:"subtotal"`
}

type PurchaseResponse struct {
	ID           uint             `json:"id"`
	SupplierID   *uint            `json:"supplier_id"`
	SupplierName string           `json:"supplier_name"`
	PurchaseDate string           `json:"purchase_date"`
	Notes        string           `json:"notes"`
	Total        float64          `json:"total"`
	Status       string           `json:"status"`
	CreatedAt    string           `json:"created_at"`
	Details      []DetailResponse `json:"details"`
}

func toResponse(p *models.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		PurchaseDate: p.PurchaseDate.Format("2006-01-02"),
		Notes:        p.Notes,
		Total:        p.Total,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
		Details:      make([]DetailResponse, 0, len(p.Details)),
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	for _, d := range p.Details {
		resp.Details = append(resp.Details, DetailResponse{
			ID:             d.ID,
			IngredientID:   d.IngredientID,
			IngredientName: d.Ingredient.Name,
			IngredientUnit: d.Ingredient.Unit,
			Quantity:       d.Quantity,
			UnitPrice:      d.UnitPrice,
			Subtotal:       d.Subtotal,
		})
	}
	return resp
}

func parseInput(body PurchaseRequest) (Input, error) {
	d, err := time.Parse("2006-01-02", body.PurchaseDate)
	if err != nil {
		return Input{}, apperr.BadRequest("Tarih formatı 'YYYY-MM-DD' olmalı")
	}

	in := Input{
		SupplierID:   body.SupplierID,
		PurchaseDate: d,
		Notes:        body.Notes,
		Details:      make([]DetailInput, 0, len(body.Details)),
	}
	for _, det := range body.Details {
		in.Details = append(in.Details, DetailInput{
			IngredientID: det.IngredientID,
			Quantity:     det.Quantity,
			UnitPrice:    det.UnitPrice,
		})
	}
	return in, nil
}

// POST /api/purchases
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}

		in, err := parseInput(body)
		if err != nil {
			return err
		}

		p, err := Create(database.DB, in)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, toResponse(p), "Alış oluşturuldu", nil)
	}
}

// GET /api/purchases
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		pageSize := c.QueryInt("pageSize", 10)

		filters := ListFilters{
			Search:     c.Query("search"),
			Status:     c.Query("status"),
			SupplierID: uint(c.QueryInt("supplier_id", 0)),
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

		purchases, total, err := List(database.DB, filters, page, pageSize)
		if err != nil {
			return err
		}

		resp := make([]PurchaseResponse, 0, len(purchases))
		for i := range purchases {
			resp = append(resp, toResponse(&purchases[i]))
		}

		pagination := respond.NewPagination(page, pageSize, total)
		return respond.Success(c, fiber.StatusOK, resp, "", &respond.Meta{
			Pagination: &pagination,
			Filters:    filters,
		})
	}
}

// GET /api/purchases/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		p, err := GetByID(database.DB, uint(id))
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, toResponse(p), "", nil)
	}
}

// PUT /api/purchases/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		var body PurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}

		in, err := parseInput(body)
		if err != nil {
			return err
		}

		p, err := Update(database.DB, uint(id), in)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, toResponse(p), "Alış güncellendi", nil)
	}
}

// DELETE /api/purchases/:id (iptal)
func CancelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		p, err := Cancel(database.DB, uint(id))
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, toResponse(p), "Alış iptal edildi", nil)
	}
}
