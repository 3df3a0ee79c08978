package catalog

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jmfavre/facture-api/internal/common"
	"github.com/jmfavre/facture-api/internal/match"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// ProductPayload is the public product representation.
type ProductPayload struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Code        string          `json:"code,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// CandidatePayload is one ranked entry in a search response.
type CandidatePayload struct {
	Product           ProductPayload `json:"product"`
	Score             float64        `json:"score"`
	ExactTokenMatches int            `json:"exactTokenMatches"`
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	products, err := h.service.ActiveProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	page, perPage := common.ParsePagination(r, defaultProductsPerPage)
	pageItems := paginate(products, page, perPage)
	payload := make([]ProductPayload, 0, len(pageItems))
	for _, p := range pageItems {
		payload = append(payload, productPayload(p))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       payload,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: len(products)},
	})
}

const defaultProductsPerPage = 50

func paginate(products []match.Product, page, perPage int) []match.Product {
	start := (page - 1) * perPage
	if start >= len(products) {
		return nil
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// Search handles GET /api/v1/products/search. An empty query yields an empty
// list; there is no browse-all behaviour on this endpoint.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	query := r.URL.Query().Get("q")
	candidates, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	payload := make([]CandidatePayload, 0, len(candidates))
	for _, c := range candidates {
		payload = append(payload, CandidatePayload{
			Product:           productPayload(c.Product),
			Score:             c.Score,
			ExactTokenMatches: c.ExactTokenMatches,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": payload})
}

func productPayload(p match.Product) ProductPayload {
	return ProductPayload{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Code:        p.Code,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		TaxRate:     p.TaxRate,
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}
