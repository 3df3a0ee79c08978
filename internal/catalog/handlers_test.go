package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/jmfavre/facture-api/internal/catalog"
	"github.com/jmfavre/facture-api/internal/common"
	"github.com/jmfavre/facture-api/internal/match"
)

type fakeQueries struct {
	rows []catalog.ProductRow
	err  error
}

func (f fakeQueries) ListActiveProducts(context.Context) ([]catalog.ProductRow, error) {
	return f.rows, f.err
}

type searchResponse struct {
	Data []catalog.CandidatePayload `json:"data"`
}

type productsResponse struct {
	Data []catalog.ProductPayload `json:"data"`
}

func pgUUID(t *testing.T, value string) pgtype.UUID {
	t.Helper()
	id, err := uuid.Parse(value)
	require.NoError(t, err)
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgText(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}

func fixtureRows(t *testing.T) []catalog.ProductRow {
	return []catalog.ProductRow{
		{
			ID:          pgUUID(t, "11111111-1111-1111-1111-111111111111"),
			Name:        "Gruyère AOP 200g",
			Description: pgText("fromage à pâte dure"),
			Code:        pgText("GRY-200"),
			Unit:        pgText("pce"),
			UnitPrice:   "8.90",
			TaxRate:     "2.5",
		},
		{
			ID:          pgUUID(t, "22222222-2222-2222-2222-222222222222"),
			Name:        "Service traiteur",
			Description: pgText("forfait horaire"),
			Code:        pgText("SRV-01"),
			Unit:        pgText("h"),
			UnitPrice:   "95.00",
			TaxRate:     "8.1",
		},
	}
}

func newHandler(t *testing.T, rows []catalog.ProductRow) *catalog.Handler {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:    fakeQueries{rows: rows},
		Dictionary: match.DefaultDictionary(),
	})
	require.NoError(t, err)
	return catalog.NewHandler(catalog.HandlerConfig{Service: svc})
}

func TestProductsList(t *testing.T) {
	handler := newHandler(t, fixtureRows(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	handler.Products(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, "Gruyère AOP 200g", resp.Data[0].Name)
	require.Equal(t, "GRY-200", resp.Data[0].Code)
	require.Equal(t, "8.9", resp.Data[0].UnitPrice.String())
}

func TestProductsPagination(t *testing.T) {
	handler := newHandler(t, fixtureRows(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&limit=1", nil)
	rec := httptest.NewRecorder()
	handler.Products(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []catalog.ProductPayload `json:"data"`
		Pagination common.Pagination        `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "Service traiteur", resp.Data[0].Name)
	require.Equal(t, 2, resp.Pagination.Page)
	require.Equal(t, 1, resp.Pagination.PerPage)
	require.Equal(t, 2, resp.Pagination.TotalItems)
}

func TestSearchByCode(t *testing.T) {
	handler := newHandler(t, fixtureRows(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/search?q=gry-200", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "GRY-200", resp.Data[0].Product.Code)
	require.Equal(t, 1, resp.Data[0].ExactTokenMatches)
}

func TestSearchFuzzyCrossLingual(t *testing.T) {
	handler := newHandler(t, fixtureRows(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/search?q=cheese", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	require.Equal(t, "Gruyère AOP 200g", resp.Data[0].Product.Name)
}

func TestSearchEmptyQuery(t *testing.T) {
	handler := newHandler(t, fixtureRows(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/search?q=", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Data)
}

func TestProductsProviderError(t *testing.T) {
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Queries: fakeQueries{err: context.DeadlineExceeded},
	})
	require.NoError(t, err)
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	handler.Products(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
