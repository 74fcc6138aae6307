package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/usecase"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	apphttp "github.com/logiruta/logistica-api/internal/interfaces/http"
)

// memCompanyRepo guarda empresas en memoria para probar el handler de punta a punta.
type memCompanyRepo map[string]*entity.Company

func (r memCompanyRepo) Create(_ context.Context, c *entity.Company) error { r[c.ID] = c; return nil }
func (r memCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r[id], nil
}
func (r memCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r {
		out = append(out, c)
	}
	return out, nil
}

func newCompanyApp(repo memCompanyRepo) *fiber.App {
	app := fiber.New()
	h := apphttp.NewCompanyHandler(usecase.NewCompanyUseCase(repo))
	app.Get("/api/companies/:id", h.GetByID)
	return app
}

// Consultar una empresa que no existe debe responder 404, no 200 con cuerpo nulo.
func TestCompanyGetByID_NoExiste_Retorna404(t *testing.T) {
	app := newCompanyApp(memCompanyRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/companies/deadbeef-0000-0000-0000-000000000000", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "NOT_FOUND", out.Code)
}

func TestCompanyGetByID_Existente_Retorna200(t *testing.T) {
	now := time.Now()
	repo := memCompanyRepo{
		"11111111-1111-1111-1111-111111111111": {
			ID:        "11111111-1111-1111-1111-111111111111",
			Name:      "Distribuidora El Puerto",
			TaxID:     "900123456-7",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	app := newCompanyApp(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/companies/11111111-1111-1111-1111-111111111111", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.CompanyResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Distribuidora El Puerto", out.Name)
}
