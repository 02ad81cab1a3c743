package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/resources"
	"github.com/restofleet/pos-admin-api/internal/service"
)

type productFixture struct {
	router http.Handler
	db     *gorm.DB
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Restaurant{}, &domain.Supplier{}, &domain.Ingredient{}, &domain.Product{}, &domain.ProductIngredient{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	resourceRepo := repository.NewResourceRepository[domain.Product](db, "PRODUCTS", "Restaurant")
	resourceSvc := service.NewResourceService[domain.Product](resourceRepo, service.NewInMemoryListCacheStore(), resources.ProductsConfig, time.Minute, nil)
	svc := service.NewProductService(resourceSvc, repository.NewProductRepository(db))
	h := NewProductHandler(svc)

	r := chi.NewRouter()
	r.Get("/api/v1/products/{id}/composition", h.GetComposition)
	r.Put("/api/v1/products/{id}/composition", h.SetComposition)
	return &productFixture{router: r, db: db}
}

func (f *productFixture) seedCatalog(t *testing.T) (domain.Product, []domain.Ingredient) {
	t.Helper()
	product := domain.Product{Name: "Phở bò", SellingPrice: 65000, Status: "ACTIVE", Active: true}
	if err := f.db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	ingredients := []domain.Ingredient{
		{Name: "Bánh phở", Unit: "kg", Price: 20000, Active: true},
		{Name: "Thịt bò", Unit: "kg", Price: 250000, Active: true},
	}
	if err := f.db.Create(&ingredients).Error; err != nil {
		t.Fatalf("seed ingredients: %v", err)
	}
	return product, ingredients
}

func (f *productFixture) put(t *testing.T, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestSetCompositionRecomputesCostPrice(t *testing.T) {
	f := newProductFixture(t)
	product, ingredients := f.seedCatalog(t)

	body := fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":0.2},{"ingredientId":%d,"quantity":0.15}]}`,
		ingredients[0].ID, ingredients[1].ID)
	rr := f.put(t, fmt.Sprintf("/api/v1/products/%d/composition", product.ID), body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	env := decodeEnvelope(t, rr)
	data := env["data"].(map[string]any)
	// 0.2*20000 + 0.15*250000
	if got := data["costPrice"].(float64); got != 41500 {
		t.Fatalf("expected cost price 41500, got %v", got)
	}
	rows := data["composition"].([]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 composition rows, got %d", len(rows))
	}

	var persisted domain.Product
	if err := f.db.First(&persisted, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if persisted.CostPrice != 41500 {
		t.Fatalf("cost price not persisted, got %v", persisted.CostPrice)
	}
}

func TestSetCompositionReplacesPreviousRows(t *testing.T) {
	f := newProductFixture(t)
	product, ingredients := f.seedCatalog(t)

	first := fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":1}]}`, ingredients[0].ID)
	if rr := f.put(t, fmt.Sprintf("/api/v1/products/%d/composition", product.ID), first); rr.Code != http.StatusOK {
		t.Fatalf("first replace: %d: %s", rr.Code, rr.Body.String())
	}
	second := fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":0.5}]}`, ingredients[1].ID)
	rr := f.put(t, fmt.Sprintf("/api/v1/products/%d/composition", product.ID), second)
	if rr.Code != http.StatusOK {
		t.Fatalf("second replace: %d: %s", rr.Code, rr.Body.String())
	}

	var count int64
	if err := f.db.Model(&domain.ProductIngredient{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected old rows replaced, got %d rows", count)
	}
}

func TestSetCompositionValidation(t *testing.T) {
	f := newProductFixture(t)
	product, ingredients := f.seedCatalog(t)

	cases := []struct {
		name string
		url  string
		body string
		code int
	}{
		{
			name: "zero quantity",
			url:  fmt.Sprintf("/api/v1/products/%d/composition", product.ID),
			body: fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":0}]}`, ingredients[0].ID),
			code: http.StatusBadRequest,
		},
		{
			name: "missing ingredient id",
			url:  fmt.Sprintf("/api/v1/products/%d/composition", product.ID),
			body: `{"composition":[{"quantity":1}]}`,
			code: http.StatusBadRequest,
		},
		{
			name: "unknown ingredient",
			url:  fmt.Sprintf("/api/v1/products/%d/composition", product.ID),
			body: `{"composition":[{"ingredientId":9999,"quantity":1}]}`,
			code: http.StatusBadRequest,
		},
		{
			name: "unknown product",
			url:  "/api/v1/products/9999/composition",
			body: fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":1}]}`, ingredients[0].ID),
			code: http.StatusNotFound,
		},
		{
			name: "malformed body",
			url:  fmt.Sprintf("/api/v1/products/%d/composition", product.ID),
			body: `{"composition":`,
			code: http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.put(t, tc.url, tc.body)
			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSetCompositionFailureLeavesRecipeIntact(t *testing.T) {
	f := newProductFixture(t)
	product, ingredients := f.seedCatalog(t)

	seed := fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":0.2}]}`, ingredients[1].ID)
	if rr := f.put(t, fmt.Sprintf("/api/v1/products/%d/composition", product.ID), seed); rr.Code != http.StatusOK {
		t.Fatalf("seed composition: %d: %s", rr.Code, rr.Body.String())
	}

	bad := fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":0.1},{"ingredientId":9999,"quantity":1}]}`, ingredients[1].ID)
	rr := f.put(t, fmt.Sprintf("/api/v1/products/%d/composition", product.ID), bad)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}

	var rows []domain.ProductIngredient
	if err := f.db.Where("product_id = ?", product.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 || rows[0].IngredientID != ingredients[1].ID || rows[0].Quantity != 0.2 {
		t.Fatalf("recipe changed on failed replace: %+v", rows)
	}

	var persisted domain.Product
	if err := f.db.First(&persisted, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	// 0.2*250000
	if persisted.CostPrice != 50000 {
		t.Fatalf("cost price after failed replace = %v, want 50000", persisted.CostPrice)
	}
}

func TestGetComposition(t *testing.T) {
	f := newProductFixture(t)
	product, ingredients := f.seedCatalog(t)

	body := fmt.Sprintf(`{"composition":[{"ingredientId":%d,"quantity":2}]}`, ingredients[0].ID)
	if rr := f.put(t, fmt.Sprintf("/api/v1/products/%d/composition", product.ID), body); rr.Code != http.StatusOK {
		t.Fatalf("replace: %d: %s", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/products/%d/composition", product.ID), nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr)
	data := env["data"].(map[string]any)
	rows := data["composition"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0].(map[string]any)
	ing := row["ingredient"].(map[string]any)
	if ing["name"] != "Bánh phở" {
		t.Fatalf("unexpected ingredient: %v", ing)
	}
}
