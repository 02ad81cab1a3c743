package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/listquery"
)

func newRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Restaurant{}, &domain.DiningTable{},
		&domain.Supplier{}, &domain.Ingredient{},
		&domain.Product{}, &domain.ProductIngredient{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	r := domain.Restaurant{Name: "Nhà hàng A", Active: true}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	tables := []domain.DiningTable{
		{Name: "Bàn 1", Seats: 4, Location: "Tầng 1", Status: "AVAILABLE", Active: true, RestaurantID: r.ID},
		{Name: "Bàn 2", Seats: 2, Location: "Tầng 1", Status: "OCCUPIED", Active: true, RestaurantID: r.ID},
		{Name: "Bàn 3", Seats: 6, Location: "Tầng 2", Status: "AVAILABLE", Active: true, RestaurantID: r.ID},
		{Name: "Sân vườn 1", Seats: 8, Location: "Sân vườn", Status: "AVAILABLE", Active: false, RestaurantID: r.ID},
	}
	if err := db.Create(&tables).Error; err != nil {
		t.Fatalf("seed tables: %v", err)
	}
}

var tableFields = map[string]string{
	"name":     "name",
	"status":   "status",
	"location": "location",
}

func TestResourceRepositoryListFiltersAndPaginates(t *testing.T) {
	db := newRepositoryTestDB(t)
	seedTables(t, db)
	repo := NewResourceRepository[domain.DiningTable](db, "TABLES", "Restaurant")
	ctx := context.Background()

	filter, err := listquery.ParseFilter("name ~ 'Bàn' and status = AVAILABLE")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	page, err := repo.List(ctx, ListQuery{Page: 1, Size: 10, Filter: filter, Fields: tableFields, SortColumn: "name"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "Bàn 1" || page.Items[1].Name != "Bàn 3" {
		t.Fatalf("unexpected items: %+v", page.Items)
	}
	if page.Items[0].Restaurant == nil || page.Items[0].Restaurant.Name != "Nhà hàng A" {
		t.Fatalf("expected restaurant preloaded, got %+v", page.Items[0].Restaurant)
	}
}

func TestResourceRepositoryListInClause(t *testing.T) {
	db := newRepositoryTestDB(t)
	seedTables(t, db)
	repo := NewResourceRepository[domain.DiningTable](db, "TABLES")
	ctx := context.Background()

	filter, err := listquery.ParseFilter("location IN ('Tầng 1','Tầng 2')")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	page, err := repo.List(ctx, ListQuery{Filter: filter, Fields: tableFields})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Total)
	}
}

func TestResourceRepositoryListRejectsUnknownFilterField(t *testing.T) {
	db := newRepositoryTestDB(t)
	seedTables(t, db)
	repo := NewResourceRepository[domain.DiningTable](db, "TABLES")

	filter, err := listquery.ParseFilter("secret = x")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if _, err := repo.List(context.Background(), ListQuery{Filter: filter, Fields: tableFields}); err == nil {
		t.Fatal("expected error for unfiltered field")
	}
}

func TestResourceRepositoryListPagesBeyondEnd(t *testing.T) {
	db := newRepositoryTestDB(t)
	seedTables(t, db)
	repo := NewResourceRepository[domain.DiningTable](db, "TABLES")

	page, err := repo.List(context.Background(), ListQuery{Page: 9, Size: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(page.Items))
	}
	if page.Total != 4 || page.TotalPages != 1 {
		t.Fatalf("total=%d pages=%d, want 4/1", page.Total, page.TotalPages)
	}
}

func TestResourceRepositoryUpdateWritesZeroValues(t *testing.T) {
	db := newRepositoryTestDB(t)
	seedTables(t, db)
	repo := NewResourceRepository[domain.DiningTable](db, "TABLES")
	ctx := context.Background()

	var existing domain.DiningTable
	if err := db.Where("name = ?", "Bàn 1").First(&existing).Error; err != nil {
		t.Fatalf("load table: %v", err)
	}
	updated := existing
	updated.Active = false
	updated.Seats = 0
	if err := repo.Update(ctx, existing.ID, &updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.FindByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Active || got.Seats != 0 {
		t.Fatalf("zero values not persisted: %+v", got)
	}
}

func TestResourceRepositoryNotFound(t *testing.T) {
	db := newRepositoryTestDB(t)
	repo := NewResourceRepository[domain.DiningTable](db, "TABLES")
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByID err = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteByID err = %v, want ErrNotFound", err)
	}
	if err := repo.Update(ctx, 999, &domain.DiningTable{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update err = %v, want ErrNotFound", err)
	}
}

func TestProductRepositoryReplaceComposition(t *testing.T) {
	db := newRepositoryTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	sup := domain.Supplier{Name: "Chợ Bến Thành", Active: true}
	if err := db.Create(&sup).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	ing := []domain.Ingredient{
		{Name: "Thịt bò", Unit: "kg", Price: 250000, SupplierID: sup.ID, Active: true},
		{Name: "Bánh phở", Unit: "kg", Price: 30000, SupplierID: sup.ID, Active: true},
	}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("seed ingredients: %v", err)
	}
	p := domain.Product{Name: "Phở bò", SellingPrice: 65000, Status: "ACTIVE", Active: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	rows := []domain.ProductIngredient{
		{IngredientID: ing[0].ID, Quantity: 0.2},
		{IngredientID: ing[1].ID, Quantity: 0.3},
	}
	updated, err := repo.ReplaceComposition(ctx, p.ID, rows)
	if err != nil {
		t.Fatalf("replace composition: %v", err)
	}
	// 0.2*250000 + 0.3*30000 = 59000
	if updated.CostPrice != 59000 {
		t.Fatalf("cost price = %v, want 59000", updated.CostPrice)
	}

	got, err := repo.FindWithComposition(ctx, p.ID)
	if err != nil {
		t.Fatalf("find with composition: %v", err)
	}
	if len(got.Composition) != 2 {
		t.Fatalf("composition rows = %d, want 2", len(got.Composition))
	}
	if got.Composition[0].Ingredient == nil {
		t.Fatal("expected ingredient preloaded")
	}
	if got.CostPrice != 59000 {
		t.Fatalf("persisted cost price = %v, want 59000", got.CostPrice)
	}

	if _, err := repo.ReplaceComposition(ctx, p.ID, []domain.ProductIngredient{{IngredientID: ing[0].ID, Quantity: 0.25}}); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	got, err = repo.FindWithComposition(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Composition) != 1 || got.Composition[0].Quantity != 0.25 {
		t.Fatalf("unexpected composition after replace: %+v", got.Composition)
	}

	if _, err := repo.ReplaceComposition(ctx, 999, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("replace on missing product err = %v, want ErrNotFound", err)
	}
}

func TestProductRepositoryReplaceCompositionRollsBack(t *testing.T) {
	db := newRepositoryTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	ing := domain.Ingredient{Name: "Thịt bò", Unit: "kg", Price: 250000, Active: true}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	p := domain.Product{Name: "Phở bò", SellingPrice: 65000, Status: "ACTIVE", Active: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if _, err := repo.ReplaceComposition(ctx, p.ID, []domain.ProductIngredient{{IngredientID: ing.ID, Quantity: 0.2}}); err != nil {
		t.Fatalf("seed composition: %v", err)
	}

	_, err := repo.ReplaceComposition(ctx, p.ID, []domain.ProductIngredient{
		{IngredientID: ing.ID, Quantity: 0.1},
		{IngredientID: 9999, Quantity: 1},
	})
	if !errors.Is(err, ErrUnknownIngredient) {
		t.Fatalf("err = %v, want ErrUnknownIngredient", err)
	}

	got, err := repo.FindWithComposition(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Composition) != 1 || got.Composition[0].IngredientID != ing.ID || got.Composition[0].Quantity != 0.2 {
		t.Fatalf("composition after failed replace = %+v, want the original row", got.Composition)
	}
	if got.CostPrice != 50000 {
		t.Fatalf("cost price after failed replace = %v, want 50000", got.CostPrice)
	}
}
