//go:build integration

package postgres_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/application/inventory"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/infrastructure/postgres"
	"github.com/JonaTomas14/InsumosArica/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type env struct {
	pool      *pgxpool.Pool
	poster    *inventory.PostMovementUseCase
	movements *inventory.MovementUseCase
	stock     *inventory.StockUseCase
	unitID    string
}

func newEnv(t *testing.T, lockTimeout time.Duration) *env {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("insumos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	mg, err := postgres.NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 30})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	txRunner := postgres.NewTxRunner(pool, lockTimeout)
	movRepo := postgres.NewMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)

	now := time.Now()
	unit := &entity.UnitOfMeasure{ID: uuid.New().String(), Name: "unidad", Symbol: "u", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewUnitOfMeasureRepository(pool).Create(ctx, unit))

	return &env{
		pool:      pool,
		unitID:    unit.ID,
		poster:    inventory.NewPostMovementUseCase(txRunner, warehouseRepo, nil, zerolog.Nop()),
		movements: inventory.NewMovementUseCase(txRunner, movRepo, productRepo, warehouseRepo, supplierRepo),
		stock:     inventory.NewStockUseCase(postgres.NewStockRepository(pool)),
	}
}

func (e *env) warehouse(t *testing.T, name string) string {
	t.Helper()
	now := time.Now()
	w := &entity.Warehouse{ID: uuid.New().String(), Name: name, Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewWarehouseRepository(e.pool).Create(context.Background(), w))
	return w.ID
}

func (e *env) product(t *testing.T, sku string, allowsFraction bool) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), SKU: sku, Name: sku, UnitMeasureID: e.unitID,
		AllowsFraction: allowsFraction, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewProductRepository(e.pool).Create(context.Background(), p))
	return p.ID
}

func (e *env) draft(t *testing.T, kind entity.MovementKind, warehouseID string, lines ...dto.MovementLineRequest) string {
	t.Helper()
	out, err := e.movements.Create(context.Background(), kind, "", dto.CreateMovementRequest{
		WarehouseID: warehouseID, Lines: lines,
	})
	require.NoError(t, err)
	return out.ID
}

// seed deja el stock en qty posteando una entrada.
func (e *env) seed(t *testing.T, warehouseID, productID, qty string) {
	t.Helper()
	id := e.draft(t, entity.KindInbound, warehouseID, line(productID, qty))
	_, err := e.poster.Post(context.Background(), entity.KindInbound, id)
	require.NoError(t, err)
}

func (e *env) quantity(t *testing.T, warehouseID, productID string) decimal.Decimal {
	t.Helper()
	s, err := e.stock.Get(context.Background(), warehouseID, productID)
	require.NoError(t, err)
	return s.Quantity
}

func line(productID, qty string) dto.MovementLineRequest {
	return dto.MovementLineRequest{ProductID: productID, Quantity: decimal.RequireFromString(qty)}
}

func assertQty(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

func TestPostgres_Escenarios(t *testing.T) {
	e := newEnv(t, 5*time.Second)
	ctx := context.Background()
	w := e.warehouse(t, "Central")
	x := e.product(t, "X1", true)
	q := e.product(t, "Q1", false)

	t.Run("A entrada sin fila previa", func(t *testing.T) {
		id := e.draft(t, entity.KindInbound, w, line(x, "10"))
		out, err := e.poster.Post(ctx, entity.KindInbound, id)
		require.NoError(t, err)
		assert.Equal(t, string(entity.StatusPosted), out.Status)
		assert.NotNil(t, out.PostedAt)
		assertQty(t, "10", e.quantity(t, w, x))
	})

	t.Run("B salida con stock", func(t *testing.T) {
		id := e.draft(t, entity.KindOutbound, w, line(x, "4"))
		_, err := e.poster.Post(ctx, entity.KindOutbound, id)
		require.NoError(t, err)
		assertQty(t, "6", e.quantity(t, w, x))
	})

	t.Run("C stock insuficiente", func(t *testing.T) {
		id := e.draft(t, entity.KindOutbound, w, line(x, "9"))
		_, err := e.poster.Post(ctx, entity.KindOutbound, id)
		var ise *domain.InsufficientStockError
		require.ErrorAs(t, err, &ise)
		assert.Equal(t, "X1", ise.SKU)
		assertQty(t, "6", ise.Available)
		assertQty(t, "6", e.quantity(t, w, x))

		got, err := e.movements.GetByID(ctx, entity.KindOutbound, id)
		require.NoError(t, err)
		assert.Equal(t, string(entity.StatusDraft), got.Status)
	})

	t.Run("D fracción no permitida", func(t *testing.T) {
		id := e.draft(t, entity.KindInbound, w, line(q, "2"))
		_, err := e.pool.Exec(ctx, `UPDATE movement_lines SET quantity = 2.5 WHERE movement_id = $1`, id)
		require.NoError(t, err)

		_, err = e.poster.Post(ctx, entity.KindInbound, id)
		assert.ErrorIs(t, err, domain.ErrFractionNotAllowed)
		assertQty(t, "0", e.quantity(t, w, q))
	})

	t.Run("E movimiento vacío", func(t *testing.T) {
		id := e.draft(t, entity.KindInbound, w)
		_, err := e.poster.Post(ctx, entity.KindInbound, id)
		assert.ErrorIs(t, err, domain.ErrEmptyMovement)
	})

	t.Run("repostear", func(t *testing.T) {
		id := e.draft(t, entity.KindInbound, w, line(x, "1"))
		_, err := e.poster.Post(ctx, entity.KindInbound, id)
		require.NoError(t, err)
		_, err = e.poster.Post(ctx, entity.KindInbound, id)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assertQty(t, "7", e.quantity(t, w, x))
	})
}

func TestPostgres_AtomicidadMultiLinea(t *testing.T) {
	e := newEnv(t, 5*time.Second)
	ctx := context.Background()
	w := e.warehouse(t, "Central")
	p := e.product(t, "P", true)
	r := e.product(t, "R", true)
	e.seed(t, w, p, "10")
	e.seed(t, w, r, "1")

	id := e.draft(t, entity.KindOutbound, w, line(p, "5"), line(r, "2"))
	_, err := e.poster.Post(ctx, entity.KindOutbound, id)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertQty(t, "10", e.quantity(t, w, p))
	assertQty(t, "1", e.quantity(t, w, r))
}

func TestPostgres_EntradaDesbordaStock(t *testing.T) {
	e := newEnv(t, 5*time.Second)
	ctx := context.Background()
	w := e.warehouse(t, "Central")
	p := e.product(t, "P", true)
	e.seed(t, w, p, "99999999999")

	id := e.draft(t, entity.KindInbound, w, line(p, "1"))
	_, err := e.poster.Post(ctx, entity.KindInbound, id)
	assert.ErrorIs(t, err, domain.ErrInvalidLine)
	assertQty(t, "99999999999", e.quantity(t, w, p))

	// la columna rechaza el valor aunque se salte la validación de dominio
	entry := &entity.Stock{WarehouseID: w, ProductID: p}
	err = postgres.NewStockRepository(e.pool).Adjust(ctx, entry, decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostgres_Catalogo(t *testing.T) {
	e := newEnv(t, 5*time.Second)
	ctx := context.Background()
	now := time.Now()

	brands := postgres.NewBrandRepository(e.pool)
	categories := postgres.NewCategoryRepository(e.pool)
	units := postgres.NewUnitOfMeasureRepository(e.pool)
	products := postgres.NewProductRepository(e.pool)
	links := postgres.NewProductSupplierRepository(e.pool)

	brand := &entity.Brand{ID: uuid.New().String(), Name: "Melón", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, brands.Create(ctx, brand))
	dup := *brand
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, brands.Create(ctx, &dup), domain.ErrDuplicate)

	root := &entity.Category{ID: uuid.New().String(), Name: "Construcción", CreatedAt: now, UpdatedAt: now}
	child := &entity.Category{ID: uuid.New().String(), ParentID: &root.ID, Name: "Cementos", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, categories.Create(ctx, root))
	require.NoError(t, categories.Create(ctx, child))

	ids := []string{root.ID, child.ID}
	sort.Strings(ids)
	product := &entity.Product{
		ID: uuid.New().String(), SKU: "CEM", Name: "Cemento", UnitMeasureID: e.unitID,
		BrandID: &brand.ID, CategoryIDs: ids, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, products.Create(ctx, product))

	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, got.CategoryIDs)
	require.NotNil(t, got.BrandID)
	assert.Equal(t, brand.ID, *got.BrandID)

	got.CategoryIDs = []string{child.ID}
	require.NoError(t, products.Update(ctx, got))
	got, err = products.GetBySKU(ctx, "CEM")
	require.NoError(t, err)
	assert.Equal(t, []string{child.ID}, got.CategoryIDs)

	// referencias en uso
	assert.ErrorIs(t, brands.Delete(ctx, brand.ID), domain.ErrConflict)
	assert.ErrorIs(t, units.Delete(ctx, e.unitID), domain.ErrConflict)

	roots, err := categories.ListByParent(ctx, "")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.NoError(t, categories.Delete(ctx, root.ID))
	orphan, err := categories.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)
	got, err = products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{child.ID}, got.CategoryIDs)

	supplier := &entity.Supplier{ID: uuid.New().String(), Name: "Ferretería Norte", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewSupplierRepository(e.pool).Create(ctx, supplier))
	link := &entity.ProductSupplier{
		ID: uuid.New().String(), ProductID: product.ID, SupplierID: supplier.ID,
		LastPurchaseCost: decimal.RequireFromString("5200.50"), IsPrimary: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, links.Create(ctx, link))
	again := *link
	again.ID = uuid.New().String()
	assert.ErrorIs(t, links.Create(ctx, &again), domain.ErrDuplicate)

	list, err := links.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, link.LastPurchaseCost.Equal(list[0].LastPurchaseCost))
}

func TestPostgres_SalidasConcurrentes(t *testing.T) {
	e := newEnv(t, 5*time.Second)
	ctx := context.Background()
	w := e.warehouse(t, "Central")
	p := e.product(t, "P", true)
	e.seed(t, w, p, "10")

	const n = 8
	ids := make([]string, n)
	for i := range ids {
		ids[i] = e.draft(t, entity.KindOutbound, w, line(p, "3"))
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := e.poster.Post(ctx, entity.KindOutbound, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				rejected++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, ok, "10 alcanza para tres salidas de 3")
	assert.Equal(t, n-3, rejected)
	assertQty(t, "1", e.quantity(t, w, p))
}

func TestPostgres_LockTimeout(t *testing.T) {
	e := newEnv(t, 200*time.Millisecond)
	ctx := context.Background()
	w := e.warehouse(t, "Central")
	p := e.product(t, "P", true)
	e.seed(t, w, p, "5")

	holder, err := e.pool.Begin(ctx)
	require.NoError(t, err)
	_, err = holder.Exec(ctx, `SELECT 1 FROM stock WHERE warehouse_id = $1 AND product_id = $2 FOR UPDATE`, w, p)
	require.NoError(t, err)

	id := e.draft(t, entity.KindOutbound, w, line(p, "1"))
	_, err = e.poster.Post(ctx, entity.KindOutbound, id)
	assert.ErrorIs(t, err, domain.ErrConcurrencyTimeout)

	require.NoError(t, holder.Rollback(ctx))
	_, err = e.poster.Post(ctx, entity.KindOutbound, id)
	require.NoError(t, err)
	assertQty(t, "4", e.quantity(t, w, p))
}

func TestPostgres_ContextoCancelado(t *testing.T) {
	e := newEnv(t, 5*time.Second)
	w := e.warehouse(t, "Central")
	p := e.product(t, "P", true)
	id := e.draft(t, entity.KindInbound, w, line(p, "3"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.poster.Post(ctx, entity.KindInbound, id)
	assert.Error(t, err)

	got, err := e.movements.GetByID(context.Background(), entity.KindInbound, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusDraft), got.Status)
	assertQty(t, "0", e.quantity(t, w, p))
}
