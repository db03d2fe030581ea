package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional: cada Run trabaja sobre una copia
// pendiente que solo se confirma si fn no falla, y los bloqueos de fila son mutex
// reales retenidos hasta el fin de la transacción (como SELECT FOR UPDATE).
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct{ warehouseID, productID string }

type fakeStore struct {
	mu         sync.Mutex
	movements  map[string]entity.Movement
	lines      map[string][]entity.MovementLine
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	suppliers  map[string]*entity.Supplier
	stock      map[stockKey]decimal.Decimal

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// lockTimeout > 0 hace que la espera por un bloqueo falle con ErrConcurrencyTimeout.
	lockTimeout time.Duration
	commits     atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		movements:  make(map[string]entity.Movement),
		lines:      make(map[string][]entity.MovementLine),
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
		suppliers:  make(map[string]*entity.Supplier),
		stock:      make(map[stockKey]decimal.Decimal),
		locks:      make(map[string]*sync.Mutex),
	}
}

func (s *fakeStore) rowLock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	return m
}

func (s *fakeStore) addWarehouse(name string) string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[id] = &entity.Warehouse{ID: id, Name: name, Active: true}
	return id
}

func (s *fakeStore) addSupplier(name string) string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[id] = &entity.Supplier{ID: id, Name: name, Active: true}
	return id
}

func (s *fakeStore) addProduct(sku string, allowsFraction bool) string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = &entity.Product{ID: id, SKU: sku, Name: "Producto " + sku, AllowsFraction: allowsFraction, Active: true}
	return id
}

func (s *fakeStore) setStock(warehouseID, productID, qty string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[stockKey{warehouseID, productID}] = decimal.RequireFromString(qty)
}

func (s *fakeStore) quantity(warehouseID, productID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[stockKey{warehouseID, productID}]
}

func (s *fakeStore) hasStockRow(warehouseID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.stock[stockKey{warehouseID, productID}]
	return ok
}

type lineSpec struct {
	productID string
	qty       string
}

// addDraft inserta un BORRADOR directamente (sin pasar por las reglas de edición).
func (s *fakeStore) addDraft(kind entity.MovementKind, warehouseID string, specs ...lineSpec) string {
	id := uuid.New().String()
	now := time.Now()
	lines := make([]entity.MovementLine, 0, len(specs))
	for _, sp := range specs {
		lines = append(lines, entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: id,
			ProductID:  sp.productID,
			Quantity:   decimal.RequireFromString(sp.qty),
		})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements[id] = entity.Movement{
		ID: id, Kind: kind, Status: entity.StatusDraft, Date: now,
		WarehouseID: warehouseID, CreatedAt: now, UpdatedAt: now,
	}
	s.lines[id] = lines
	return id
}

func (s *fakeStore) movement(id string) (entity.Movement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movements[id]
	return m, ok
}

func (s *fakeStore) begin(ctx context.Context) *fakeTx {
	return &fakeTx{
		s:        s,
		ctx:      ctx,
		heldKeys: make(map[string]bool),
		stock:    make(map[stockKey]decimal.Decimal),
		movs:     make(map[string]entity.Movement),
		deleted:  make(map[string]bool),
		lines:    make(map[string][]entity.MovementLine),
	}
}

type fakeTx struct {
	s        *fakeStore
	ctx      context.Context
	auto     bool // confirma cada escritura al instante (repos fuera de transacción)
	held     []*sync.Mutex
	heldKeys map[string]bool
	stock    map[stockKey]decimal.Decimal
	movs     map[string]entity.Movement
	deleted  map[string]bool
	lines    map[string][]entity.MovementLine
}

func (t *fakeTx) lock(key string) error {
	if t.auto || t.heldKeys[key] {
		return nil
	}
	m := t.s.rowLock(key)
	if t.s.lockTimeout > 0 {
		deadline := time.Now().Add(t.s.lockTimeout)
		for !m.TryLock() {
			if time.Now().After(deadline) {
				return domain.ErrConcurrencyTimeout
			}
			time.Sleep(time.Millisecond)
		}
	} else {
		m.Lock()
	}
	t.held = append(t.held, m)
	t.heldKeys[key] = true
	return nil
}

func (t *fakeTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
	t.heldKeys = make(map[string]bool)
}

func (t *fakeTx) commit() {
	t.s.mu.Lock()
	for k, q := range t.stock {
		t.s.stock[k] = q
	}
	for id, m := range t.movs {
		t.s.movements[id] = m
	}
	for id, l := range t.lines {
		t.s.lines[id] = l
	}
	for id := range t.deleted {
		delete(t.s.movements, id)
		delete(t.s.lines, id)
	}
	t.s.mu.Unlock()
	t.s.commits.Add(1)
	t.stock = make(map[stockKey]decimal.Decimal)
	t.movs = make(map[string]entity.Movement)
	t.deleted = make(map[string]bool)
	t.lines = make(map[string][]entity.MovementLine)
}

func (t *fakeTx) written() {
	if t.auto {
		t.commit()
	}
}

func (t *fakeTx) readMovement(id string) *entity.Movement {
	if t.deleted[id] {
		return nil
	}
	if m, ok := t.movs[id]; ok {
		return &m
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	m, ok := t.s.movements[id]
	if !ok {
		return nil
	}
	return &m
}

func (t *fakeTx) readLines(id string) []entity.MovementLine {
	if l, ok := t.lines[id]; ok {
		return append([]entity.MovementLine(nil), l...)
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return append([]entity.MovementLine(nil), t.s.lines[id]...)
}

func (t *fakeTx) readStock(k stockKey) (decimal.Decimal, bool) {
	if q, ok := t.stock[k]; ok {
		return q, true
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	q, ok := t.s.stock[k]
	return q, ok
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	ledger repository.StockLedger,
	productRepo repository.ProductRepository,
) error) error {
	tx := r.s.begin(ctx)
	defer tx.release()
	if err := fn(&fakeMovementRepo{tx: tx}, &fakeLedger{tx: tx}, &fakeProductRepo{s: r.s}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// ── MovementRepository ───────────────────────────────────────────────────────

type fakeMovementRepo struct{ tx *fakeTx }

func (s *fakeStore) movementRepo() *fakeMovementRepo {
	tx := s.begin(context.Background())
	tx.auto = true
	return &fakeMovementRepo{tx: tx}
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	head := *m
	head.Lines = nil
	r.tx.movs[m.ID] = head
	r.tx.lines[m.ID] = append([]entity.MovementLine(nil), m.Lines...)
	r.tx.written()
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	return r.tx.readMovement(id), nil
}

func (r *fakeMovementRepo) GetForUpdate(_ context.Context, id string) (*entity.Movement, error) {
	if err := r.tx.lock("mov:" + id); err != nil {
		return nil, err
	}
	return r.tx.readMovement(id), nil
}

func (r *fakeMovementRepo) UpdateHeader(_ context.Context, m *entity.Movement) error {
	if r.tx.readMovement(m.ID) == nil {
		return domain.ErrNotFound
	}
	head := *m
	head.Lines = nil
	r.tx.movs[m.ID] = head
	r.tx.written()
	return nil
}

func (r *fakeMovementRepo) Delete(_ context.Context, id string) error {
	r.tx.deleted[id] = true
	r.tx.written()
	return nil
}

func (r *fakeMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	r.tx.s.mu.Lock()
	var all []*entity.Movement
	for _, m := range r.tx.s.movements {
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
			continue
		}
		m := m
		all = append(all, &m)
	}
	r.tx.s.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

func (r *fakeMovementRepo) ListLines(_ context.Context, id string) ([]entity.MovementLine, error) {
	return r.tx.readLines(id), nil
}

func (r *fakeMovementRepo) ReplaceLines(_ context.Context, id string, lines []entity.MovementLine) error {
	r.tx.lines[id] = append([]entity.MovementLine(nil), lines...)
	r.tx.written()
	return nil
}

func (r *fakeMovementRepo) MarkPosted(_ context.Context, id string, postedAt time.Time) error {
	m := r.tx.readMovement(id)
	if m == nil || m.Status != entity.StatusDraft {
		return domain.ErrInvalidState
	}
	m.Status = entity.StatusPosted
	m.PostedAt = &postedAt
	m.UpdatedAt = postedAt
	r.tx.movs[id] = *m
	r.tx.written()
	return nil
}

// ── StockLedger ──────────────────────────────────────────────────────────────

type fakeLedger struct{ tx *fakeTx }

func stockLockKey(k stockKey) string { return "stock:" + k.warehouseID + ":" + k.productID }

func (l *fakeLedger) GetOrCreateLocked(_ context.Context, warehouseID string, productIDs []string) (map[string]*entity.Stock, error) {
	ids := append([]string(nil), productIDs...)
	sort.Strings(ids)
	out := make(map[string]*entity.Stock, len(ids))
	for _, p := range ids {
		k := stockKey{warehouseID, p}
		if err := l.tx.lock(stockLockKey(k)); err != nil {
			return nil, err
		}
		q, ok := l.tx.readStock(k)
		if !ok {
			q = decimal.Zero
			l.tx.stock[k] = q
		}
		out[p] = &entity.Stock{WarehouseID: warehouseID, ProductID: p, Quantity: q}
	}
	return out, nil
}

func (l *fakeLedger) Adjust(_ context.Context, e *entity.Stock, delta decimal.Decimal) error {
	k := stockKey{e.WarehouseID, e.ProductID}
	if !l.tx.heldKeys[stockLockKey(k)] {
		return errors.New("fila de stock no bloqueada por esta transacción")
	}
	cur, _ := l.tx.readStock(k)
	next := cur.Add(delta)
	if next.IsNegative() {
		// equivalente al CHECK (quantity >= 0)
		return domain.ErrInsufficientStock
	}
	l.tx.stock[k] = next
	e.Quantity = next
	return nil
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.products[id], nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.Create(context.Background(), p)
}

func (r *fakeProductRepo) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeWarehouseRepo struct{ s *fakeStore }

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.warehouses[id], nil
}

func (r *fakeWarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	return r.Create(ctx, w)
}

func (r *fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeSupplierRepo struct{ s *fakeStore }

func (r *fakeSupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suppliers[sup.ID] = sup
	return nil
}

func (r *fakeSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.suppliers[id], nil
}

func (r *fakeSupplierRepo) List(_ context.Context, _, _ int) ([]*entity.Supplier, error) {
	return nil, nil
}

// ── Métricas ─────────────────────────────────────────────────────────────────

type recordingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *recordingMetrics) ObservePost(_ entity.MovementKind, result string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

func (m *recordingMetrics) count(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[result]
}

// Compile-time checks.
var (
	_ repository.MovementRepository  = (*fakeMovementRepo)(nil)
	_ repository.StockLedger         = (*fakeLedger)(nil)
	_ repository.ProductRepository   = (*fakeProductRepo)(nil)
	_ repository.WarehouseRepository = (*fakeWarehouseRepo)(nil)
	_ repository.SupplierRepository  = (*fakeSupplierRepo)(nil)
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertQty(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(qty(want)) {
		t.Fatalf("cantidad esperada %s, obtenida %s", want, got.String())
	}
}
