// Package memstore implementa en memoria los repositorios del motor de inventario y un
// TxRunner con rollback por instantánea. Lo usan las pruebas de los servicios.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado en memoria. Run serializa las transacciones (equivale a bloquear todas las filas).
type Store struct {
	mu sync.Mutex

	inventory   map[string]*entity.Inventory
	movements   []*entity.StockMovement
	pos         map[string]*entity.PurchaseOrder
	receipts    []*entity.Receipt
	salesOrders map[string]*entity.SalesOrder
	plans       map[string]*entity.ProductionPlan
	progress    map[string]*entity.WorkProgress
	allocations []*entity.MaterialAllocation
	partsUsed   []*entity.PartsUsed

	// Locks registra cada fila de inventario bloqueada, en orden, como "parte/bodega/ubicación".
	Locks []string
	// FailOn inyecta un error en la operación nombrada ("movements.create", "inventory.save"...).
	FailOn map[string]error
	// Commits número de transacciones confirmadas.
	Commits int
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		inventory:   map[string]*entity.Inventory{},
		pos:         map[string]*entity.PurchaseOrder{},
		salesOrders: map[string]*entity.SalesOrder{},
		plans:       map[string]*entity.ProductionPlan{},
		progress:    map[string]*entity.WorkProgress{},
		FailOn:      map[string]error{},
	}
}

type snapshot struct {
	inventory   map[string]entity.Inventory
	movements   int
	pos         map[string]entity.PurchaseOrder
	receipts    int
	salesOrders map[string]entity.SalesOrder
	plans       map[string]entity.ProductionPlan
	progress    map[string]entity.WorkProgress
	allocations int
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		inventory:   make(map[string]entity.Inventory, len(s.inventory)),
		movements:   len(s.movements),
		pos:         make(map[string]entity.PurchaseOrder, len(s.pos)),
		receipts:    len(s.receipts),
		salesOrders: make(map[string]entity.SalesOrder, len(s.salesOrders)),
		plans:       make(map[string]entity.ProductionPlan, len(s.plans)),
		progress:    make(map[string]entity.WorkProgress, len(s.progress)),
		allocations: len(s.allocations),
	}
	for k, v := range s.inventory {
		snap.inventory[k] = *v
	}
	for k, v := range s.pos {
		snap.pos[k] = *v
	}
	for k, v := range s.salesOrders {
		snap.salesOrders[k] = *v
	}
	for k, v := range s.plans {
		snap.plans[k] = *v
	}
	for k, v := range s.progress {
		snap.progress[k] = *v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.inventory = map[string]*entity.Inventory{}
	for k, v := range snap.inventory {
		v := v
		s.inventory[k] = &v
	}
	s.pos = map[string]*entity.PurchaseOrder{}
	for k, v := range snap.pos {
		v := v
		s.pos[k] = &v
	}
	s.salesOrders = map[string]*entity.SalesOrder{}
	for k, v := range snap.salesOrders {
		v := v
		s.salesOrders[k] = &v
	}
	s.plans = map[string]*entity.ProductionPlan{}
	for k, v := range snap.plans {
		v := v
		s.plans[k] = &v
	}
	s.progress = map[string]*entity.WorkProgress{}
	for k, v := range snap.progress {
		v := v
		s.progress[k] = &v
	}
	s.movements = s.movements[:snap.movements]
	s.receipts = s.receipts[:snap.receipts]
	s.allocations = s.allocations[:snap.allocations]
}

// Run ejecuta fn de forma exclusiva; si devuelve error se restaura la instantánea previa.
func (s *Store) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s.repos()); err != nil {
		s.restore(snap)
		return err
	}
	s.Commits++
	return nil
}

// Repos repositorios sin transacción (para casos de uso de consulta). No usar dentro de Run.
func (s *Store) Repos() inventory.Repos { return s.repos() }

func (s *Store) repos() inventory.Repos {
	return inventory.Repos{
		Inventory:      &inventoryRepo{s},
		Movements:      &movementRepo{s},
		PurchaseOrders: &poRepo{s},
		Receipts:       &receiptRepo{s},
		SalesOrders:    &soRepo{s},
		Plans:          &planRepo{s},
		WorkProgress:   &progressRepo{s},
		Allocations:    &allocationRepo{s},
	}
}

// PartsUsed repositorio de partes usadas.
func (s *Store) PartsUsed() repository.PartsUsedRepository { return &partsUsedRepo{s} }

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

// ── Semillas y lecturas directas para pruebas ─────────────────────────────────

// PutInventory inserta o reemplaza una fila; completa ID y flags si faltan.
func (s *Store) PutInventory(inv *entity.Inventory) *entity.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	c := *inv
	s.inventory[c.ID] = &c
	return inv
}

// Inventory lee una fila por clave (copia) o nil.
func (s *Store) Inventory(part, warehouse, location string) *entity.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv := s.findByKey(entity.InventoryKey{PartNumber: part, Warehouse: warehouse, Location: location}); inv != nil {
		c := *inv
		return &c
	}
	return nil
}

// InventoryCount número de filas de inventario.
func (s *Store) InventoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inventory)
}

// Movements copia del libro.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, len(s.movements))
	for i, m := range s.movements {
		out[i] = *m
	}
	return out
}

// PutPurchaseOrder inserta o reemplaza un pedido de compra.
func (s *Store) PutPurchaseOrder(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if po.ID == "" {
		po.ID = uuid.NewString()
	}
	c := *po
	s.pos[c.ID] = &c
	return po
}

// PurchaseOrder lee un pedido (copia) o nil.
func (s *Store) PurchaseOrder(id string) *entity.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if po, ok := s.pos[id]; ok {
		c := *po
		return &c
	}
	return nil
}

// Receipts copia de las recepciones.
func (s *Store) Receipts() []entity.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Receipt, len(s.receipts))
	for i, r := range s.receipts {
		out[i] = *r
	}
	return out
}

// PutPlan inserta o reemplaza un plan.
func (s *Store) PutPlan(p *entity.ProductionPlan) *entity.ProductionPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	c := *p
	s.plans[c.ID] = &c
	return p
}

// Plan lee un plan (copia) o nil.
func (s *Store) Plan(id string) *entity.ProductionPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.plans[id]; ok {
		c := *p
		return &c
	}
	return nil
}

// Progress fila de avance de (plan, paso) o nil.
func (s *Store) Progress(planID, step string) *entity.WorkProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wp, ok := s.progress[planID+"|"+step]; ok {
		c := *wp
		return &c
	}
	return nil
}

// Allocations copia de las asignaciones.
func (s *Store) Allocations() []entity.MaterialAllocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.MaterialAllocation, len(s.allocations))
	for i, a := range s.allocations {
		out[i] = *a
	}
	return out
}

// SalesOrders copia de los pedidos de venta.
func (s *Store) SalesOrders() []entity.SalesOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.SalesOrder, 0, len(s.salesOrders))
	for _, so := range s.salesOrders {
		out = append(out, *so)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out
}

// PutSalesOrder inserta un pedido de venta.
func (s *Store) PutSalesOrder(so *entity.SalesOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if so.ID == "" {
		so.ID = uuid.NewString()
	}
	c := *so
	s.salesOrders[c.ID] = &c
}

// PutPartsUsed agrega una parte usada.
func (s *Store) PutPartsUsed(p *entity.PartsUsed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	c := *p
	s.partsUsed = append(s.partsUsed, &c)
}

func (s *Store) findByKey(key entity.InventoryKey) *entity.Inventory {
	for _, inv := range s.inventory {
		if inv.Key() == key {
			return inv
		}
	}
	return nil
}

func (s *Store) lock(inv *entity.Inventory) {
	s.Locks = append(s.Locks, inv.PartNumber+"/"+inv.Warehouse+"/"+inv.Location)
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ── Inventory ─────────────────────────────────────────────────────────────────

type inventoryRepo struct{ s *Store }

func (r *inventoryRepo) GetByID(_ context.Context, id string) (*entity.Inventory, error) {
	if inv, ok := r.s.inventory[id]; ok {
		c := *inv
		return &c, nil
	}
	return nil, nil
}

func (r *inventoryRepo) GetForUpdateByID(ctx context.Context, id string) (*entity.Inventory, error) {
	if err := r.s.fail("inventory.lock"); err != nil {
		return nil, err
	}
	inv, err := r.GetByID(ctx, id)
	if inv != nil {
		r.s.lock(inv)
	}
	return inv, err
}

func (r *inventoryRepo) GetForUpdate(_ context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	if err := r.s.fail("inventory.lock"); err != nil {
		return nil, err
	}
	if inv := r.s.findByKey(key); inv != nil {
		r.s.lock(inv)
		c := *inv
		return &c, nil
	}
	return nil, nil
}

func (r *inventoryRepo) ListForUpdate(_ context.Context, partNumber, warehouse string) ([]*entity.Inventory, error) {
	if err := r.s.fail("inventory.lock"); err != nil {
		return nil, err
	}
	var out []*entity.Inventory
	for _, inv := range r.s.inventory {
		if inv.PartNumber == partNumber && (warehouse == "" || inv.Warehouse == warehouse) {
			c := *inv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	for _, inv := range out {
		r.s.lock(inv)
	}
	return out, nil
}

func (r *inventoryRepo) EnsureForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	if inv := r.s.findByKey(key); inv == nil {
		id := uuid.NewString()
		r.s.inventory[id] = &entity.Inventory{
			ID: id, PartNumber: key.PartNumber, Warehouse: key.Warehouse, Location: key.Location,
			IsActive: true, IsAllocatable: true,
		}
	}
	return r.GetForUpdate(ctx, key)
}

func (r *inventoryRepo) Save(_ context.Context, inv *entity.Inventory) error {
	if err := r.s.fail("inventory.save"); err != nil {
		return err
	}
	if _, ok := r.s.inventory[inv.ID]; !ok {
		return fmt.Errorf("save inventory: fila %s inexistente", inv.ID)
	}
	if inv.Quantity < 0 || inv.Reserved < 0 || inv.Reserved > inv.Quantity {
		return fmt.Errorf("save inventory: violación de check (quantity=%d reserved=%d)", inv.Quantity, inv.Reserved)
	}
	c := *inv
	r.s.inventory[inv.ID] = &c
	return nil
}

func (r *inventoryRepo) sorted(match func(*entity.Inventory) bool) []*entity.Inventory {
	var out []*entity.Inventory
	for _, inv := range r.s.inventory {
		if match(inv) {
			c := *inv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out
}

func (r *inventoryRepo) List(_ context.Context, f entity.InventoryFilter, limit, offset int) ([]*entity.Inventory, int, error) {
	all := r.sorted(func(inv *entity.Inventory) bool {
		return containsFold(inv.PartNumber, f.PartNumber) &&
			containsFold(inv.Warehouse, f.Warehouse) &&
			containsFold(inv.Location, f.Location) &&
			(!f.HideZeroStock || inv.Quantity > 0)
	})
	return page(all, limit, offset), len(all), nil
}

func (r *inventoryRepo) ListByLocation(_ context.Context, warehouse, location string) ([]*entity.Inventory, error) {
	return r.sorted(func(inv *entity.Inventory) bool {
		return inv.Warehouse == warehouse && inv.Location == location
	}), nil
}

func (r *inventoryRepo) ListLocations(_ context.Context, warehouse string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, inv := range r.s.inventory {
		if inv.Warehouse == warehouse && !seen[inv.Location] {
			seen[inv.Location] = true
			out = append(out, inv.Location)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *inventoryRepo) SumAvailable(_ context.Context, partNumber, warehouse string) (int64, error) {
	var sum int64
	for _, inv := range r.s.inventory {
		if inv.PartNumber == partNumber && (warehouse == "" || inv.Warehouse == warehouse) {
			sum += inv.AvailableQuantity()
		}
	}
	return sum, nil
}

// ── Libro ─────────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if err := r.s.fail("movements.create"); err != nil {
		return err
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *movementRepo) List(_ context.Context, f entity.StockMovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if !containsFold(m.PartNumber, f.PartNumber) || !containsFold(m.Warehouse, f.Warehouse) ||
			!containsFold(m.ReferenceDocument, f.ReferenceDocument) {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return page(out, limit, offset), len(out), nil
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

type poRepo struct{ s *Store }

func (r *poRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	for _, p := range r.s.pos {
		if p.OrderNumber == po.OrderNumber {
			return fmt.Errorf("insert purchase order: duplicado %s", po.OrderNumber)
		}
	}
	c := *po
	r.s.pos[po.ID] = &c
	return nil
}

func (r *poRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	if po, ok := r.s.pos[id]; ok {
		c := *po
		return &c, nil
	}
	return nil, nil
}

func (r *poRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *poRepo) UpdateReceived(_ context.Context, po *entity.PurchaseOrder) error {
	if err := r.s.fail("purchase_orders.update"); err != nil {
		return err
	}
	cur, ok := r.s.pos[po.ID]
	if !ok {
		return fmt.Errorf("update purchase order: %s inexistente", po.ID)
	}
	cur.ReceivedQuantity = po.ReceivedQuantity
	cur.Status = po.Status
	cur.UpdatedAt = po.UpdatedAt
	return nil
}

func (r *poRepo) List(_ context.Context, f entity.PurchaseOrderFilter, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.s.pos {
		if containsFold(po.OrderNumber, f.OrderNumber) && containsFold(po.SupplierNumber, f.SupplierNumber) &&
			containsFold(po.PartNumber, f.PartNumber) && containsFold(po.Warehouse, f.Warehouse) &&
			(f.Status == "" || po.Status == f.Status) {
			c := *po
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return page(out, limit, offset), len(out), nil
}

type receiptRepo struct{ s *Store }

func (r *receiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	if err := r.s.fail("receipts.create"); err != nil {
		return err
	}
	c := *rc
	r.s.receipts = append(r.s.receipts, &c)
	return nil
}

func (r *receiptRepo) ListByPurchaseOrder(_ context.Context, poID string) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for _, rc := range r.s.receipts {
		if rc.PurchaseOrderID == poID {
			c := *rc
			out = append(out, &c)
		}
	}
	return out, nil
}

type soRepo struct{ s *Store }

func (r *soRepo) CreateIfAbsent(_ context.Context, so *entity.SalesOrder) (*entity.SalesOrder, bool, error) {
	for _, cur := range r.s.salesOrders {
		if cur.OrderNumber == so.OrderNumber {
			c := *cur
			return &c, false, nil
		}
	}
	c := *so
	r.s.salesOrders[so.ID] = &c
	return so, true, nil
}

func (r *soRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	if so, ok := r.s.salesOrders[id]; ok {
		c := *so
		return &c, nil
	}
	return nil, nil
}

func (r *soRepo) List(_ context.Context, f entity.SalesOrderFilter, limit, offset int) ([]*entity.SalesOrder, int, error) {
	var out []*entity.SalesOrder
	for _, so := range r.s.salesOrders {
		if containsFold(so.OrderNumber, f.OrderNumber) && containsFold(so.Item, f.Item) &&
			containsFold(so.Warehouse, f.Warehouse) && (f.Status == "" || so.Status == f.Status) {
			c := *so
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return page(out, limit, offset), len(out), nil
}

// ── Producción ────────────────────────────────────────────────────────────────

type planRepo struct{ s *Store }

func (r *planRepo) Create(_ context.Context, p *entity.ProductionPlan) error {
	c := *p
	r.s.plans[p.ID] = &c
	return nil
}

func (r *planRepo) GetByID(_ context.Context, id string) (*entity.ProductionPlan, error) {
	if p, ok := r.s.plans[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *planRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionPlan, error) {
	return r.GetByID(ctx, id)
}

func (r *planRepo) UpdateProgress(_ context.Context, p *entity.ProductionPlan) error {
	if err := r.s.fail("plans.update"); err != nil {
		return err
	}
	cur, ok := r.s.plans[p.ID]
	if !ok {
		return fmt.Errorf("update plan: %s inexistente", p.ID)
	}
	cur.Status = p.Status
	cur.ActualStart = p.ActualStart
	cur.ActualEnd = p.ActualEnd
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *planRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.ProductionPlan, int, error) {
	var out []*entity.ProductionPlan
	for _, p := range r.s.plans {
		if status == "" || p.Status == status {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlannedStart.Before(out[j].PlannedStart) })
	return page(out, limit, offset), len(out), nil
}

type progressRepo struct{ s *Store }

func (r *progressRepo) GetOrCreateForUpdate(_ context.Context, planID, step string, operator *string) (*entity.WorkProgress, error) {
	key := planID + "|" + step
	wp, ok := r.s.progress[key]
	if !ok {
		wp = &entity.WorkProgress{
			ID: uuid.NewString(), PlanID: planID, ProcessStep: step, Operator: operator,
			Status: entity.WorkStatusNotStarted,
		}
		r.s.progress[key] = wp
	}
	c := *wp
	return &c, nil
}

func (r *progressRepo) Save(_ context.Context, wp *entity.WorkProgress) error {
	key := wp.PlanID + "|" + wp.ProcessStep
	if _, ok := r.s.progress[key]; !ok {
		return fmt.Errorf("save work progress: %s inexistente", key)
	}
	c := *wp
	r.s.progress[key] = &c
	return nil
}

func (r *progressRepo) ListByPlan(_ context.Context, planID string) ([]*entity.WorkProgress, error) {
	var out []*entity.WorkProgress
	for _, wp := range r.s.progress {
		if wp.PlanID == planID {
			c := *wp
			out = append(out, &c)
		}
	}
	return out, nil
}

type allocationRepo struct{ s *Store }

func (r *allocationRepo) Create(_ context.Context, a *entity.MaterialAllocation) error {
	if err := r.s.fail("allocations.create"); err != nil {
		return err
	}
	c := *a
	r.s.allocations = append(r.s.allocations, &c)
	return nil
}

func (r *allocationRepo) ListByPlan(_ context.Context, planID string) ([]*entity.MaterialAllocation, error) {
	var out []*entity.MaterialAllocation
	for _, a := range r.s.allocations {
		if a.PlanID == planID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *allocationRepo) SumByPlanAndMaterial(_ context.Context, planID, materialCode string) (int64, error) {
	var sum int64
	for _, a := range r.s.allocations {
		if a.PlanID == planID && a.MaterialCode == materialCode && a.Status == entity.AllocationStatusAllocated {
			sum += a.AllocatedQuantity
		}
	}
	return sum, nil
}

type partsUsedRepo struct{ s *Store }

func (r *partsUsedRepo) ListByPlanRef(_ context.Context, planRef string) ([]*entity.PartsUsed, error) {
	var out []*entity.PartsUsed
	for _, p := range r.s.partsUsed {
		if p.ProductionPlan == planRef {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}
