package usecase_test

import (
	"context"
	"sort"
	"strings"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"
)

// =====================
// in-memory TransactionManager（失敗したら丸ごと戻す）
// =====================

type memStore struct {
	nextID     int64
	categories map[int64]model.Category
	products   map[int64]model.Product
	cartItems  map[int64]model.CartItem
	orders     map[int64]model.Order
	orderItems map[int64]model.OrderItem
	auditLogs  []model.AuditLog

	// "CartItems.DeleteByID" のようなキーで失敗させる
	fail map[string]error

	txCalls int
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[int64]model.Category{},
		products:   map[int64]model.Product{},
		cartItems:  map[int64]model.CartItem{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64]model.OrderItem{},
		fail:       map[string]error{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) err(key string) error {
	return s.fail[key]
}

func (s *memStore) addProduct(p model.Product) model.Product {
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addCartItem(userID, productID, qty int64) model.CartItem {
	it := model.CartItem{ID: s.id(), UserID: userID, ProductID: productID, Quantity: qty}
	s.cartItems[it.ID] = it
	return it
}

func (s *memStore) cartOf(userID int64) []model.CartItem {
	out := []model.CartItem{}
	for _, it := range s.cartItems {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memSnapshot struct {
	nextID     int64
	categories map[int64]model.Category
	products   map[int64]model.Product
	cartItems  map[int64]model.CartItem
	orders     map[int64]model.Order
	orderItems map[int64]model.OrderItem
	auditLogs  []model.AuditLog
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		nextID:     s.nextID,
		categories: copyMap(s.categories),
		products:   copyMap(s.products),
		cartItems:  copyMap(s.cartItems),
		orders:     copyMap(s.orders),
		orderItems: copyMap(s.orderItems),
		auditLogs:  append([]model.AuditLog{}, s.auditLogs...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.categories = snap.categories
	s.products = snap.products
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.auditLogs = snap.auditLogs
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.txCalls++
	snap := s.snapshot()
	if err := fn(memTxRepos{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memTxRepos struct{ s *memStore }

func (r memTxRepos) Products() repo.ProductRepository     { return memProducts{r.s} }
func (r memTxRepos) CartItems() repo.CartItemRepository   { return memCartItems{r.s} }
func (r memTxRepos) Inventory() repo.InventoryRepository  { return memInventory{r.s} }
func (r memTxRepos) Orders() repo.OrderRepository         { return memOrders{r.s} }
func (r memTxRepos) OrderItems() repo.OrderItemRepository { return memOrderItems{r.s} }
func (r memTxRepos) AuditLogs() repo.AuditLogRepository   { return memAuditLogs{r.s} }

// ---- products ----

type memProducts struct{ s *memStore }

func (m memProducts) ListAvailable(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	if err := m.s.err("Products.ListAvailable"); err != nil {
		return nil, err
	}
	out := []model.Product{}
	for _, p := range m.s.products {
		if !p.Available {
			continue
		}
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Sort == repo.SortByNewest {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return strings.Compare(out[i].Name, out[j].Name) < 0
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	if err := m.s.err("Products.FindByID"); err != nil {
		return model.Product{}, err
	}
	p, ok := m.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (m memProducts) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	for _, p := range m.s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (m memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := m.s.err("Products.Create"); err != nil {
		return model.Product{}, err
	}
	for _, ex := range m.s.products {
		if ex.Slug == p.Slug {
			return model.Product{}, repo.ErrDuplicate
		}
	}
	p.ID = m.s.id()
	m.s.products[p.ID] = p
	return p, nil
}

// ---- cart items ----

type memCartItems struct{ s *memStore }

func (m memCartItems) withProduct(it model.CartItem) model.CartItem {
	it.Product = m.s.products[it.ProductID]
	return it
}

func (m memCartItems) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	if err := m.s.err("CartItems.ListByUserID"); err != nil {
		return nil, err
	}
	out := m.s.cartOf(userID)
	for i := range out {
		out[i] = m.withProduct(out[i])
	}
	return out, nil
}

func (m memCartItems) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	for _, it := range m.s.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (m memCartItems) FindByIDForUser(ctx context.Context, cartItemID int64, userID int64) (model.CartItem, error) {
	it, ok := m.s.cartItems[cartItemID]
	if !ok || it.UserID != userID {
		return model.CartItem{}, repo.ErrNotFound
	}
	return m.withProduct(it), nil
}

func (m memCartItems) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if err := m.s.err("CartItems.Create"); err != nil {
		return model.CartItem{}, err
	}
	if _, err := m.FindByUserAndProduct(ctx, item.UserID, item.ProductID); err == nil {
		return model.CartItem{}, repo.ErrDuplicate
	}
	item.ID = m.s.id()
	m.s.cartItems[item.ID] = item
	return item, nil
}

func (m memCartItems) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	if err := m.s.err("CartItems.UpdateQuantity"); err != nil {
		return err
	}
	it, ok := m.s.cartItems[cartItemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Quantity = qty
	m.s.cartItems[cartItemID] = it
	return nil
}

func (m memCartItems) DeleteByID(ctx context.Context, cartItemID int64) error {
	if err := m.s.err("CartItems.DeleteByID"); err != nil {
		return err
	}
	if _, ok := m.s.cartItems[cartItemID]; !ok {
		return repo.ErrNotFound
	}
	delete(m.s.cartItems, cartItemID)
	return nil
}

// ---- inventory ----

type memInventory struct{ s *memStore }

func (m memInventory) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	if err := m.s.err("Inventory.DecreaseStockIfEnough"); err != nil {
		return false, err
	}
	p, ok := m.s.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	m.s.products[productID] = p
	return true, nil
}

// ---- orders ----

type memOrders struct{ s *memStore }

func (m memOrders) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := m.s.err("Orders.Create"); err != nil {
		return 0, err
	}
	order.ID = m.s.id()
	order.Items = nil
	m.s.orders[order.ID] = order
	return order.ID, nil
}

func (m memOrders) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range m.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memOrderItems struct{ s *memStore }

func (m memOrderItems) InsertForOrder(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if err := m.s.err("OrderItems.InsertForOrder"); err != nil {
		return err
	}
	for _, it := range items {
		it.ID = m.s.id()
		it.OrderID = orderID
		m.s.orderItems[it.ID] = it
	}
	return nil
}

func (m memOrderItems) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	want := map[int64]bool{}
	for _, id := range orderIDs {
		want[id] = true
	}
	out := map[int64][]model.OrderItem{}
	for _, it := range m.s.orderItems {
		if want[it.OrderID] {
			out[it.OrderID] = append(out[it.OrderID], it)
		}
	}
	for id := range out {
		items := out[id]
		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	}
	return out, nil
}

// ---- audit logs ----

type memAuditLogs struct{ s *memStore }

func (m memAuditLogs) Create(ctx context.Context, log model.AuditLog) error {
	if err := m.s.err("AuditLogs.Create"); err != nil {
		return err
	}
	log.ID = m.s.id()
	m.s.auditLogs = append(m.s.auditLogs, log)
	return nil
}

// memCategories はtx外で使うカテゴリrepo
type memCategories struct{ s *memStore }

func (m memCategories) ListAll(ctx context.Context) ([]model.Category, error) {
	out := []model.Category{}
	for _, c := range m.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memCategories) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	for _, c := range m.s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (m memCategories) FindByID(ctx context.Context, id int64) (model.Category, error) {
	c, ok := m.s.categories[id]
	if !ok {
		return model.Category{}, repo.ErrNotFound
	}
	return c, nil
}

func (m memCategories) Create(ctx context.Context, c model.Category) (model.Category, error) {
	c.ID = m.s.id()
	m.s.categories[c.ID] = c
	return c, nil
}

var (
	_ repo.TransactionManager = (*memStore)(nil)
	_ repo.CategoryRepository = memCategories{}
)
