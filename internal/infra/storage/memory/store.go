package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Store хранилище в памяти для локального запуска и тестов.
// Транзакции сериализуются одним мьютексом, при ошибке состояние откатывается к снимку.
type Store struct {
	txMu sync.Mutex // держится на всё время транзакции
	mu   sync.RWMutex

	vehicles    map[int64]*domain.Vehicle
	customers   map[int64]*domain.Customer
	rentals     map[int64]*domain.Rental
	damages     map[int64]*domain.Damage
	maintenance map[int64]*domain.Maintenance
	nextID      int64

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		vehicles:    make(map[int64]*domain.Vehicle),
		customers:   make(map[int64]*domain.Customer),
		rentals:     make(map[int64]*domain.Rental),
		damages:     make(map[int64]*domain.Damage),
		maintenance: make(map[int64]*domain.Maintenance),
		now:         time.Now,
	}
}

type snapshot struct {
	vehicles    map[int64]*domain.Vehicle
	customers   map[int64]*domain.Customer
	rentals     map[int64]*domain.Rental
	damages     map[int64]*domain.Damage
	maintenance map[int64]*domain.Maintenance
	nextID      int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot{
		vehicles:    cloneMap(s.vehicles),
		customers:   cloneMap(s.customers),
		rentals:     cloneMap(s.rentals),
		damages:     cloneMap(s.damages),
		maintenance: cloneMap(s.maintenance),
		nextID:      s.nextID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vehicles = snap.vehicles
	s.customers = snap.customers
	s.rentals = snap.rentals
	s.damages = snap.damages
	s.maintenance = snap.maintenance
	s.nextID = snap.nextID
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddVehicle добавляет автомобиль (для начального наполнения)
func (s *Store) AddVehicle(v domain.Vehicle) *domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == 0 {
		v.ID = s.id()
	} else if v.ID > s.nextID {
		s.nextID = v.ID
	}
	if v.Status == "" {
		v.Status = domain.VehicleAvailable
	}
	v.CreatedAt, v.UpdatedAt = s.now(), s.now()
	s.vehicles[v.ID] = &v
	out := v
	return &out
}

// AddCustomer добавляет клиента (для начального наполнения)
func (s *Store) AddCustomer(c domain.Customer) *domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		c.ID = s.id()
	} else if c.ID > s.nextID {
		s.nextID = c.ID
	}
	c.CreatedAt, c.UpdatedAt = s.now(), s.now()
	s.customers[c.ID] = &c
	out := c
	return &out
}

// TxManager менеджер транзакций для хранилища в памяти
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

type txKey struct{}

// DoSerializable выполняет fn эксклюзивно; при ошибке изменения откатываются
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// DoReadOnly выполняет fn без эксклюзивной блокировки
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func cloneMap[T any](src map[int64]*T) map[int64]*T {
	dst := make(map[int64]*T, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func sortedIDs[T any](m map[int64]*T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
