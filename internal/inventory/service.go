// Package inventory tracks clinic supplies and reports what needs reordering.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("not enough stock")
)

type Repository interface {
	CreateItem(ctx context.Context, it *clinic.InventoryItem) error
	UpdateItem(ctx context.Context, it *clinic.InventoryItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*clinic.InventoryItem, error)
	ListItems(ctx context.Context) ([]clinic.InventoryItem, error)
}

type ItemInput struct {
	Name        string  `validate:"required,max=120"`
	Category    string  `validate:"required,max=60"`
	Quantity    int     `validate:"gte=0"`
	Unit        string  `validate:"required,max=20"`
	MinQuantity int     `validate:"gte=0"`
	Supplier    *string `validate:"omitempty,max=120"`
	ExpiryDate  *string `validate:"omitempty,datetime=2006-01-02"`
}

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		validate: validator.New(),
		log:      log.With().Str("component", "inventory").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, in ItemInput) (*clinic.InventoryItem, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	it := clinic.InventoryItem{ID: uuid.New()}
	apply(&it, in)
	if err := s.repo.CreateItem(ctx, &it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &it, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in ItemInput) (*clinic.InventoryItem, error) {
	it, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	apply(it, in)
	if err := s.repo.UpdateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*clinic.InventoryItem, error) {
	return s.repo.GetItemByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]clinic.InventoryItem, error) {
	return s.repo.ListItems(ctx)
}

// Adjust adds delta (negative to consume) to the stock. The quantity never drops below zero.
// The read and the write share the item's lock so concurrent movements are all counted.
func (s *Service) Adjust(ctx context.Context, id uuid.UUID, delta int) (*clinic.InventoryItem, error) {
	var it *clinic.InventoryItem
	err := s.locker.WithLock(ctx, redisclient.ItemKey(id), func(lockCtx context.Context) error {
		var err error
		if it, err = s.repo.GetItemByID(lockCtx, id); err != nil {
			return err
		}
		if it.Quantity+delta < 0 {
			return fmt.Errorf("%w: have %d %s, need %d", ErrInsufficientStock, it.Quantity, it.Unit, -delta)
		}
		it.Quantity += delta
		if err := s.repo.UpdateItem(lockCtx, it); err != nil {
			return fmt.Errorf("adjust item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if IsLow(*it) {
		s.log.Warn().
			Str("item_id", it.ID.String()).
			Str("name", it.Name).
			Int("quantity", it.Quantity).
			Int("min_quantity", it.MinQuantity).
			Msg("stock is low")
	}
	return it, nil
}

// LowStock lists items at or below their minimum quantity.
func (s *Service) LowStock(ctx context.Context) ([]clinic.InventoryItem, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]clinic.InventoryItem, 0)
	for _, it := range items {
		if IsLow(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func IsLow(it clinic.InventoryItem) bool {
	return it.Quantity <= it.MinQuantity
}

func apply(it *clinic.InventoryItem, in ItemInput) {
	it.Name = in.Name
	it.Category = in.Category
	it.Quantity = in.Quantity
	it.Unit = in.Unit
	it.MinQuantity = in.MinQuantity
	it.Supplier = in.Supplier
	it.ExpiryDate = in.ExpiryDate
}

func (s *Service) check(in *ItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Unit = strings.TrimSpace(in.Unit)
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
