package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/store/internal/domain"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/google/uuid"
)

// Окно цен, которое используется, если граница в запросе не указана.
const (
	DefaultPriceMin = 5000
	DefaultPriceMax = 8000
)

const cacheTimeout = 500 * time.Millisecond

// ProductUseCase реализует бизнес-логику управления продуктами.
// Не хранит состояния между вызовами и безопасен для конкурентного использования.
type ProductUseCase struct {
	productRepo ProductRepository
	tx          Transactor
	cacheRepo   CacheRepository
	producer    EventProducer
	logger      logger.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewProductUC создаёт usecase. cacheRepo и producer могут быть nil.
func NewProductUC(
	productRepo ProductRepository,
	tx Transactor,
	cacheRepo CacheRepository,
	producer EventProducer,
	logger logger.Logger,
) *ProductUseCase {
	if tx == nil {
		tx = PassThroughTx{}
	}
	if cacheRepo == nil {
		cacheRepo = nopCache{}
	}
	if producer == nil {
		producer = nopProducer{}
	}

	return &ProductUseCase{
		productRepo: productRepo,
		tx:          tx,
		cacheRepo:   cacheRepo,
		producer:    producer,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.New,
	}
}

// Create сохраняет новый продукт одной вставкой.
func (p *ProductUseCase) Create(ctx context.Context, req *CreateProductReq) (*ProductOut, error) {
	const op = "ProductUseCase.Create"

	if err := validateCreate(req); err != nil {
		p.logger.Warnf("%s: invalid product: %v", op, err)
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(p.newID(), req.Name, req.Quantity, req.Price, req.Status, p.timestamp())
	if err := p.productRepo.InsertOne(ctx, product); err != nil {
		p.logger.Errorf(err, "%s: failed to insert product %s", op, product.ID)
		return nil, e.WrapAs(op, e.ErrInsertionFailed, err)
	}

	out := NewProductOut(product)
	p.publish(ctx, NewProductEvent(ProductCreated, product.ID, product.CreatedAt, out))

	return out, nil
}

// Get возвращает продукт по id. Сначала проверяется кэш.
func (p *ProductUseCase) Get(ctx context.Context, id uuid.UUID) (*ProductOut, error) {
	const op = "ProductUseCase.Get"

	if err := validateID(id); err != nil {
		return nil, e.Wrap(op, err)
	}

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("%s: cache lookup failed: %v", op, err)
	}
	if cached != nil {
		return NewProductOut(cached), nil
	}
	p.logger.Debugf("%s: cache miss for product %s", op, id)

	product, err := p.findByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.fillCache(ctx, product)

	return NewProductOut(product), nil
}

// Query возвращает продукты, цена которых строго внутри запрошенного окна.
func (p *ProductUseCase) Query(ctx context.Context, req *QueryProductsReq) ([]ProductOut, error) {
	const op = "ProductUseCase.Query"

	products, err := p.productRepo.Find(ctx, buildPriceFilter(req))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewArrProductOut(products), nil
}

// Update применяет частичное обновление: меняются только переданные поля и updated_at.
func (p *ProductUseCase) Update(ctx context.Context, id uuid.UUID, req *UpdateProductReq) (*ProductOut, error) {
	const op = "ProductUseCase.Update"

	if err := validateID(id); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := validateUpdate(req); err != nil {
		p.logger.Warnf("%s: invalid update for product %s: %v", op, id, err)
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Product
	err := p.tx.Do(ctx, func(ctx context.Context) error {
		current, err := p.findByID(ctx, id)
		if err != nil {
			return err
		}

		updated, err = p.productRepo.FindOneAndUpdate(ctx, domain.ByID(id), p.buildUpdate(req, current))
		if errors.Is(err, e.ErrNoDocuments) {
			// документ удалён между проверкой и обновлением
			return e.ErrProductNotFound
		}

		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, id)

	out := NewProductOut(updated)
	p.publish(ctx, NewProductEvent(ProductUpdated, id, updated.UpdatedAt, out))

	return out, nil
}

// Delete физически удаляет продукт. Возвращает false, если удаление не затронуло ни одного документа.
func (p *ProductUseCase) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "ProductUseCase.Delete"

	if err := validateID(id); err != nil {
		return false, e.Wrap(op, err)
	}

	var deleted int64
	err := p.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := p.findByID(ctx, id); err != nil {
			return err
		}

		var err error
		deleted, err = p.productRepo.DeleteOne(ctx, domain.ByID(id))
		return err
	})
	if err != nil {
		return false, e.Wrap(op, err)
	}

	if deleted == 0 {
		p.logger.Warnf("%s: product %s disappeared before deletion", op, id)
		return false, nil
	}

	p.invalidateCache(ctx, id)
	p.publish(ctx, NewProductEvent(ProductDeleted, id, p.timestamp(), nil))

	return true, nil
}

// findByID ищет продукт по id и переводит промах хранилища в ErrProductNotFound.
func (p *ProductUseCase) findByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := p.productRepo.FindOne(ctx, domain.ByID(id))
	if errors.Is(err, e.ErrNoDocuments) {
		p.logger.Warnf("Product not found with filter: %s", id)
		return nil, e.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

// buildUpdate собирает набор обновления. updated_at не может оказаться раньше created_at.
func (p *ProductUseCase) buildUpdate(req *UpdateProductReq, current *domain.Product) domain.ProductUpdate {
	updatedAt := p.timestamp()
	if updatedAt.Before(current.CreatedAt) {
		updatedAt = current.CreatedAt
	}

	return domain.ProductUpdate{
		Name:      req.Name,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Status:    req.Status,
		UpdatedAt: updatedAt,
	}
}

// buildPriceFilter строит открытый интервал цены, подставляя границы по умолчанию.
func buildPriceFilter(req *QueryProductsReq) domain.ProductFilter {
	gt, lt := float64(DefaultPriceMin), float64(DefaultPriceMax)
	if req != nil && req.PriceMin != nil {
		gt = *req.PriceMin
	}
	if req != nil && req.PriceMax != nil {
		lt = *req.PriceMax
	}

	return domain.ByPriceRange(gt, lt)
}

// timestamp возвращает текущее время с точностью до миллисекунд, которую сохраняют все хранилища.
func (p *ProductUseCase) timestamp() time.Time {
	return p.now().UTC().Truncate(time.Millisecond)
}

// fillCache кладёт продукт в кэш и сверяет его с хранилищем. Если продукт изменён или удалён
// после чтения, запись убирается. Мутация, завершившаяся после сверки, инвалидирует запись сама.
func (p *ProductUseCase) fillCache(ctx context.Context, product *domain.Product) {
	ctx, cancel := detached(ctx)
	defer cancel()

	if err := p.cacheRepo.SetProduct(ctx, product); err != nil {
		p.logger.Warnf("Failed to cache product %s: %v", product.ID, err)
		return
	}

	current, err := p.productRepo.FindOne(ctx, domain.ByID(product.ID))
	if err == nil && sameProduct(current, product) {
		return
	}
	if err != nil && !errors.Is(err, e.ErrNoDocuments) {
		p.logger.Warnf("Failed to recheck cached product %s: %v", product.ID, err)
	}

	p.logger.Debugf("Product %s changed while caching, dropping cache entry", product.ID)
	p.deleteFromCache(ctx, product.ID)
}

// invalidateCache удаляет продукт из кэша после мутации. Выполняется и при отменённом запросе:
// мутация в хранилище уже применена.
func (p *ProductUseCase) invalidateCache(ctx context.Context, id uuid.UUID) {
	ctx, cancel := detached(ctx)
	defer cancel()

	p.deleteFromCache(ctx, id)
}

func (p *ProductUseCase) deleteFromCache(ctx context.Context, id uuid.UUID) {
	if err := p.cacheRepo.DeleteProduct(ctx, id); err != nil {
		p.logger.Warnf("Failed to delete product %s from cache: %v", id, err)
	}
}

// detached возвращает контекст, не зависящий от отмены запроса и ограниченный cacheTimeout.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
}

func sameProduct(a, b *domain.Product) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Quantity == b.Quantity &&
		a.Price == b.Price &&
		a.Status == b.Status &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

func (p *ProductUseCase) publish(ctx context.Context, event *ProductEvent) {
	if err := p.producer.Publish(ctx, event); err != nil {
		p.logger.Warnf("Failed to publish %s for product %s: %v", event.Type, event.ProductID, err)
	}
}

func validateID(id uuid.UUID) error {
	if id == uuid.Nil {
		return e.ErrInvalidProductID
	}

	return nil
}

// validateCreate проверяет корректность входных данных запроса на создание продукта.
func validateCreate(req *CreateProductReq) error {
	if req == nil {
		return e.ErrMissingFields
	}

	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Quantity < 0 {
		return e.ErrQuantityNegative
	}

	if req.Price < 0 {
		return e.ErrPriceNegative
	}

	return nil
}

func validateUpdate(req *UpdateProductReq) error {
	if req == nil {
		return e.ErrMissingFields
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Quantity != nil && *req.Quantity < 0 {
		return e.ErrQuantityNegative
	}

	if req.Price != nil && *req.Price < 0 {
		return e.ErrPriceNegative
	}

	return nil
}
