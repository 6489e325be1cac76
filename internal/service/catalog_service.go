package service

import (
	"context"
	"fmt"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/ws"

	"github.com/rs/zerolog"
)

// CatalogService is the CRUD surface of the reference data products point at.
type CatalogService[T any] interface {
	Create(ctx context.Context, entity *T, actor Actor) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, id uint, entity *T, actor Actor) (*T, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type catalogService[T any, P interface {
	*T
	model.Auditable
}] struct {
	repo   repository.ReferenceRepository[T]
	kind   string
	check  func(*T) error
	merge  func(dst, src *T)
	events ws.Publisher
	log    zerolog.Logger
}

func NewCategoryService(repo repository.ReferenceRepository[model.Category], events ws.Publisher, log zerolog.Logger) CatalogService[model.Category] {
	return &catalogService[model.Category, *model.Category]{
		repo:   repo,
		kind:   "category",
		merge:  func(dst, src *model.Category) { dst.Name = src.Name },
		events: events,
		log:    log.With().Str("component", "categories").Logger(),
	}
}

func NewBrandService(repo repository.ReferenceRepository[model.Brand], events ws.Publisher, log zerolog.Logger) CatalogService[model.Brand] {
	return &catalogService[model.Brand, *model.Brand]{
		repo:   repo,
		kind:   "brand",
		merge:  func(dst, src *model.Brand) { dst.Name = src.Name },
		events: events,
		log:    log.With().Str("component", "brands").Logger(),
	}
}

func NewMotorcycleService(repo repository.ReferenceRepository[model.Motorcycle], events ws.Publisher, log zerolog.Logger) CatalogService[model.Motorcycle] {
	return &catalogService[model.Motorcycle, *model.Motorcycle]{
		repo:  repo,
		kind:  "motorcycle",
		check: checkYears,
		merge: func(dst, src *model.Motorcycle) {
			dst.Manufacturer = src.Manufacturer
			dst.Model = src.Model
			dst.YearFrom = src.YearFrom
			dst.YearTo = src.YearTo
		},
		events: events,
		log:    log.With().Str("component", "motorcycles").Logger(),
	}
}

func checkYears(m *model.Motorcycle) error {
	if m.YearFrom != nil && m.YearTo != nil && *m.YearTo < *m.YearFrom {
		return fieldError("yearTo", "gtefield")
	}
	return nil
}

func (s *catalogService[T, P]) validate(entity *T) error {
	if err := validate(entity); err != nil {
		return err
	}
	if s.check != nil {
		return s.check(entity)
	}
	return nil
}

func (s *catalogService[T, P]) Create(ctx context.Context, entity *T, actor Actor) (*T, error) {
	if err := s.validate(entity); err != nil {
		return nil, err
	}

	P(entity).SetID(0)
	P(entity).StampCreated(actor.Username)
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}

	id := P(entity).GetID()
	s.log.Info().Uint("id", id).Str("actor", actor.Username).Msg(s.kind + " created")
	s.publish(s.kind+"_created", id, actor)
	return entity, nil
}

func (s *catalogService[T, P]) GetAll(ctx context.Context) ([]T, error) {
	return s.repo.FindAll(ctx)
}

func (s *catalogService[T, P]) GetByID(ctx context.Context, id uint) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return entity, nil
}

func (s *catalogService[T, P]) Update(ctx context.Context, id uint, entity *T, actor Actor) (*T, error) {
	if err := s.validate(entity); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	s.merge(existing, entity)
	P(existing).StampUpdated(actor.Username)

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	s.publish(s.kind+"_updated", id, actor)
	return existing, nil
}

// Delete fails with ErrConflict while products still reference the row.
func (s *catalogService[T, P]) Delete(ctx context.Context, id uint, actor Actor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, ErrReferenceNotFound)
	}
	s.log.Info().Uint("id", id).Str("actor", actor.Username).Msg(s.kind + " deleted")
	s.publish(s.kind+"_deleted", id, actor)
	return nil
}

func (s *catalogService[T, P]) publish(action string, id uint, actor Actor) {
	s.events.Publish(ws.Event{
		Type:    "catalog_update",
		Action:  action,
		Data:    map[string]interface{}{"id": id},
		Actor:   actor.Username,
		Message: fmt.Sprintf("%s changed %s #%d", actor.label(), s.kind, id),
	})
}
