package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/access"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// Ошибки бизнес-логики авторизации.
var (
	// ErrForbidden возвращается, когда действующий пользователь не имеет
	// права выполнить операцию над ресурсами целевого пользователя.
	ErrForbidden = fmt.Errorf("forbidden")

	// ErrInvalidCategory возвращается для неизвестной категории ресурса.
	ErrInvalidCategory = fmt.Errorf("invalid resource category")

	// ErrSelfGrant возвращается при попытке выдать разрешение самому себе.
	ErrSelfGrant = fmt.Errorf("grant to self is not allowed")
)

// Service описывает usecase-слой авторизации доступа к ресурсам:
// проверку прав «acting on behalf of» и управление делегированными разрешениями.
type Service interface {
	// CanAccess проверяет, может ли действующий пользователь acting выполнить
	// операцию op над ресурсами категории category, принадлежащими target.
	// Владелец всегда имеет полный доступ к собственным данным; для чужих
	// требуется активное непросроченное разрешение, покрывающее категорию
	// и допускающее операцию (read-only разрешение запрещает запись).
	// Возвращает nil при успехе и ErrForbidden при отказе.
	CanAccess(ctx context.Context, acting, target uuid.UUID, category domain.Category, op domain.Operation) error

	// Grant выдаёт делегированное разрешение от владельца owner пользователю
	// grantee. readOnly ограничивает разрешение операциями чтения.
	Grant(ctx context.Context, owner, grantee uuid.UUID, categories []domain.Category, readOnly bool, expiresAt *time.Time) (*domain.Grant, error)

	// ListGrants возвращает разрешения, выданные владельцем.
	ListGrants(ctx context.Context, owner uuid.UUID) ([]*domain.Grant, error)

	// Revoke отзывает разрешение. Отозвать может только его владелец.
	Revoke(ctx context.Context, owner, grantID uuid.UUID) error
}

type service struct {
	grants repo.GrantRepository
	now    func() time.Time
}

// NewService создаёт сервис авторизации.
func NewService(grants repo.GrantRepository) Service {
	return &service{grants: grants, now: func() time.Time { return time.Now().UTC() }}
}

// CanAccess реализует проверку прав доступа.
func (s *service) CanAccess(ctx context.Context, acting, target uuid.UUID, category domain.Category, op domain.Operation) error {
	if !category.IsValid() {
		return ErrInvalidCategory
	}

	// Собственные данные доступны всегда
	if acting == target {
		return nil
	}

	grants, err := s.grants.FindForPair(ctx, target, acting)
	if err != nil {
		return err
	}

	at := s.now()
	for _, g := range grants {
		if g.Allows(category, op, at) {
			return nil
		}
	}

	return ErrForbidden
}

// Grant выдаёт делегированное разрешение.
func (s *service) Grant(ctx context.Context, owner, grantee uuid.UUID, categories []domain.Category, readOnly bool, expiresAt *time.Time) (*domain.Grant, error) {
	if owner == grantee {
		return nil, ErrSelfGrant
	}
	if len(categories) == 0 {
		return nil, ErrInvalidCategory
	}
	for _, c := range categories {
		if !c.IsValid() {
			return nil, ErrInvalidCategory
		}
	}

	grant := domain.NewGrant(owner, grantee, categories, readOnly, expiresAt)
	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// ListGrants возвращает разрешения, выданные владельцем.
func (s *service) ListGrants(ctx context.Context, owner uuid.UUID) ([]*domain.Grant, error) {
	return s.grants.ListByOwner(ctx, owner)
}

// Revoke отзывает разрешение.
func (s *service) Revoke(ctx context.Context, owner, grantID uuid.UUID) error {
	grant, err := s.grants.GetByID(ctx, grantID)
	if err != nil {
		return err
	}
	if grant.OwnerUserID != owner {
		return ErrForbidden
	}
	return s.grants.Delete(ctx, grantID)
}
