package port

import (
	"context"

	"github.com/google/uuid"

	"rinsetu/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// DecisionAuditRepository defines the contract for decision audit persistence.
// Audit rows carry the verdict summary only; extracted document fields never
// reach this repository.
type DecisionAuditRepository interface {
	Create(ctx context.Context, entry *domain.DecisionAudit) error
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DecisionAudit, int, error)
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.DecisionAudit, error)
}
