package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rinsetu/internal/domain"
	"rinsetu/internal/port"
)

type decisionAuditRepo struct {
	db *sqlx.DB
}

// NewDecisionAuditRepo creates a new PostgreSQL-backed DecisionAuditRepository.
func NewDecisionAuditRepo(db *sqlx.DB) port.DecisionAuditRepository {
	return &decisionAuditRepo{db: db}
}

func (r *decisionAuditRepo) Create(ctx context.Context, entry *domain.DecisionAudit) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `INSERT INTO decision_audits
		(id, session_id, user_id, risk_tier, max_loan_amount, interest_rate_band, reason_summary, document_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.SessionID, entry.UserID, entry.RiskTier, entry.MaxLoanAmount,
		entry.InterestRateBand, entry.ReasonSummary, entry.DocumentCount, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("decisionAuditRepo.Create: %w", err)
	}
	return nil
}

func (r *decisionAuditRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DecisionAudit, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM decision_audits WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("decisionAuditRepo.ListByUser count: %w", err)
	}

	var entries []domain.DecisionAudit
	err = r.db.SelectContext(ctx, &entries,
		"SELECT * FROM decision_audits WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("decisionAuditRepo.ListByUser: %w", err)
	}
	return entries, total, nil
}

func (r *decisionAuditRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.DecisionAudit, error) {
	var entry domain.DecisionAudit
	err := r.db.GetContext(ctx, &entry,
		"SELECT * FROM decision_audits WHERE session_id = $1 ORDER BY created_at DESC LIMIT 1", sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("decisionAuditRepo.GetBySessionID: %w", err)
	}
	return &entry, nil
}
