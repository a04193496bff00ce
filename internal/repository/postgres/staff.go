package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
)

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	if staff.Role == "" {
		staff.Role = "staff"
	}

	_, err := r.db.ExecContext(ctx, query, staff.ID, staff.Username, staff.PasswordHash, staff.Role)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*model.Staff, error) {
	query := `SELECT id, username, password_hash, role FROM staff WHERE username = $1`

	var staff model.Staff
	err := r.db.GetContext(ctx, &staff, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("staff", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}
