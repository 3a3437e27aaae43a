package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rsbackend/db/tx"
	"rsbackend/models"
)

type PostgresMetaRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresMetaRepository(db *sqlx.DB, schema string) *PostgresMetaRepository {
	return &PostgresMetaRepository{db: db, schema: schema}
}

func (r *PostgresMetaRepository) ListLanguages(ctx context.Context) ([]models.Language, error) {
	query := fmt.Sprintf(`
		SELECT id, matching_name, display_name
		FROM %s.languages
		ORDER BY display_name`, r.schema)

	languages := []models.Language{}
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &languages, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}

	return languages, nil
}

func (r *PostgresMetaRepository) ListFrameworks(ctx context.Context) ([]models.Framework, error) {
	query := fmt.Sprintf(`
		SELECT id, matching_name, display_name, category
		FROM %s.frameworks
		ORDER BY category, display_name`, r.schema)

	frameworks := []models.Framework{}
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &frameworks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list frameworks: %w", err)
	}

	return frameworks, nil
}

func (r *PostgresMetaRepository) ListDomains(ctx context.Context) ([]models.Domain, error) {
	query := fmt.Sprintf(`
		SELECT id, matching_name, display_name
		FROM %s.domains
		ORDER BY display_name`, r.schema)

	domains := []models.Domain{}
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &domains, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	return domains, nil
}
