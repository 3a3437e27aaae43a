package meta

import (
	"context"
	"fmt"

	"rsbackend/db"
	"rsbackend/models"
)

// MetaService serves the canonical taxonomy lists. The tables are seeded
// out of band and read-only at runtime.
type MetaService struct {
	metaRepo *db.PostgresMetaRepository
}

func NewMetaService(repo *db.PostgresMetaRepository) *MetaService {
	return &MetaService{metaRepo: repo}
}

func (s *MetaService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	languages, err := s.metaRepo.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

// ListFrameworksGrouped returns frameworks keyed by category.
func (s *MetaService) ListFrameworksGrouped(ctx context.Context) (map[string][]models.Framework, error) {
	frameworks, err := s.metaRepo.ListFrameworks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list frameworks: %w", err)
	}

	grouped := map[string][]models.Framework{}
	for _, framework := range frameworks {
		category := framework.Category
		if category == "" {
			category = "uncategorized"
		}
		grouped[category] = append(grouped[category], framework)
	}

	return grouped, nil
}

func (s *MetaService) ListDomains(ctx context.Context) ([]models.Domain, error) {
	domains, err := s.metaRepo.ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return domains, nil
}
