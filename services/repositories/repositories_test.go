package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"rsbackend/models"
	"rsbackend/services"
)

func TestApplySetupSelectionValidation(t *testing.T) {
	service := NewRepositoriesService(nil, nil)
	ctx := context.Background()

	t.Run("rejects_non_positive_repo_id", func(t *testing.T) {
		_, err := service.ApplySetupSelection(ctx, 0, models.RepoStatePublic, models.RepoSettings{})
		assert.Error(t, err)
	})

	t.Run("rejects_invalid_state", func(t *testing.T) {
		_, err := service.ApplySetupSelection(ctx, 1, "archived", models.RepoSettings{})
		assert.Error(t, err)
	})
}

func TestUpdateRepositorySettingsValidation(t *testing.T) {
	service := NewRepositoriesService(nil, nil)
	ctx := context.Background()

	t.Run("rejects_non_positive_repo_id", func(t *testing.T) {
		_, err := service.UpdateRepositorySettings(ctx, -1, services.RepositorySettingsPatch{}, models.SystemActor())
		assert.Error(t, err)
	})

	t.Run("rejects_invalid_patch_state", func(t *testing.T) {
		bad := models.RepoState("archived")
		_, err := service.UpdateRepositorySettings(ctx, 1,
			services.RepositorySettingsPatch{State: &bad}, models.SystemActor())
		assert.Error(t, err)
	})
}

func TestUpdateRepositoryMetadataValidation(t *testing.T) {
	service := NewRepositoriesService(nil, nil)
	ctx := context.Background()

	intPtr := func(v int) *int { return &v }

	t.Run("rejects_non_positive_github_repo_id", func(t *testing.T) {
		_, err := service.UpdateRepositoryMetadata(ctx, 0, services.RepositoryMetadataPatch{}, models.SystemActor())
		assert.Error(t, err)
	})

	t.Run("rejects_negative_counts", func(t *testing.T) {
		cases := []struct {
			name  string
			patch services.RepositoryMetadataPatch
		}{
			{"negative_stars", services.RepositoryMetadataPatch{StarsCount: intPtr(-1)}},
			{"negative_forks", services.RepositoryMetadataPatch{ForksCount: intPtr(-3)}},
			{"negative_open_issues", services.RepositoryMetadataPatch{OpenIssuesCount: intPtr(-1)}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.UpdateRepositoryMetadata(ctx, 1000, tc.patch, models.SystemActor())
				assert.Error(t, err)
			})
		}
	})
}

func TestSettingsPatchContext(t *testing.T) {
	t.Run("empty_patch_yields_empty_context", func(t *testing.T) {
		assert.Empty(t, settingsPatchContext(services.RepositorySettingsPatch{}))
	})

	t.Run("only_set_fields_appear", func(t *testing.T) {
		state := models.RepoStatePublic
		enabled := false

		logContext := settingsPatchContext(services.RepositorySettingsPatch{
			State:           &state,
			FeedbackEnabled: &enabled,
		})

		assert.Equal(t, map[string]any{
			"state":            "public",
			"feedback_enabled": false,
		}, logContext)
	})
}
