package usecase

import (
	"context"
	"time"

	"github.com/craftlocal/leadflow/internal/entity"
)

// Field names an admin update may write. Anything else in the request body is
// dropped without error; the filter is the whole contract.
var updatableFields = map[string]bool{
	"status":          true,
	"notes":           true,
	"nextFollowUpAt":  true,
	"lastContactedAt": true,
	"quoteAmount":     true,
	"jobAmount":       true,
	"lostReason":      true,
}

type UpdateLeadUseCase struct {
	Repo LeadRepositoryInterface
}

func NewUpdateLeadUseCase(repo LeadRepositoryInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Repo: repo}
}

// SetStatus moves one lead through the status machine: statusUpdatedAt
// refreshes, closedAt is set on the first terminal transition and cleared on
// reopen.
func (uc *UpdateLeadUseCase) SetStatus(ctx context.Context, id int64, status string) (*entity.Lead, error) {
	if status == "" {
		return nil, &DomainError{Code: "STATUS_REQUIRED", Message: "status is required"}
	}

	return uc.Repo.Update(ctx, id, func(lead *entity.Lead) error {
		lead.ApplyStatus(status, time.Now())
		return nil
	})
}

// UpdateFields applies an allow-listed partial update. Free-text fields are
// coerced to strings, amounts normalize empty to absent, and a status key
// goes through the same transition logic as SetStatus.
func (uc *UpdateLeadUseCase) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*entity.Lead, error) {
	return uc.Repo.Update(ctx, id, func(lead *entity.Lead) error {
		for key, value := range fields {
			if !updatableFields[key] {
				continue
			}

			switch key {
			case "status":
				lead.ApplyStatus(entity.CoerceString(value), time.Now())
			case "notes":
				lead.Notes = entity.CoerceString(value)
			case "lostReason":
				lead.LostReason = entity.CoerceString(value)
			case "nextFollowUpAt":
				lead.NextFollowUpAt = entity.CoerceString(value)
			case "lastContactedAt":
				lead.LastContactedAt = entity.CoerceString(value)
			case "quoteAmount":
				lead.QuoteAmount = entity.NormalizeAmount(value)
			case "jobAmount":
				lead.JobAmount = entity.NormalizeAmount(value)
			}
		}
		return nil
	})
}
