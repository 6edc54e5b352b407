package usecase

import (
	"context"
	"log"
	"time"

	"github.com/craftlocal/leadflow/internal/entity"
)

type CreateLeadUseCase struct {
	Repo     LeadRepositoryInterface
	Notifier LeadNotifier
}

func NewCreateLeadUseCase(repo LeadRepositoryInterface, notifier LeadNotifier) *CreateLeadUseCase {
	return &CreateLeadUseCase{Repo: repo, Notifier: notifier}
}

// Execute creates a lead from raw form fields: status starts at "new", the
// derived timestamps are initialized, unknown fields pass through, and the id
// is assigned by the repository. The owner notification is best effort and
// never fails the submission.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, fields map[string]any) (*entity.Lead, error) {
	lead := entity.NewLead(fields, time.Now())

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "STORE_WRITE_FAILED", Message: err.Error()}
	}

	if uc.Notifier != nil {
		if err := uc.Notifier.NotifyNewLead(lead); err != nil {
			log.Printf("lead %d: owner notification failed: %v", lead.ID, err)
		}
	}

	return lead, nil
}
