package usecase

import (
	"context"
	"log"

	"github.com/craftlocal/leadflow/internal/entity"
)

type AttachPhotosUseCase struct {
	Repo LeadRepositoryInterface
}

func NewAttachPhotosUseCase(repo LeadRepositoryInterface) *AttachPhotosUseCase {
	return &AttachPhotosUseCase{Repo: repo}
}

// AttachPhotosInput joins an uploaded photo batch back to the lead that
// originated it. SubmittedAt is the client's correlation marker for when the
// lead id did not make the round trip intact.
type AttachPhotosInput struct {
	LeadID      int64
	SubmittedAt string
	Photos      []string
	PhotoData   []entity.PhotoData
}

// AttachPhotosOutput reports the updated lead and which lookup tier matched
// it: "id", "submitted_at" or "most_recent".
type AttachPhotosOutput struct {
	Lead  *entity.Lead
	Match string
}

// Execute locates the target lead and appends the batch. Lookup runs in
// three tiers: exact id, then the submittedAt marker, then the single
// most-recently-created lead (creation order, last wins). The last tier is a
// deliberate best-effort recovery for client/server id mismatches and can
// misattach under concurrent submissions; it is logged when it fires. Only an
// empty collection is a failure.
func (uc *AttachPhotosUseCase) Execute(ctx context.Context, input AttachPhotosInput) (*AttachPhotosOutput, error) {
	out := &AttachPhotosOutput{}

	_, err := uc.Repo.Mutate(ctx, func(leads []entity.Lead) ([]entity.Lead, error) {
		if len(leads) == 0 {
			return nil, entity.ErrLeadNotFound
		}

		idx := -1
		for i := range leads {
			if leads[i].ID == input.LeadID {
				idx = i
				out.Match = "id"
				break
			}
		}

		if idx < 0 && input.SubmittedAt != "" {
			for i := range leads {
				if leads[i].SubmittedAt == input.SubmittedAt {
					idx = i
					out.Match = "submitted_at"
					break
				}
			}
		}

		if idx < 0 {
			idx = len(leads) - 1
			out.Match = "most_recent"
			log.Printf("attach photos: lead %d not found, falling back to most recent lead %d", input.LeadID, leads[idx].ID)
		}

		leads[idx].AppendPhotos(input.Photos, input.PhotoData)

		result := leads[idx]
		out.Lead = &result
		return leads, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
