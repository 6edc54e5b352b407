package usecase

import (
	"context"

	"github.com/craftlocal/leadflow/internal/entity"
	"github.com/craftlocal/leadflow/internal/infra/integration/imagehost"
)

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id int64) (*entity.Lead, error)
	List(ctx context.Context) ([]entity.Lead, error)
	Update(ctx context.Context, id int64, fn func(*entity.Lead) error) (*entity.Lead, error)
	Mutate(ctx context.Context, fn func(leads []entity.Lead) ([]entity.Lead, error)) ([]entity.Lead, error)
}

// UploadGateway turns raw image bytes into a durable representation. It never
// fails per item: when the remote host is unreachable or rejects the file the
// result carries the inline fallback instead.
type UploadGateway interface {
	Store(ctx context.Context, data []byte, mimeType, filenameHint string) imagehost.StoreResult
}

// LeadNotifier tells the business owner about a new lead. Best effort only.
type LeadNotifier interface {
	NotifyNewLead(lead *entity.Lead) error
}
