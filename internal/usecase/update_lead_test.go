package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlocal/leadflow/internal/entity"
	"github.com/craftlocal/leadflow/internal/infra/database"
)

func newFileRepo(t *testing.T) *database.LeadRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.json")
	return database.NewLeadRepository(database.NewLeadStore(path))
}

func createLead(t *testing.T, repo *database.LeadRepository, fields map[string]any) *entity.Lead {
	t.Helper()
	lead := entity.NewLead(fields, time.Now())
	require.NoError(t, repo.Create(context.Background(), lead))
	return lead
}

func TestSetStatusWonSetsClosedAt(t *testing.T) {
	repo := newFileRepo(t)
	lead := createLead(t, repo, map[string]any{"name": "A"})
	uc := NewUpdateLeadUseCase(repo)

	updated, err := uc.SetStatus(context.Background(), lead.ID, entity.StatusWon)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWon, updated.Status)
	assert.NotEmpty(t, updated.ClosedAt)
}

func TestSetStatusTwiceKeepsFirstClosedAt(t *testing.T) {
	repo := newFileRepo(t)
	lead := createLead(t, repo, map[string]any{"name": "A"})
	uc := NewUpdateLeadUseCase(repo)
	ctx := context.Background()

	first, err := uc.SetStatus(ctx, lead.ID, entity.StatusWon)
	require.NoError(t, err)
	second, err := uc.SetStatus(ctx, lead.ID, entity.StatusWon)
	require.NoError(t, err)

	assert.Equal(t, first.ClosedAt, second.ClosedAt)
}

func TestSetStatusReopenClears(t *testing.T) {
	repo := newFileRepo(t)
	lead := createLead(t, repo, map[string]any{"name": "A"})
	uc := NewUpdateLeadUseCase(repo)
	ctx := context.Background()

	_, err := uc.SetStatus(ctx, lead.ID, entity.StatusLost)
	require.NoError(t, err)
	reopened, err := uc.SetStatus(ctx, lead.ID, "contacted")
	require.NoError(t, err)

	assert.Empty(t, reopened.ClosedAt)
}

func TestSetStatusNotFound(t *testing.T) {
	repo := newFileRepo(t)
	uc := NewUpdateLeadUseCase(repo)
	createLead(t, repo, map[string]any{"name": "A"})

	_, err := uc.SetStatus(context.Background(), 42, entity.StatusWon)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestSetStatusEmptyRejected(t *testing.T) {
	repo := newFileRepo(t)
	lead := createLead(t, repo, map[string]any{"name": "A"})
	uc := NewUpdateLeadUseCase(repo)

	_, err := uc.SetStatus(context.Background(), lead.ID, "")
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestUpdateFieldsIgnoresUnknownKeys(t *testing.T) {
	repo := newFileRepo(t)
	lead := createLead(t, repo, map[string]any{"name": "A"})
	_, err := repo.Update(context.Background(), lead.ID, func(l *entity.Lead) error {
		l.AppendPhotos([]string{"http://a"}, nil)
		return nil
	})
	require.NoError(t, err)

	uc := NewUpdateLeadUseCase(repo)
	updated, err := uc.UpdateFields(context.Background(), lead.ID, map[string]any{
		"id":     999,
		"photos": []any{"http://evil"},
		"name":   "B",
		"notes":  "spoke on the phone",
	})
	require.NoError(t, err)

	assert.Equal(t, lead.ID, updated.ID, "id is never reassigned")
	assert.Equal(t, []string{"http://a"}, updated.Photos)
	assert.Equal(t, "A", updated.Extra["name"])
	assert.Equal(t, "spoke on the phone", updated.Notes)
}

func TestUpdateFieldsNormalizesAmounts(t *testing.T) {
	repo := newFileRepo(t)
	lead := createLead(t, repo, map[string]any{"name": "A"})
	uc := NewUpdateLeadUseCase(repo)
	ctx := context.Background()

	updated, err := uc.UpdateFields(ctx, lead.ID, map[string]any{
		"quoteAmount": "1250.50",
		"jobAmount":   "",
	})
	require.NoError(t, err)

	require.NotNil(t, updated.QuoteAmount)
	assert.True(t, updated.QuoteAmount.Equal(decimal.RequireFromString("1250.50")))
	assert.Nil(t, updated.JobAmount)

	// An empty string later clears the amount again.
	updated, err = uc.UpdateFields(ctx, lead.ID, map[string]any{"quoteAmount": ""})
	require.NoError(t, err)
	assert.Nil(t, updated.QuoteAmount)
}

func TestUpdateFieldsStatusRunsTransition(t *testing.T) {
	repo := newFileRepo(t)
	lead := createLead(t, repo, map[string]any{"name": "A"})
	uc := NewUpdateLeadUseCase(repo)

	updated, err := uc.UpdateFields(context.Background(), lead.ID, map[string]any{
		"status":     entity.StatusLost,
		"lostReason": "went with competitor",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusLost, updated.Status)
	assert.NotEmpty(t, updated.ClosedAt)
	assert.Equal(t, "went with competitor", updated.LostReason)
}

func TestUpdateFieldsNotFound(t *testing.T) {
	repo := newFileRepo(t)
	uc := NewUpdateLeadUseCase(repo)

	_, err := uc.UpdateFields(context.Background(), 42, map[string]any{"notes": "x"})
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}
