package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/auth/authtest"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

type stubRepo struct {
	rows       []Record
	lastLimit  int
	lastOffset int
	lastFilter Filters
	calls      int
}

func (s *stubRepo) List(ctx context.Context, f Filters, limit, offset int) ([]Record, error) {
	s.calls++
	s.lastFilter, s.lastLimit, s.lastOffset = f, limit, offset
	end := offset + limit
	if offset > len(s.rows) {
		return nil, nil
	}
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return s.rows[offset:end], nil
}

func (s *stubRepo) ListAll(ctx context.Context, f Filters) ([]Record, error) {
	s.calls++
	s.lastFilter = f
	return s.rows, nil
}

func records(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{Action: ActionUpdate, EntityType: "Coupon", EntityID: fmt.Sprintf("C%d", i)}
	}
	return out
}

func TestTimelinePaging(t *testing.T) {
	repo := &stubRepo{rows: records(5)}
	svc := NewService(repo)
	guard := authtest.Guard("U1", rbac.RoleAnalyst)

	res, err := svc.Timeline(context.Background(), guard, Filters{Page: shared.Page{Number: 1, Size: 2}})
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.True(t, res.Paging.HasNext)
	assert.Equal(t, 2, res.Paging.NextPage)
	assert.Equal(t, 3, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	res, err = svc.Timeline(context.Background(), guard, Filters{Page: shared.Page{Number: 3, Size: 2}})
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.False(t, res.Paging.HasNext)
	assert.Equal(t, 2, res.Paging.PrevPage)
	assert.Equal(t, 4, repo.lastOffset)
}

func TestTimelineDefaultsAndCaps(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	guard := authtest.Guard("U1", rbac.RoleSuperAdmin)

	res, err := svc.Timeline(context.Background(), guard, Filters{})
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Equal(t, shared.DefaultPageSize+1, repo.lastLimit)

	_, err = svc.Timeline(context.Background(), guard, Filters{Page: shared.Page{Size: 500}})
	require.NoError(t, err)
	assert.Equal(t, shared.MaxPageSize+1, repo.lastLimit)
}

func TestTimelineRequiresAuditRead(t *testing.T) {
	repo := &stubRepo{rows: records(1)}
	svc := NewService(repo)

	_, err := svc.Timeline(context.Background(), authtest.Anonymous(), Filters{})
	require.ErrorIs(t, err, shared.ErrUnauthenticated)

	_, err = svc.Export(context.Background(), authtest.Guard("U2", rbac.RoleMarketing), Filters{})
	require.ErrorIs(t, err, shared.ErrForbidden)
	var fe *shared.ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, string(rbac.CapAuditRead), fe.Capability)
	assert.Zero(t, repo.calls)
}

func TestExportCSV(t *testing.T) {
	actor := "U1"
	rows := []Record{{
		ActorID:    &actor,
		Action:     ActionDelete,
		EntityType: "Merchant",
		EntityID:   "M1",
		Before:     map[string]any{"name": "Acme"},
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	raw, err := EncodeCSV(rows)
	require.NoError(t, err)

	parsed, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, csvHeader, parsed[0])
	assert.Equal(t, []string{"2026-01-02T03:04:05Z", "U1", "DELETE", "Merchant", "M1", "", "", `{"name":"Acme"}`, ""}, parsed[1])
}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(Filters{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	where, args = filterClause(Filters{EntityType: "Merchant", Action: ActionDelete, From: from})
	assert.Equal(t, " WHERE entity_type = $1 AND action = $2 AND created_at >= $3", where)
	assert.Equal(t, []any{"Merchant", "DELETE", from}, args)
}
