package merchants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/audit"
	"github.com/couponhub/dashboard/internal/audit/audittest"
	"github.com/couponhub/dashboard/internal/auth/authtest"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

var m1 = Merchant{
	ID:         "M1",
	Name:       "Acme Outdoor",
	Slug:       "acme-outdoor",
	WebsiteURL: "https://acme.example",
	Active:     true,
	CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	UpdatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
}

func newFixture(ms ...Merchant) (*Service, *memRepo, *audittest.Store) {
	repo := newMemRepo(ms...)
	store := &audittest.Store{}
	svc := NewService(repo, store.Recorder())
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo, store
}

func TestDeleteRecordsPriorState(t *testing.T) {
	svc, repo, store := newFixture(m1)

	err := svc.Delete(context.Background(), authtest.Guard("U-root", rbac.RoleSuperAdmin), "M1")
	require.NoError(t, err)
	assert.NotContains(t, repo.rows, "M1")

	records := store.Records()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, audit.ActionDelete, rec.Action)
	assert.Equal(t, "Merchant", rec.EntityType)
	assert.Equal(t, "M1", rec.EntityID)
	assert.Equal(t, audit.Snapshot(audit.Fields(m1)), rec.Before)
	assert.Equal(t, "Acme Outdoor", rec.Before["name"])
	assert.Nil(t, rec.After)
	require.NotNil(t, rec.ActorID)
	assert.Equal(t, "U-root", *rec.ActorID)
}

func TestDeleteMissingMerchant(t *testing.T) {
	svc, _, store := newFixture()
	err := svc.Delete(context.Background(), authtest.Guard("U1", rbac.RoleAdmin), "nope")
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, store.Records())
}

func TestGuardRunsBeforeStore(t *testing.T) {
	svc, repo, store := newFixture(m1)

	err := svc.Delete(context.Background(), authtest.Guard("U2", rbac.RoleMarketing), "M1")
	require.ErrorIs(t, err, shared.ErrForbidden)
	var fe *shared.ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "merchants:write", fe.Capability)

	_, err = svc.Get(context.Background(), authtest.Anonymous(), "M1")
	require.ErrorIs(t, err, shared.ErrUnauthenticated)

	assert.Zero(t, repo.calls)
	assert.Empty(t, store.Records())
}

func TestCreateAuditsAfterImage(t *testing.T) {
	svc, _, store := newFixture()
	created, err := svc.Create(context.Background(), authtest.Guard("U1", rbac.RoleAdmin), Input{Name: "Globex", Slug: "globex", Active: true})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), created.CreatedAt)

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionCreate, records[0].Action)
	assert.Equal(t, created.ID, records[0].EntityID)
	assert.Nil(t, records[0].Before)
	assert.Equal(t, "globex", records[0].After["slug"])
}

func TestCreateValidation(t *testing.T) {
	svc, repo, store := newFixture()
	_, err := svc.Create(context.Background(), authtest.Guard("U1", rbac.RoleAdmin), Input{Name: "Globex", Slug: "Not A Slug"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Zero(t, repo.calls)
	assert.Empty(t, store.Records())
}

func TestCreateConflictIsNotAudited(t *testing.T) {
	svc, _, store := newFixture(m1)
	_, err := svc.Create(context.Background(), authtest.Guard("U1", rbac.RoleAdmin), Input{Name: "Other", Slug: "acme-outdoor"})
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Empty(t, store.Records())
}

func TestUpdateAuditsBothImages(t *testing.T) {
	svc, _, store := newFixture(m1)
	updated, err := svc.Update(context.Background(), authtest.Guard("U1", rbac.RoleAdmin), "M1",
		Input{Name: "Acme", Slug: "acme", Active: false})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, m1.CreatedAt, updated.CreatedAt)

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionUpdate, records[0].Action)
	assert.Equal(t, "Acme Outdoor", records[0].Before["name"])
	assert.Equal(t, "Acme", records[0].After["name"])
	assert.Equal(t, false, records[0].After["active"])
}

func TestAuditFailureDoesNotChangeResult(t *testing.T) {
	repo := newMemRepo(m1)
	store := &audittest.Store{Err: errors.New("audit table missing")}
	svc := NewService(repo, store.Recorder())

	err := svc.Delete(context.Background(), authtest.Guard("U-root", rbac.RoleSuperAdmin), "M1")
	require.NoError(t, err)
	assert.NotContains(t, repo.rows, "M1")
}

func TestListPaging(t *testing.T) {
	m2 := m1
	m2.ID, m2.Slug = "M2", "m2"
	m3 := m1
	m3.ID, m3.Slug = "M3", "m3"
	svc, _, _ := newFixture(m1, m2, m3)
	guard := authtest.Guard("U3", rbac.RoleAnalyst)

	page, err := svc.List(context.Background(), guard, shared.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Paging.HasNext)

	page, err = svc.List(context.Background(), guard, shared.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "M3", page.Items[0].ID)
	assert.False(t, page.Paging.HasNext)
}
