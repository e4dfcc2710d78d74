package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
	"github.com/gartstein/shiftstore/internal/scheduler/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// failingBacking simulates storage-tier failures per operation.
type failingBacking struct {
	loadErr  error
	saveErr  error
	clearErr error
}

func (f *failingBacking) Load(context.Context) ([]byte, error) { return nil, f.loadErr }
func (f *failingBacking) Save(context.Context, []byte) error   { return f.saveErr }
func (f *failingBacking) Clear(context.Context) error          { return f.clearErr }
func (f *failingBacking) Close() error                         { return nil }

func platformSession() auth.Session {
	return auth.Session{CompanyCode: models.PlatformCompanyCode, Role: models.RolePlatformAdmin, UserID: "root"}
}

func managerSession(companyCode string) auth.Session {
	return auth.Session{CompanyCode: companyCode, Role: models.RoleManager, UserID: "mgr-" + companyCode}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(storage.NewMemoryStore(), auth.SHA256Hasher{}, zaptest.NewLogger(t), opts...)
	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestInit(t *testing.T) {
	ctx := context.Background()

	t.Run("loads and normalizes persisted state", func(t *testing.T) {
		backing := storage.NewMemoryStore()
		require.NoError(t, backing.Save(ctx, []byte(`{
			"companies": [{"companyCode": "acme", "companyName": "Acme"}],
			"jobSites": [{"id": "l1", "companyCode": "ACME", "name": "Plant 7"}]
		}`)))

		s := New(backing, auth.SHA256Hasher{}, zaptest.NewLogger(t))
		require.NoError(t, s.Init(ctx))

		doc := s.Saved(platformSession())
		require.Len(t, doc.Companies, 1)
		assert.Equal(t, "ACME", doc.Companies[0].CompanyCode)
		require.Len(t, doc.Locations, 1, "legacy jobSites table loads as locations")
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
		require.NoError(t, err)

		require.NoError(t, s.Init(ctx))
		assert.Len(t, s.Draft(platformSession()).Companies, 1, "re-init must not reload over live state")
	})

	t.Run("load failure is a storage error", func(t *testing.T) {
		s := New(&failingBacking{loadErr: errors.New("disk gone")}, auth.SHA256Hasher{}, zaptest.NewLogger(t))
		err := s.Init(ctx)
		assert.ErrorIs(t, err, e.ErrStorage)
	})
}

func TestDraftIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.False(t, s.Dirty())

	created, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.True(t, s.Dirty())

	assert.Len(t, s.Draft(platformSession()).Companies, 1, "edit lands in the draft")
	assert.Empty(t, s.Saved(platformSession()).Companies, "saved snapshot untouched before save")

	require.NoError(t, s.Save(ctx))
	assert.False(t, s.Dirty())
	require.Len(t, s.Saved(platformSession()).Companies, 1)
	assert.Equal(t, created.CompanyCode, s.Saved(platformSession()).Companies[0].CompanyCode)
}

func TestDiscard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))

	_, err = s.AddCompany(platformSession(), models.Company{CompanyCode: "ZETA", CompanyName: "Zeta"})
	require.NoError(t, err)
	require.True(t, s.Dirty())

	s.Discard()

	assert.False(t, s.Dirty())
	require.Len(t, s.Draft(platformSession()).Companies, 1, "unsaved tenant gone")
	assert.Equal(t, "ACME", s.Draft(platformSession()).Companies[0].CompanyCode)
}

func TestSavePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemoryStore()

	s := New(backing, auth.SHA256Hasher{}, zaptest.NewLogger(t))
	require.NoError(t, s.Init(ctx))
	_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))

	reopened := New(backing, auth.SHA256Hasher{}, zaptest.NewLogger(t))
	require.NoError(t, reopened.Init(ctx))
	require.Len(t, reopened.Saved(platformSession()).Companies, 1)
	assert.Equal(t, "ACME", reopened.Saved(platformSession()).Companies[0].CompanyCode)
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s := New(&failingBacking{saveErr: errors.New("disk full")}, auth.SHA256Hasher{}, zaptest.NewLogger(t))
	require.NoError(t, s.Init(ctx))

	_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)

	err = s.Save(ctx)
	assert.ErrorIs(t, err, e.ErrStorage)

	assert.True(t, s.Dirty(), "failed save keeps the draft dirty")
	assert.Len(t, s.Draft(platformSession()).Companies, 1, "draft edits survive a failed save")
	assert.Empty(t, s.Saved(platformSession()).Companies, "saved snapshot not advanced on failure")
}

func TestScoping(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)
	_, err = s.AddCompany(platformSession(), models.Company{CompanyCode: "ZETA", CompanyName: "Zeta"})
	require.NoError(t, err)

	t.Run("absent session sees nothing", func(t *testing.T) {
		assert.Empty(t, s.Draft(auth.Session{}).Companies)
	})

	t.Run("platform admin sees all tenants", func(t *testing.T) {
		assert.Len(t, s.Draft(platformSession()).Companies, 2)
	})

	t.Run("manager sees only their tenant", func(t *testing.T) {
		doc := s.Draft(managerSession("ACME"))
		require.Len(t, doc.Companies, 1)
		assert.Equal(t, "ACME", doc.Companies[0].CompanyCode)
	})
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))

	exported, err := s.Export()
	require.NoError(t, err)

	fresh := newTestStore(t)
	_, err = fresh.AddCompany(platformSession(), models.Company{CompanyCode: "ZETA", CompanyName: "Zeta"})
	require.NoError(t, err)

	require.NoError(t, fresh.Import(ctx, exported))

	doc := fresh.Saved(platformSession())
	require.Len(t, doc.Companies, 1, "import replaces prior state, no merge")
	assert.Equal(t, "ACME", doc.Companies[0].CompanyCode)
	assert.False(t, fresh.Dirty())
}

func TestWipe(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemoryStore()
	s := New(backing, auth.SHA256Hasher{}, zaptest.NewLogger(t))
	require.NoError(t, s.Init(ctx))

	_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))

	require.NoError(t, s.Wipe(ctx))

	assert.Empty(t, s.Saved(platformSession()).Companies)
	assert.Empty(t, s.Draft(platformSession()).Companies)
	assert.False(t, s.Dirty())

	data, err := backing.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "durable blob cleared")
}

func TestLastEditedAtStamped(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return now }))

	_, err := s.AddCompany(platformSession(), models.Company{CompanyCode: "ACME", CompanyName: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, now, s.Draft(platformSession()).Settings.LastEditedAt)
}
