package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamelib/lrucache"
	"github.com/gamelib/lrucache/catalog"
	"github.com/gamelib/lrucache/catalog/memstore"
)

// hookedCompanies runs afterFind once FindByID has read the store.
type hookedCompanies struct {
	*memstore.Companies
	afterFind func()
}

func (h *hookedCompanies) FindByID(ctx context.Context, id int64) (catalog.Company, bool, error) {
	c, ok, err := h.Companies.FindByID(ctx, id)
	if h.afterFind != nil {
		h.afterFind()
	}
	return c, ok, err
}

// droppingCompanies reports success without returning what it stored.
type droppingCompanies struct {
	*memstore.Companies
}

func (droppingCompanies) Create(context.Context, ...catalog.Company) ([]catalog.Company, error) {
	return nil, nil
}

type companyFixture struct {
	companies *memstore.Companies
	games     *memstore.Games
	cache     *lrucache.Cache[int64, catalog.Company]
	svc       *catalog.CompanyService
}

func newCompanyFixture(t *testing.T, capacity int) companyFixture {
	t.Helper()
	cache, err := lrucache.New[int64, catalog.Company](capacity, time.Minute, "CompanyCache")
	require.NoError(t, err)

	f := companyFixture{
		companies: memstore.NewCompanies(),
		games:     memstore.NewGames(),
		cache:     cache,
	}
	f.svc = catalog.NewCompanyService(f.companies, f.games, cache, nil)

	_, err = f.companies.Create(context.Background(),
		catalog.Company{Name: "Northwind", FoundedYear: 1999},
		catalog.Company{Name: "Bluefin", FoundedYear: 2010},
	)
	require.NoError(t, err)
	return f
}

func TestCompanyService_GetCompanyIsCached(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	c, err := f.svc.GetCompany(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Northwind", c.Name)

	c, err = f.svc.GetCompany(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Northwind", c.Name)

	assert.Equal(t, int64(1), f.companies.Lookups())
	assert.Equal(t, int64(1), f.svc.CacheStats().Hits)
}

func TestCompanyService_MissingCompanyIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	_, err := f.svc.GetCompany(ctx, 99)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.False(t, f.cache.ContainsKey(99))

	_, err = f.svc.GetCompany(ctx, 99)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Equal(t, int64(2), f.companies.Lookups())
}

func TestCompanyService_SmallCacheEvicts(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 1)

	_, err := f.svc.GetCompany(ctx, 1)
	require.NoError(t, err)
	_, err = f.svc.GetCompany(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, f.cache.Keys())
	assert.Equal(t, int64(1), f.svc.CacheStats().Evictions)
}

func TestCompanyService_UpdateRefreshesCache(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	_, err := f.svc.GetCompany(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.UpdateCompany(ctx, 1, catalog.Company{Name: "Northwind Interactive", Website: "https://northwind.example"})
	require.NoError(t, err)

	cached, ok := f.cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Northwind Interactive", cached.Name)

	c, err := f.svc.GetCompany(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://northwind.example", c.Website)

	_, err = f.svc.UpdateCompany(ctx, 1, catalog.Company{Name: "Bluefin"})
	assert.ErrorIs(t, err, catalog.ErrAlreadyExists)

	_, err = f.svc.UpdateCompany(ctx, 77, catalog.Company{Name: "Nobody"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCompanyService_DeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	_, err := f.svc.GetCompany(ctx, 2)
	require.NoError(t, err)

	deleted, err := f.svc.DeleteCompany(ctx, 2)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, f.cache.ContainsKey(2))

	_, err = f.svc.GetCompany(ctx, 2)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	deleted, err = f.svc.DeleteCompany(ctx, 2)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCompanyService_CreateCompany(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	created, err := f.svc.CreateCompany(ctx, catalog.Company{Name: "Ironclad"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	_, err = f.svc.CreateCompany(ctx, catalog.Company{Name: "Ironclad"})
	assert.ErrorIs(t, err, catalog.ErrAlreadyExists)
}

func TestCompanyService_CreateCompaniesListsConflicts(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	_, err := f.svc.CreateCompanies(ctx, []catalog.Company{
		{Name: "Bluefin"},
		{Name: "Fresh"},
		{Name: "Northwind"},
	})
	require.ErrorIs(t, err, catalog.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "Bluefin, Northwind")

	_, err = f.svc.CreateCompanies(ctx, []catalog.Company{{Name: "Twin"}, {Name: "Twin"}})
	assert.ErrorIs(t, err, catalog.ErrAlreadyExists)

	created, err := f.svc.CreateCompanies(ctx, []catalog.Company{{Name: "Fresh"}, {Name: "Other"}})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestCompanyService_AddAndRemoveGame(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	g, err := f.games.Create(ctx, catalog.Game{Title: "Star Ledger"})
	require.NoError(t, err)

	c, err := f.svc.AddGame(ctx, 1, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{g.ID}, c.GameIDs)

	c, err = f.svc.AddGame(ctx, 1, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{g.ID}, c.GameIDs)

	cached, ok := f.cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, []int64{g.ID}, cached.GameIDs)

	_, err = f.svc.AddGame(ctx, 1, 404)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	removed, err := f.svc.RemoveGame(ctx, 1, g.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.svc.RemoveGame(ctx, 1, g.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	c, err = f.svc.GetCompany(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.GameIDs)
}

func TestCompanyService_ClearCache(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)

	_, err := f.svc.GetCompany(ctx, 1)
	require.NoError(t, err)
	f.svc.ClearCache()

	assert.Equal(t, 0, f.cache.Len())
}

func TestCompanyService_GetAfterDeleteSeesDelete(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)
	store := &hookedCompanies{Companies: f.companies}
	svc := catalog.NewCompanyService(store, f.games, f.cache, nil)

	read, release := make(chan struct{}), make(chan struct{})
	store.afterFind = pauseFirst(read, release)

	done := make(chan error)
	go func() {
		_, err := svc.GetCompany(ctx, 1)
		done <- err
	}()
	<-read

	deleted, err := svc.DeleteCompany(ctx, 1)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = svc.GetCompany(ctx, 1)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	close(release)
	assert.NoError(t, <-done)
	assert.False(t, f.cache.ContainsKey(1))
}

func TestCompanyService_CreateRejectsShortStoreResult(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t, 5)
	svc := catalog.NewCompanyService(droppingCompanies{f.companies}, f.games, f.cache, nil)

	_, err := svc.CreateCompany(ctx, catalog.Company{Name: "Ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store returned 0 companies")

	_, err = svc.CreateCompanies(ctx, []catalog.Company{{Name: "One"}, {Name: "Two"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store returned 0 of 2")
}
