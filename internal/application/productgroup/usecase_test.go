package productgroup_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/productgroup"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/testutil/memrepo"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	uc       *productgroup.UseCase
	groups   *memrepo.ProductGroups
	products *memrepo.Products
	uow      *memrepo.UnitOfWork
	logs     *bytes.Buffer
}

// newFixture: p1=400, p2=600 (total 1000), p3=500.
func newFixture(groups ...*entity.ProductGroup) *fixture {
	products := memrepo.NewProducts(
		&entity.Product{ID: "p1", Name: "Arroz", Price: d("400"), CategoryID: "c1"},
		&entity.Product{ID: "p2", Name: "Frijol", Price: d("600"), CategoryID: "c1"},
		&entity.Product{ID: "p3", Name: "Aceite", Price: d("500"), CategoryID: "c1"},
	)
	repo := memrepo.NewProductGroups(groups...)
	products.CascadeTo(repo)
	uow := &memrepo.UnitOfWork{}
	logs := &bytes.Buffer{}
	log := logger.FromZerolog(zerolog.New(logs))
	uc := productgroup.NewUseCase(repo, products, uow, log).WithClock(func() time.Time { return now })
	return &fixture{uc: uc, groups: repo, products: products, uow: uow, logs: logs}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok, "se esperaba *AppError, llegó %v", err)
	return appErr.Code
}

func stored(t *testing.T, f *fixture, id string) *entity.ProductGroup {
	t.Helper()
	g, err := f.groups.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, g)
	return g
}

func TestCreate_PercentageScenario(t *testing.T) {
	f := newFixture()
	out, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{
		Name:           "Canasta",
		ProductIDs:     []string{"p1", "p2"},
		DiscountFields: dto.DiscountFields{DiscountPercentage: d("25")},
	})
	require.NoError(t, err)

	assert.True(t, out.TotalPrice.Equal(d("1000")))
	assert.True(t, out.PriceWithDiscount.Equal(d("750")), out.PriceWithDiscount.String())
	assert.True(t, out.DiscountedAmount.Equal(d("250")), out.DiscountedAmount.String())
	assert.True(t, out.DiscountPercentage.Equal(d("25")))
	assert.Len(t, out.Products, 2)

	g := stored(t, f, out.ID)
	assert.Equal(t, []string{"p1", "p2"}, g.ProductIDs())
	for _, link := range g.Products {
		assert.Equal(t, now, link.CreatedAt)
	}
	assert.Equal(t, 1, f.uow.Commits)
}

func TestCreate_NoDiscountWhenNothingSpecified(t *testing.T) {
	f := newFixture()
	out, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{
		Name: "Canasta", ProductIDs: []string{"p1", "p2"},
	})
	require.NoError(t, err)
	assert.True(t, out.PriceWithDiscount.Equal(d("1000")))
	assert.True(t, out.DiscountPercentage.IsZero())
	assert.True(t, out.DiscountedAmount.IsZero())
}

func TestCreate_DeduplicatesProducts(t *testing.T) {
	f := newFixture()
	out, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{
		Name: "Canasta", ProductIDs: []string{"p1", "p1", "p2"},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalPrice.Equal(d("1000")))
	assert.Len(t, stored(t, f, out.ID).Products, 2)
}

func TestCreate_PriceAboveTotalRejected(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{
		Name:           "Canasta",
		ProductIDs:     []string{"p1", "p2"},
		DiscountFields: dto.DiscountFields{PriceWithDiscount: d("1200")},
	})
	assert.Equal(t, "PRODUCTGROUPS:00008", appCode(t, err))
	assert.Equal(t, 1, f.uow.Rollbacks)
	assert.Equal(t, 0, f.uow.Commits)
}

func TestCreate_MultipleMethodsAlwaysRejected(t *testing.T) {
	pairs := []dto.DiscountFields{
		{PriceWithDiscount: d("900"), DiscountPercentage: d("10")},
		{PriceWithDiscount: d("900"), DiscountedAmount: d("100")},
		{DiscountPercentage: d("10"), DiscountedAmount: d("100")},
		{PriceWithDiscount: d("900"), DiscountPercentage: d("10"), DiscountedAmount: d("100")},
	}
	for _, fields := range pairs {
		f := newFixture()
		_, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{
			Name: "Canasta", ProductIDs: []string{"p1", "p2"}, DiscountFields: fields,
		})
		assert.Equal(t, "PRODUCTGROUPS:00007", appCode(t, err))
	}
}

func TestCreate_AllIDsInvalidRejected(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{
		Name: "Canasta", ProductIDs: []string{"x1", "x2"},
	})
	assert.Equal(t, "PRODUCTGROUPS:00006", appCode(t, err))
	assert.Contains(t, f.logs.String(), `"product_id":"x1"`)
	assert.Contains(t, f.logs.String(), `"level":"warn"`)
}

func TestCreate_DuplicateNameIgnoringCase(t *testing.T) {
	f := newFixture(&entity.ProductGroup{ID: "g1", Name: "Canasta"})
	_, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{
		Name: "CANASTA", ProductIDs: []string{"p1"},
	})
	assert.Equal(t, "PRODUCTGROUPS:00003", appCode(t, err))
}

func TestCreate_EmptyName(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), dto.CreateProductGroupRequest{Name: " ", ProductIDs: []string{"p1"}})
	assert.Equal(t, "PRODUCTGROUPS:00002", appCode(t, err))
}

func seededGroup() *entity.ProductGroup {
	g := &entity.ProductGroup{
		ID:                 "g1",
		Name:               "Canasta",
		PriceWithDiscount:  d("700"),
		DiscountPercentage: d("30"),
		DiscountedAmount:   d("300"),
		CreatedAt:          now,
	}
	g.ReplaceProducts([]string{"p1", "p2"}, now)
	return g
}

func TestUpdate_EmptyProductListKeepsMembership(t *testing.T) {
	f := newFixture(seededGroup())
	out, err := f.uc.Update(context.Background(), "g1", dto.UpdateProductGroupRequest{
		Name:           "Canasta",
		DiscountFields: dto.DiscountFields{DiscountedAmount: d("100")},
	})
	require.NoError(t, err)
	assert.True(t, out.PriceWithDiscount.Equal(d("900")))
	assert.True(t, out.DiscountPercentage.Equal(d("10")))
	assert.Equal(t, []string{"p1", "p2"}, stored(t, f, "g1").ProductIDs())
}

func TestUpdate_ReplacesMembership(t *testing.T) {
	f := newFixture(seededGroup())
	out, err := f.uc.Update(context.Background(), "g1", dto.UpdateProductGroupRequest{
		Name:       "Canasta",
		ProductIDs: []string{"p3"},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalPrice.Equal(d("500")))
	assert.True(t, out.PriceWithDiscount.Equal(d("500")))
	assert.Equal(t, []string{"p3"}, stored(t, f, "g1").ProductIDs())
}

func TestUpdate_NameCheckExcludesSelf(t *testing.T) {
	other := &entity.ProductGroup{ID: "g2", Name: "Mercado"}
	f := newFixture(seededGroup(), other)

	_, err := f.uc.Update(context.Background(), "g1", dto.UpdateProductGroupRequest{Name: "canasta"})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), "g1", dto.UpdateProductGroupRequest{Name: "MERCADO"})
	assert.Equal(t, "PRODUCTGROUPS:00003", appCode(t, err))
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Update(context.Background(), "g-x", dto.UpdateProductGroupRequest{Name: "x"})
	assert.Equal(t, "PRODUCTGROUPS:00001", appCode(t, err))
}

func TestUpdate_EmptiedGroupRejectsDiscount(t *testing.T) {
	g := seededGroup()
	g.ReplaceProducts([]string{"p1"}, now)
	f := newFixture(g)
	ctx := context.Background()

	_, err := f.uc.RemoveProduct(ctx, "g1", "p1")
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, "g1", dto.UpdateProductGroupRequest{
		Name:           "G2",
		DiscountFields: dto.DiscountFields{DiscountPercentage: d("10")},
	})
	assert.Equal(t, "PRODUCTGROUPS:00006", appCode(t, err))

	kept := stored(t, f, "g1")
	assert.Equal(t, "Canasta", kept.Name)
	assert.True(t, kept.DiscountPercentage.IsZero())
	assert.True(t, kept.PriceWithDiscount.IsZero())
}

func TestUpdate_AllIDsInvalidRejected(t *testing.T) {
	f := newFixture(seededGroup())
	_, err := f.uc.Update(context.Background(), "g1", dto.UpdateProductGroupRequest{
		Name: "Canasta", ProductIDs: []string{"x1"},
	})
	assert.Equal(t, "PRODUCTGROUPS:00006", appCode(t, err))
	assert.Equal(t, []string{"p1", "p2"}, stored(t, f, "g1").ProductIDs())
}

func TestAddProduct_PreservesStoredPercentage(t *testing.T) {
	f := newFixture(seededGroup())
	out, err := f.uc.AddProduct(context.Background(), "g1", "p3")
	require.NoError(t, err)

	// nuevo total 1500; 30% se conserva
	assert.True(t, out.TotalPrice.Equal(d("1500")))
	assert.True(t, out.PriceWithDiscount.Equal(d("1050")), out.PriceWithDiscount.String())
	assert.True(t, out.DiscountedAmount.Equal(d("450")))
	assert.True(t, out.DiscountPercentage.Equal(d("30")))
	assert.Len(t, stored(t, f, "g1").Products, 3)
}

func TestAddProduct_Rejections(t *testing.T) {
	f := newFixture(seededGroup())
	ctx := context.Background()

	_, err := f.uc.AddProduct(ctx, "g-x", "p3")
	assert.Equal(t, "PRODUCTGROUPS:00001", appCode(t, err))

	_, err = f.uc.AddProduct(ctx, "g1", "p-x")
	assert.Equal(t, "PRODUCTS:00002", appCode(t, err))

	_, err = f.uc.AddProduct(ctx, "g1", "p1")
	assert.Equal(t, "PRODUCTGROUPS:00004", appCode(t, err))
}

func TestRemoveProduct_LastMemberZeroesDiscount(t *testing.T) {
	g := seededGroup()
	g.ReplaceProducts([]string{"p1"}, now)
	f := newFixture(g)

	out, err := f.uc.RemoveProduct(context.Background(), "g1", "p1")
	require.NoError(t, err)
	assert.True(t, out.PriceWithDiscount.IsZero())
	assert.True(t, out.DiscountPercentage.IsZero())
	assert.True(t, out.DiscountedAmount.IsZero())
	assert.Empty(t, stored(t, f, "g1").Products)
}

func TestRemoveProduct_NoDiscountStaysAtTotal(t *testing.T) {
	g := seededGroup()
	g.DiscountPercentage = decimal.Zero
	g.PriceWithDiscount = d("1000")
	g.DiscountedAmount = decimal.Zero
	f := newFixture(g)

	out, err := f.uc.RemoveProduct(context.Background(), "g1", "p2")
	require.NoError(t, err)
	assert.True(t, out.PriceWithDiscount.Equal(d("400")))
	assert.True(t, out.DiscountedAmount.IsZero())
}

func TestRemoveProduct_NotInGroup(t *testing.T) {
	f := newFixture(seededGroup())
	_, err := f.uc.RemoveProduct(context.Background(), "g1", "p3")
	assert.Equal(t, "PRODUCTGROUPS:00005", appCode(t, err))
}

func TestGetByID_SkipsDeletedProducts(t *testing.T) {
	f := newFixture(seededGroup())
	f.products.CascadeTo(nil) // vínculo huérfano: p2 sigue en el grupo pero ya no existe
	require.NoError(t, f.products.Delete(context.Background(), "p2"))
	require.Len(t, stored(t, f, "g1").Products, 2)

	out, err := f.uc.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, out.Products, 1)
	assert.True(t, out.TotalPrice.Equal(d("400")))
}

func TestDelete(t *testing.T) {
	f := newFixture(seededGroup())
	ctx := context.Background()

	require.NoError(t, f.uc.Delete(ctx, "g1"))
	err := f.uc.Delete(ctx, "g1")
	assert.Equal(t, "PRODUCTGROUPS:00001", appCode(t, err))

	list, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNestedRunUnderOuterTransaction(t *testing.T) {
	f := newFixture()
	ctx, err := f.uow.Begin(context.Background())
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, dto.CreateProductGroupRequest{Name: "Canasta", ProductIDs: []string{"p1"}})
	require.NoError(t, err)
	assert.Equal(t, 0, f.uow.Commits, "el Run anidado no confirma")

	require.NoError(t, f.uow.Commit(ctx))
	assert.Equal(t, 1, f.uow.Begins)
	assert.Equal(t, 1, f.uow.Commits)
}
