package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stature-backend/internal/catalog"
)

func TestLookup_ByIDAndName(t *testing.T) {
	byID, ok := catalog.Lookup("creative")
	require.True(t, ok)
	assert.Equal(t, "Creative", byID.Name)

	byName, ok := catalog.Lookup("  DRAMATIC ")
	require.True(t, ok)
	assert.Equal(t, "dramatic", byName.ID)

	_, ok = catalog.Lookup("watercolor")
	assert.False(t, ok)
	_, ok = catalog.Lookup("")
	assert.False(t, ok)
}

func TestStyles_ReturnsCopy(t *testing.T) {
	s := catalog.Styles()
	require.Len(t, s, 4)
	s[0].Name = "changed"

	again := catalog.Styles()
	assert.Equal(t, "Corporate", again[0].Name)
	assert.Equal(t, []string{"corporate", "creative", "casual", "dramatic"}, catalog.IDs())
}

func TestLookupPackage(t *testing.T) {
	starter, ok := catalog.LookupPackage("starter")
	require.True(t, ok)
	assert.Equal(t, 20, starter.Credits)
	assert.Equal(t, 29.0, starter.Price())

	pro, ok := catalog.LookupPackage("PRO")
	require.True(t, ok)
	assert.Equal(t, 100, pro.Credits)
	assert.Equal(t, int64(4900), pro.PriceCents)

	_, ok = catalog.LookupPackage("TEAM")
	assert.False(t, ok)
}

func TestPlanFor(t *testing.T) {
	pro := catalog.PlanFor("PRO")
	assert.Equal(t, 5, pro.MaxStyles)
	assert.Equal(t, 100, pro.MaxImages)
	assert.Equal(t, 40, pro.DefaultImages)

	for _, pkg := range []string{"STARTER", "", "unknown"} {
		p := catalog.PlanFor(pkg)
		assert.Equal(t, catalog.PackageStarter, p.Package)
		assert.Equal(t, 2, p.MaxStyles)
		assert.Equal(t, 20, p.MaxImages)
		assert.Equal(t, 10, p.DefaultImages)
		assert.Equal(t, 4, p.MinImages)
	}
}
