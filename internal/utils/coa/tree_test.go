package coa

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixtureGroups() []domain.AccountGroup {
	return []domain.AccountGroup{
		{GroupID: "g-aktiven", Number: "1", Name: "Aktiven"},
		{GroupID: "g-umlauf", Number: "10", Name: "Umlaufvermoegen", ParentID: strPtr("g-aktiven")},
		{GroupID: "g-ertrag", Number: "3", Name: "Betriebsertrag"},
	}
}

func fixtureAccounts() []domain.Account {
	return []domain.Account{
		{AccountID: "a-kasse", Number: "1000", Name: "Kasse", GroupID: strPtr("g-umlauf")},
		{AccountID: "a-bank", Number: "1020", Name: "Bank", GroupID: strPtr("g-umlauf")},
		{AccountID: "a-waren", Number: "3200", Name: "Warenertrag", GroupID: strPtr("g-ertrag")},
		{AccountID: "a-orphan", Number: "9999", Name: "Unzugeordnet"},
	}
}

func TestBuildTreeRollUp(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"a-kasse": dec("100"),
		"a-bank":  dec("250.50"),
		"a-waren": dec("1000"),
	}

	roots := BuildTree(fixtureAccounts(), fixtureGroups(), balances)
	require.Len(t, roots, 3, "two root groups plus the ungrouped account")

	// Sorted by number: "1" < "3" < "9999"
	aktiven := roots[0]
	assert.Equal(t, "Aktiven", aktiven.Name)
	assert.Equal(t, KindGroup, aktiven.Kind)
	assert.True(t, dec("350.50").Equal(aktiven.Balance), "group balance rolls up, got %s", aktiven.Balance)

	require.Len(t, aktiven.Children, 1)
	umlauf := aktiven.Children[0]
	assert.True(t, dec("350.50").Equal(umlauf.Balance))
	require.Len(t, umlauf.Children, 2)
	assert.Equal(t, "Kasse", umlauf.Children[0].Name, "children sorted by number")
	assert.Equal(t, "Bank", umlauf.Children[1].Name)

	assert.Equal(t, "Betriebsertrag", roots[1].Name)
	assert.True(t, dec("1000").Equal(roots[1].Balance))

	assert.Equal(t, KindAccount, roots[2].Kind, "ungrouped account lifted to root")
	assert.Equal(t, "Unzugeordnet", roots[2].Name)
}

func TestBuildTreeTwoLevelChainCarriesLeafBalance(t *testing.T) {
	groups := []domain.AccountGroup{
		{GroupID: "g-10", Number: "10", Name: "Umlaufvermoegen"},
		{GroupID: "g-100", Number: "100", Name: "Fluessige Mittel", ParentID: strPtr("g-10")},
	}
	accounts := []domain.Account{
		{AccountID: "a-kasse", Number: "1000", Name: "Kasse", GroupID: strPtr("g-100")},
	}
	balances := map[string]decimal.Decimal{"a-kasse": dec("4321.75")}

	roots := BuildTree(accounts, groups, balances)
	require.Len(t, roots, 1)
	assert.True(t, dec("4321.75").Equal(roots[0].Balance), "root total equals the single leaf balance")
	require.Len(t, roots[0].Children, 1)
	assert.True(t, dec("4321.75").Equal(roots[0].Children[0].Balance))
}

func TestBuildTreeMissingBalanceIsZero(t *testing.T) {
	roots := BuildTree(fixtureAccounts(), fixtureGroups(), map[string]decimal.Decimal{})
	require.Len(t, roots, 3)
	assert.True(t, roots[0].Balance.IsZero())
}

func TestBuildTreeParentCycle(t *testing.T) {
	groups := []domain.AccountGroup{
		{GroupID: "g-a", Number: "1", Name: "A", ParentID: strPtr("g-b")},
		{GroupID: "g-b", Number: "2", Name: "B", ParentID: strPtr("g-a")},
	}

	roots := BuildTree(nil, groups, nil)
	require.Len(t, roots, 2, "cyclic groups surface at the root instead of recursing")
	assert.Equal(t, "A", roots[0].Name)
	assert.Equal(t, "B", roots[1].Name)
}

func TestBuildTreeUnknownParent(t *testing.T) {
	groups := []domain.AccountGroup{
		{GroupID: "g-x", Number: "5", Name: "X", ParentID: strPtr("g-gone")},
	}
	roots := BuildTree(nil, groups, nil)
	require.Len(t, roots, 1)
	assert.Equal(t, "X", roots[0].Name)
}

func TestFilterZero(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"a-kasse": dec("100"),
		// a-bank zero, a-waren zero, a-orphan zero
	}
	roots := BuildTree(fixtureAccounts(), fixtureGroups(), balances)

	filtered := FilterZero(roots)
	require.Len(t, filtered, 1, "only the Aktiven branch has a balance")
	assert.Equal(t, "Aktiven", filtered[0].Name)
	require.Len(t, filtered[0].Children, 1)
	require.Len(t, filtered[0].Children[0].Children, 1)
	assert.Equal(t, "Kasse", filtered[0].Children[0].Children[0].Name)

	// Input untouched
	assert.Len(t, roots[0].Children[0].Children, 2)
}

func TestSearch(t *testing.T) {
	roots := BuildTree(fixtureAccounts(), fixtureGroups(), nil)

	// Leaf match keeps the ancestor chain
	hit := Search(roots, "bank")
	require.Len(t, hit, 1)
	assert.Equal(t, "Aktiven", hit[0].Name)
	require.Len(t, hit[0].Children, 1)
	require.Len(t, hit[0].Children[0].Children, 1)
	assert.Equal(t, "Bank", hit[0].Children[0].Children[0].Name)

	// Group match keeps its whole subtree
	grp := Search(roots, "umlauf")
	require.Len(t, grp, 1)
	assert.Len(t, grp[0].Children, 1)
	assert.Len(t, grp[0].Children[0].Children, 2)

	// Number search, case insensitive
	num := Search(roots, "3200")
	require.Len(t, num, 1)
	assert.Equal(t, "Betriebsertrag", num[0].Name)

	// Empty query returns input unchanged
	assert.Equal(t, roots, Search(roots, "  "))

	// No match
	assert.Empty(t, Search(roots, "zzz"))
}
