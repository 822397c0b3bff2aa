package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_StableOrdering(t *testing.T) {
	a := DefaultCatalog()
	b := DefaultCatalog()

	// Menu numbering must be identical across constructions.
	require.Equal(t, a.Sections(), b.Sections())
	require.Equal(t, a.Items(), b.Items())

	sections := a.Sections()
	require.Len(t, sections, 5)
	assert.Equal(t, "Pizza", sections[0].Name)
	assert.Equal(t, "Drinks", sections[4].Name)

	subs, err := a.Subsections(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pepperoni", "Teriyaki-Chicken", "Four cheeses", "Meat"}, subs)
}

func TestCatalog_ItemIDsAreSequential(t *testing.T) {
	c := DefaultCatalog()

	items := c.Items()
	require.Len(t, items, 16)
	for i, item := range items {
		assert.Equal(t, i+1, item.ID)
	}

	// First item of each section.
	first, err := c.Item(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Item{ID: 1, Section: "Pizza", Subsection: "Pepperoni"}, first)

	drinks, err := c.Item(5, 3)
	require.NoError(t, err)
	assert.Equal(t, Item{ID: 16, Section: "Drinks", Subsection: "Fanta"}, drinks)
}

func TestCatalog_UnknownSelections(t *testing.T) {
	c := DefaultCatalog()

	_, err := c.Subsections(42)
	assert.ErrorIs(t, err, ErrUnknownSection)

	_, err = c.Item(42, 1)
	assert.ErrorIs(t, err, ErrUnknownSection)

	_, err = c.Item(1, 0)
	assert.ErrorIs(t, err, ErrUnknownSubsection)

	_, err = c.Item(1, 5)
	assert.ErrorIs(t, err, ErrUnknownSubsection)
}
