package domain

import "fmt"

// Section is one top-level catalog entry with its subsections in a fixed,
// stable order. Subsection indices shown to customers are 1-based positions
// in that order.
type Section struct {
	ID          int
	Name        string
	Subsections []string
}

// Item is a single orderable product resolved from a (section, subsection)
// selection. Item ids are assigned sequentially in catalog order and match
// the item_counts rows seeded at bootstrap.
type Item struct {
	ID         int
	Section    string
	Subsection string
}

// Catalog is the read-only section/subsection taxonomy. Enumeration order
// is fixed at construction so menu numbering is identical across runs.
type Catalog struct {
	sections []Section
	items    map[int][]Item // section id -> items in subsection order
}

// NewCatalog builds a catalog from sections listed in display order.
// Item ids are allocated 1..N walking sections and subsections in order.
func NewCatalog(sections []Section) *Catalog {
	c := &Catalog{
		sections: sections,
		items:    make(map[int][]Item, len(sections)),
	}
	nextID := 1
	for _, s := range sections {
		items := make([]Item, 0, len(s.Subsections))
		for _, sub := range s.Subsections {
			items = append(items, Item{ID: nextID, Section: s.Name, Subsection: sub})
			nextID++
		}
		c.items[s.ID] = items
	}
	return c
}

// DefaultCatalog is the fixed "American Pizza" menu.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Section{
		{ID: 1, Name: "Pizza", Subsections: []string{"Pepperoni", "Teriyaki-Chicken", "Four cheeses", "Meat"}},
		{ID: 2, Name: "Sauces", Subsections: []string{"Chile", "Barbecue", "Garlic"}},
		{ID: 3, Name: "Snacks", Subsections: []string{"French fry", "Dodster", "Nuggets", "Sandwich"}},
		{ID: 4, Name: "Desserts", Subsections: []string{"Donat", "Cheesecake"}},
		{ID: 5, Name: "Drinks", Subsections: []string{"Coka-cola", "Water", "Fanta"}},
	})
}

// Sections returns all sections in display order.
func (c *Catalog) Sections() []Section {
	return c.sections
}

// Subsections returns the subsection names of a section in display order.
func (c *Catalog) Subsections(sectionID int) ([]string, error) {
	for _, s := range c.sections {
		if s.ID == sectionID {
			return s.Subsections, nil
		}
	}
	return nil, fmt.Errorf("section %d: %w", sectionID, ErrUnknownSection)
}

// Item resolves a 1-based subsection index within a section.
func (c *Catalog) Item(sectionID, subsectionIndex int) (Item, error) {
	items, ok := c.items[sectionID]
	if !ok {
		return Item{}, fmt.Errorf("section %d: %w", sectionID, ErrUnknownSection)
	}
	if subsectionIndex < 1 || subsectionIndex > len(items) {
		return Item{}, fmt.Errorf("section %d subsection %d: %w", sectionID, subsectionIndex, ErrUnknownSubsection)
	}
	return items[subsectionIndex-1], nil
}

// Items returns every orderable item in catalog order.
func (c *Catalog) Items() []Item {
	var all []Item
	for _, s := range c.sections {
		all = append(all, c.items[s.ID]...)
	}
	return all
}
