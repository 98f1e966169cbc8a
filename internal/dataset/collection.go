package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// Name identifies one of the raw source datasets.
type Name string

const (
	NameOrders    Name = "orders"
	NameItems     Name = "order_items"
	NameProducts  Name = "products"
	NameCustomers Name = "customers"
	NameReviews   Name = "reviews"
)

// AllNames lists the datasets in load order.
var AllNames = []Name{NameOrders, NameItems, NameProducts, NameCustomers, NameReviews}

// Collection holds the loaded source tables. Datasets that failed to load are
// simply absent; callers check presence with Get.
type Collection struct {
	tables   map[Name]dataframe.DataFrame
	Warnings []string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{tables: make(map[Name]dataframe.DataFrame)}
}

// Set stores a table under the given name.
func (c *Collection) Set(name Name, df dataframe.DataFrame) {
	if c.tables == nil {
		c.tables = make(map[Name]dataframe.DataFrame)
	}
	c.tables[name] = df
}

// Get returns the named table and whether it was loaded.
func (c *Collection) Get(name Name) (dataframe.DataFrame, bool) {
	df, ok := c.tables[name]
	return df, ok
}

// Has reports whether the named table was loaded.
func (c *Collection) Has(name Name) bool {
	_, ok := c.tables[name]
	return ok
}

// Names returns the loaded dataset names in canonical order.
func (c *Collection) Names() []Name {
	var names []Name
	for _, name := range AllNames {
		if c.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

func (c *Collection) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}
