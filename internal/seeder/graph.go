package seeder

import (
	"fmt"
	"sort"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
)

type TableInfo struct {
	Name         string
	Dependencies []string
}

type DependencyGraph struct {
	tables map[string]*TableInfo
	order  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]*TableInfo),
	}
}

// CatalogGraph describes the foreign keys between the catalog tables.
func CatalogGraph() *DependencyGraph {
	g := NewDependencyGraph()
	g.AddTable(&TableInfo{Name: catalog.TableCollections})
	g.AddTable(&TableInfo{Name: catalog.TableCategories, Dependencies: []string{catalog.TableCollections}})
	g.AddTable(&TableInfo{Name: catalog.TableSubcollections, Dependencies: []string{catalog.TableCategories}})
	g.AddTable(&TableInfo{Name: catalog.TableSubcategories, Dependencies: []string{catalog.TableSubcollections}})
	g.AddTable(&TableInfo{Name: catalog.TableProducts, Dependencies: []string{catalog.TableSubcategories}})
	return g
}

func (g *DependencyGraph) AddTable(table *TableInfo) {
	g.tables[table.Name] = table
	g.order = nil
}

// BuildInsertionOrder returns the tables so that every table follows the
// tables it references. Ties are broken by name.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		temp[tableName] = true
		table := g.tables[tableName]

		if table != nil {
			deps := append([]string(nil), table.Dependencies...)
			sort.Strings(deps)
			for _, dep := range deps {
				if dep == tableName {
					continue
				}
				if _, known := g.tables[dep]; !known {
					return fmt.Errorf("table %s depends on unknown table %s", tableName, dep)
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, tableName := range names {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) GetOrder() []string {
	return g.order
}

// ClearOrder is the insertion order reversed, children first.
func (g *DependencyGraph) ClearOrder() ([]string, error) {
	order := g.order
	if order == nil {
		var err error
		if order, err = g.BuildInsertionOrder(); err != nil {
			return nil, err
		}
	}

	reversed := make([]string, len(order))
	for i, name := range order {
		reversed[len(order)-1-i] = name
	}
	return reversed, nil
}
