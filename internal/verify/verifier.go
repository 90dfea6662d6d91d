// Package verify checks a seeded catalog against the invariants a run is
// expected to leave behind: row counts, unique slugs, resolvable foreign keys
// and an even fan-out under every parent.
package verify

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/seeder"
	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Check struct {
	Name   string
	Passed bool
	Detail string
}

type Report struct {
	Checks []Check
}

func (r *Report) add(name string, passed bool, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: fmt.Sprintf(format, args...)})
}

func (r *Report) Failed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return true
		}
	}
	return false
}

func (r *Report) Failures() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// relation is a child table and the column that points at its parent.
type relation struct {
	child, childColumn   string
	parent, parentColumn string
}

var relations = []relation{
	{catalog.TableCategories, "collection_id", catalog.TableCollections, "id"},
	{catalog.TableSubcollections, "category_slug", catalog.TableCategories, "slug"},
	{catalog.TableSubcategories, "subcollection_id", catalog.TableSubcollections, "id"},
	{catalog.TableProducts, "subcategory_slug", catalog.TableSubcategories, "slug"},
}

var sluggedTables = []string{
	catalog.TableCollections,
	catalog.TableCategories,
	catalog.TableSubcategories,
	catalog.TableProducts,
}

type Verifier struct {
	db *sqlx.DB
	qb squirrel.StatementBuilderType
}

func New(db *sqlx.DB, placeholder squirrel.PlaceholderFormat) *Verifier {
	return &Verifier{
		db: db,
		qb: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Counts returns the row count of every catalog table.
func (v *Verifier) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(catalog.Tables))
	for _, table := range catalog.Tables {
		n, err := v.count(ctx, v.qb.Select("COUNT(*)").From(table))
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (v *Verifier) Verify(ctx context.Context, fanOut seeder.FanOut) (*Report, error) {
	report := &Report{}

	counts, err := v.Counts(ctx)
	if err != nil {
		return nil, err
	}
	for _, table := range catalog.Tables {
		want := int64(fanOut.Totals()[table])
		report.add("count:"+table, counts[table] == want, "%d rows, expected %d", counts[table], want)
	}

	for _, table := range sluggedTables {
		dups, err := v.duplicateSlugs(ctx, table)
		if err != nil {
			return nil, err
		}
		report.add("unique-slugs:"+table, dups == 0, "%d duplicated slugs", dups)
	}

	perParent := fanOut.ChildrenPer()
	for _, rel := range relations {
		orphans, err := v.orphans(ctx, rel)
		if err != nil {
			return nil, err
		}
		report.add("foreign-keys:"+rel.child, orphans == 0, "%d rows without a %s parent", orphans, rel.parent)

		uneven, err := v.unevenParents(ctx, rel, perParent[rel.child])
		if err != nil {
			return nil, err
		}
		report.add("fan-out:"+rel.child, uneven == 0,
			"%d %s rows without exactly %d %s", uneven, rel.parent, perParent[rel.child], rel.child)
	}

	return report, nil
}

func (v *Verifier) duplicateSlugs(ctx context.Context, table string) (int64, error) {
	dups := v.qb.Select("slug").From(table).GroupBy("slug").Having("COUNT(*) > 1")
	n, err := v.count(ctx, v.qb.Select("COUNT(*)").FromSelect(dups, "dups"))
	if err != nil {
		return 0, fmt.Errorf("failed to check slugs in %s: %w", table, err)
	}
	return n, nil
}

func (v *Verifier) orphans(ctx context.Context, rel relation) (int64, error) {
	q := v.qb.Select("COUNT(*)").
		From(rel.child + " c").
		LeftJoin(fmt.Sprintf("%s p ON c.%s = p.%s", rel.parent, rel.childColumn, rel.parentColumn)).
		Where(squirrel.Eq{"p." + rel.parentColumn: nil})

	n, err := v.count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to check %s references: %w", rel.child, err)
	}
	return n, nil
}

// unevenParents counts parent rows whose number of children differs from want,
// including parents with no children at all.
func (v *Verifier) unevenParents(ctx context.Context, rel relation, want int) (int64, error) {
	children := v.qb.Select("p."+rel.parentColumn, "COUNT(c."+rel.childColumn+") AS n").
		From(rel.parent + " p").
		LeftJoin(fmt.Sprintf("%s c ON c.%s = p.%s", rel.child, rel.childColumn, rel.parentColumn)).
		GroupBy("p." + rel.parentColumn)

	q := v.qb.Select("COUNT(*)").
		FromSelect(children, "per_parent").
		Where(squirrel.NotEq{"per_parent.n": want})

	n, err := v.count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to check fan-out of %s: %w", rel.child, err)
	}
	return n, nil
}

func (v *Verifier) count(ctx context.Context, q squirrel.SelectBuilder) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := v.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}
