package admin

import (
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Year bucket values accepted by the published_year filter.
const (
	yearBucketThis = "this_year"
	yearBucketLast = "last_year"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BuildListQuery composes the change-list SELECT for an entity from
// its config and the request parameters. Only configured columns can
// be searched, filtered, or ordered; anything else is rejected before
// touching the store.
func BuildListQuery(cfg EntityConfig, params url.Values, limit, offset int) (string, []any, error) {
	b := psql.Select(cfg.ListColumns...).From(cfg.Table)

	b, err := applyCriteria(b, cfg, params)
	if err != nil {
		return "", nil, err
	}

	orderCol, desc := cfg.DefaultOrder, false
	if strings.HasPrefix(orderCol, "-") {
		orderCol, desc = orderCol[1:], true
	}
	if ordering := params.Get("ordering"); ordering != "" {
		orderCol, desc = ordering, false
		if strings.HasPrefix(orderCol, "-") {
			orderCol, desc = orderCol[1:], true
		}
		if !cfg.AllowsOrdering(orderCol) {
			return "", nil, fmt.Errorf("ordering by %q is not allowed for %s", orderCol, cfg.Name)
		}
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	b = b.OrderBy(orderCol + " " + dir)

	b = b.Limit(uint64(limit)).Offset(uint64(offset))
	return b.ToSql()
}

// BuildCountQuery composes the matching COUNT(*) for the change list.
func BuildCountQuery(cfg EntityConfig, params url.Values) (string, []any, error) {
	b := psql.Select("COUNT(*)").From(cfg.Table)
	b, err := applyCriteria(b, cfg, params)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func applyCriteria(b sq.SelectBuilder, cfg EntityConfig, params url.Values) (sq.SelectBuilder, error) {
	if search := params.Get("search"); search != "" && len(cfg.SearchColumns) > 0 {
		pattern := "%" + search + "%"
		or := sq.Or{}
		for _, col := range cfg.SearchColumns {
			or = append(or, sq.ILike{col: pattern})
		}
		b = b.Where(or)
	}

	for param, col := range cfg.Filters {
		if v := params.Get(param); v != "" {
			b = b.Where(sq.Eq{col: v})
		}
	}

	if bucket := params.Get("published_year"); bucket != "" {
		if cfg.YearFilterCol == "" {
			return b, fmt.Errorf("%s does not support the published_year filter", cfg.Name)
		}
		switch bucket {
		case yearBucketThis:
			b = b.Where(fmt.Sprintf(
				"EXTRACT(YEAR FROM %s) = EXTRACT(YEAR FROM now())", cfg.YearFilterCol))
		case yearBucketLast:
			b = b.Where(fmt.Sprintf(
				"EXTRACT(YEAR FROM %s) = EXTRACT(YEAR FROM now()) - 1", cfg.YearFilterCol))
		default:
			return b, fmt.Errorf("published_year must be %s or %s", yearBucketThis, yearBucketLast)
		}
	}

	return b, nil
}
