package model

import (
	"context"

	"github.com/goquent/goquent/query/builder"
	"github.com/goquent/goquent/runtime/types"
)

// Paginate fetches one page of results plus the total count over the
// same filters. A page below 1 is derived from the accumulated OFFSET,
// divided by the accumulated LIMIT or, absent one, the resolved page
// size. A perPage below 1 falls back to the accumulated LIMIT, then
// the model's PerPage. Pages is the total divided by perPage,
// truncated.
func (m *Model) Paginate(ctx context.Context, page, perPage int) (*types.Pagination, error) {
	desc := m.b.Desc()

	if perPage < 1 {
		perPage = desc.Limit
	}
	if perPage < 1 {
		perPage = m.def.PerPage
	}
	if perPage < 1 {
		m.reset()
		return nil, ErrZeroPerPage
	}
	if page < 1 {
		divisor := desc.Limit
		if divisor < 1 {
			divisor = perPage
		}
		page = desc.Offset/divisor + 1
	}

	m.b.Limit(perPage).Offset((page - 1) * perPage)

	// The soft-delete clause is pushed for the data fetch and popped
	// before the count pass re-adds its own.
	pushed := m.applySoftFilter()
	m.b.SetAction(builder.ActionSelect)
	out, err := m.process(ctx, false)
	if err != nil {
		m.reset()
		return nil, err
	}
	rows := out.Rows

	if pushed {
		m.b.PopWhere()
	}
	m.b.ClearLimit()

	total, err := m.Count(ctx)
	if err != nil {
		return nil, err
	}

	p := &types.Pagination{
		Data:    rows,
		Total:   total,
		Pages:   int(total) / perPage,
		Page:    page,
		PerPage: perPage,
	}
	if page < p.Pages {
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 && page <= p.Pages {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p, nil
}
