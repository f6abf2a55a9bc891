package model

import (
	"context"
	"fmt"

	"github.com/goquent/goquent/runtime/types"
)

type relationKind int

const (
	relationHasOne relationKind = iota
	relationHasMany
	relationBelongsTo
)

// Relation declares how rows of another model correlate with rows of
// this one. For hasOne and hasMany the parent's LocalKey matches the
// related ForeignKey; for belongsTo the parent's ForeignKey matches
// the related LocalKey.
type Relation struct {
	Name       string
	Related    *Model
	ForeignKey string
	LocalKey   string
	// Scope narrows the related query before the batched fetch.
	Scope func(*Model)

	kind relationKind
}

// HasOne declares a singular child relation. localKey defaults to the
// primary key when empty.
func (m *Model) HasOne(name string, related *Model, foreignKey, localKey string, scope ...func(*Model)) *Model {
	return m.declare(name, related, foreignKey, localKey, relationHasOne, scope)
}

// HasMany declares a plural child relation. localKey defaults to the
// primary key when empty.
func (m *Model) HasMany(name string, related *Model, foreignKey, localKey string, scope ...func(*Model)) *Model {
	return m.declare(name, related, foreignKey, localKey, relationHasMany, scope)
}

// BelongsTo declares a singular parent relation: foreignKey lives on
// this model's rows and localKey on the related table. localKey
// defaults to the related model's primary key when empty.
func (m *Model) BelongsTo(name string, related *Model, foreignKey, localKey string, scope ...func(*Model)) *Model {
	if localKey == "" && related != nil {
		localKey = related.def.PrimaryKey
	}
	return m.declare(name, related, foreignKey, localKey, relationBelongsTo, scope)
}

func (m *Model) declare(name string, related *Model, foreignKey, localKey string, kind relationKind, scope []func(*Model)) *Model {
	if localKey == "" {
		localKey = m.def.PrimaryKey
	}
	rel := Relation{
		Name:       name,
		Related:    related,
		ForeignKey: foreignKey,
		LocalKey:   localKey,
		kind:       kind,
	}
	if len(scope) > 0 {
		rel.Scope = scope[0]
	}
	m.declared[name] = rel
	return m
}

// keys returns the correlation field on the parent rows and the
// matching field on the related rows.
func (r Relation) keys() (parentField, relatedField string) {
	if r.kind == relationBelongsTo {
		return r.ForeignKey, r.LocalKey
	}
	return r.LocalKey, r.ForeignKey
}

// attachRelations batch-loads every selected relation and writes the
// matches into rows under the relation name. Unmatched singular
// relations get nil, unmatched hasMany relations an empty slice.
func (m *Model) attachRelations(ctx context.Context, rows []types.Row) error {
	for _, name := range m.withs {
		rel, ok := m.declared[name]
		if !ok {
			return &RelationError{Relation: name}
		}
		if err := m.loadRelation(ctx, rel, rows); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) loadRelation(ctx context.Context, rel Relation, rows []types.Row) error {
	parentField, relatedField := rel.keys()

	ids := make([]interface{}, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		v, ok := row[parentField]
		if !ok {
			return &RelationError{Relation: rel.Name, Field: parentField}
		}
		if v == nil {
			continue
		}
		if k := fmt.Sprint(v); !seen[k] {
			seen[k] = true
			ids = append(ids, v)
		}
	}

	// One batched query answers the relation for every parent row.
	index := make(map[string][]types.Row)
	if len(ids) > 0 {
		related := rel.Related
		related.reset()
		if rel.Scope != nil {
			rel.Scope(related)
		}
		related.WhereIn(relatedField, ids)
		fetched, err := related.Get(ctx)
		if err != nil {
			return fmt.Errorf("load relation %s: %w", rel.Name, err)
		}
		for _, r := range fetched {
			v, ok := r[relatedField]
			if !ok || v == nil {
				return &RelationError{Relation: rel.Name, Field: relatedField, Related: true}
			}
			k := fmt.Sprint(v)
			index[k] = append(index[k], r)
		}
	}

	for _, row := range rows {
		var matched []types.Row
		if v := row[parentField]; v != nil {
			matched = index[fmt.Sprint(v)]
		}
		if rel.kind == relationHasMany {
			if matched == nil {
				matched = []types.Row{}
			}
			row[rel.Name] = matched
			continue
		}
		if len(matched) > 0 {
			row[rel.Name] = matched[len(matched)-1]
		} else {
			row[rel.Name] = nil
		}
	}
	return nil
}
