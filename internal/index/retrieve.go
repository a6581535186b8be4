// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/character-engine/pkg/types"
)

// ErrEmptyQuery is returned when Retrieve gets no search terms or filters.
var ErrEmptyQuery = errors.New("query has no search terms or filters")

// QueryOptions holds parameters for snippet queries.
type QueryOptions struct {
	// Query is the FTS4 full-text search string.
	Query string

	// Entity restricts results to snippets mentioning this entity id.
	Entity string

	// With additionally requires this co-occurring entity id.
	With string

	// Chapter restricts results to one chapter when non-nil.
	Chapter *int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Entity == "" && q.With == "" && q.Chapter == nil
}

// QueryResult is a stored snippet with its entity ids.
type QueryResult struct {
	types.Snippet
}

// Retrieve queries the snippet store with optional full-text search and
// entity/chapter filters. Results are in document order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	if opts.IsEmpty() {
		return nil, ErrEmptyQuery
	}
	return s.query(ctx, opts)
}

// query runs opts without the empty-query check; an empty opts selects
// every snippet.
func (s *Store) query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT sn.id, sn.chapter, sn.chapter_title, sn.paragraph, sn.sentence_start, sn.sentence_end,
			sn.before_text, sn.match_text, sn.after_text, sn.mentions,
			(SELECT group_concat(entity_id, ',') FROM snippet_entities WHERE snippet_id = sn.id)
		FROM snippets sn`)

	if opts.Query != "" {
		qb.WriteString(` JOIN snippets_fts ON snippets_fts.docid = sn.rowid WHERE snippets_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(` WHERE 1=1`)
	}

	for _, e := range []string{opts.Entity, opts.With} {
		if e == "" {
			continue
		}
		qb.WriteString(` AND EXISTS (SELECT 1 FROM snippet_entities se WHERE se.snippet_id = sn.id AND se.entity_id = ?)`)
		args = append(args, e)
	}

	if opts.Chapter != nil {
		qb.WriteString(` AND sn.chapter = ?`)
		args = append(args, *opts.Chapter)
	}

	qb.WriteString(` ORDER BY sn.chapter, sn.paragraph, sn.sentence_start LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying snippets: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr           QueryResult
			title        sql.NullString
			before       sql.NullString
			after        sql.NullString
			mentionsJSON sql.NullString
			entityList   sql.NullString
		)
		if err := rows.Scan(
			&qr.ID, &qr.Chapter, &title, &qr.Location.Paragraph,
			&qr.Location.Start, &qr.Location.End,
			&before, &qr.Text.Match, &after, &mentionsJSON, &entityList,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.ChapterTitle = title.String
		qr.Text.Before = before.String
		qr.Text.After = after.String
		if mentionsJSON.Valid {
			json.Unmarshal([]byte(mentionsJSON.String), &qr.Mentions)
		}
		qr.Entities = entityOrder(qr.Mentions, entityList.String)
		results = append(results, qr)
	}
	return results, rows.Err()
}

// entityOrder lists entity ids in mention order, falling back to the
// linked ids for any entity without a mention record.
func entityOrder(mentions []types.SnippetMention, linked string) []string {
	var ids []string
	for _, m := range mentions {
		ids = append(ids, m.Entity)
	}
	if linked != "" {
		ids = append(ids, strings.Split(linked, ",")...)
	}
	return distinct(ids)
}

// EntityRecord is a stored entity.
type EntityRecord struct {
	types.Entity
	Tier string
}

// Entities returns stored entities ordered by mentions descending.
func (s *Store) Entities(ctx context.Context) ([]EntityRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, canonical_name, tier, mentions, variants, first_chapter, first_paragraph
		 FROM entities ORDER BY mentions DESC, canonical_name`)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var out []EntityRecord
	for rows.Next() {
		var (
			r            EntityRecord
			variantsJSON sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.CanonicalName, &r.Tier, &r.Mentions, &variantsJSON,
			&r.FirstAppearance.Chapter, &r.FirstAppearance.Paragraph); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if variantsJSON.Valid {
			json.Unmarshal([]byte(variantsJSON.String), &r.Variants)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
