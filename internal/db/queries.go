package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Document struct {
	Filename   string
	DegreeSlug string
	DegreeName string
	Year       int64
	Content    string
	WrittenAt  int64
}

const upsertDocument = `
insert into document(filename, degree_slug, degree_name, year, content, written_at)
values (?, ?, ?, ?, ?, ?)
on conflict(filename) do update set
    degree_slug = excluded.degree_slug,
    degree_name = excluded.degree_name,
    year = excluded.year,
    content = excluded.content,
    written_at = excluded.written_at
`

type UpsertDocumentParams struct {
	Filename   string
	DegreeSlug string
	DegreeName string
	Year       int64
	Content    string
	WrittenAt  int64
}

func (q *Queries) UpsertDocument(ctx context.Context, arg UpsertDocumentParams) error {
	_, err := q.db.ExecContext(ctx, upsertDocument,
		arg.Filename,
		arg.DegreeSlug,
		arg.DegreeName,
		arg.Year,
		arg.Content,
		arg.WrittenAt,
	)
	return err
}

const listDocuments = `
select filename, degree_slug, degree_name, year, content, written_at from document
order by degree_slug, year, filename
`

func (q *Queries) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := q.db.QueryContext(ctx, listDocuments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Document
	for rows.Next() {
		var i Document
		if err := rows.Scan(
			&i.Filename,
			&i.DegreeSlug,
			&i.DegreeName,
			&i.Year,
			&i.Content,
			&i.WrittenAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
