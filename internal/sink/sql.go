package sink

import (
	"context"
	"database/sql"
	"fmt"

	"coursedesc/internal/components/chrono"
	"coursedesc/internal/db"
	"coursedesc/internal/document"
)

// SQLSink mirrors documents into a sqlite or libsql database, documents
// with the same filename are replaced.
type SQLSink struct {
	conn   *sql.DB
	makeTx db.MakeTx
	time   chrono.TimeAPI
}

// NewSQLSink creates the schema if needed, the sink owns conn afterwards.
func NewSQLSink(ctx context.Context, conn *sql.DB, time chrono.TimeAPI) (SQLSink, error) {
	_, err := conn.ExecContext(ctx, db.Schema)
	if err != nil {
		return SQLSink{}, fmt.Errorf("create schema: %w", err)
	}
	return SQLSink{
		conn:   conn,
		makeTx: db.NewMakeTx(conn),
		time:   time,
	}, nil
}

func (s SQLSink) Write(ctx context.Context, docs ...document.Document) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return fmt.Errorf("make tx: %w", err)
	}
	defer discard()

	writtenAt := s.time.Now().Unix()
	for _, doc := range docs {
		err = tx.UpsertDocument(ctx, db.UpsertDocumentParams{
			Filename:   doc.Filename,
			DegreeSlug: doc.DegreeSlug,
			DegreeName: doc.DegreeName,
			Year:       int64(doc.Year),
			Content:    doc.Content,
			WrittenAt:  writtenAt,
		})
		if err != nil {
			return fmt.Errorf("upsert %s: %w", doc.Filename, err)
		}
	}

	return commit()
}

// Documents returns every stored document ordered by degree and year.
func (s SQLSink) Documents(ctx context.Context) ([]db.Document, error) {
	return db.New(s.conn).ListDocuments(ctx)
}

func (s SQLSink) Close() error {
	return s.conn.Close()
}
