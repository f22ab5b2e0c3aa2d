package documents_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"docchat/backend/features/documents"
)

func TestPostgresRepo_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := documents.NewPostgresRepo(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents (name, chunk_count, status, processed_at)")).
			WithArgs("manual", 12, "processed").
			WillReturnRows(sqlmock.NewRows([]string{"processed_at"}).AddRow(now))

		doc := &documents.Document{Name: "manual", ChunkCount: 12, Status: "processed"}
		err := repo.Upsert(context.Background(), doc)
		assert.NoError(t, err)
		assert.Equal(t, now, doc.ProcessedAt)
	})
}

func TestPostgresRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := documents.NewPostgresRepo(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"name", "chunk_count", "status", "processed_at"}).
			AddRow("guide", 7, "processed", time.Now()).
			AddRow("manual", 12, "error", time.Now())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT name, chunk_count, status, processed_at FROM documents ORDER BY name")).
			WillReturnRows(rows)

		docs, err := repo.List(context.Background())
		assert.NoError(t, err)
		assert.Len(t, docs, 2)
		assert.Equal(t, "guide", docs[0].Name)
		assert.Equal(t, "error", docs[1].Status)
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT name, chunk_count, status, processed_at FROM documents")).
			WillReturnError(assert.AnError)

		_, err := repo.List(context.Background())
		assert.Error(t, err)
	})
}
