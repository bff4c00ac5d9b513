package users

import (
	"github.com/dmitrijs2005/datafaker/internal/dbx"
)

// SQLiteRepository stores users in a SQLite database. Ids are INTEGER
// primary keys surfaced as decimal strings.
type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{db: db, placeholder: dbx.Question}}
}
