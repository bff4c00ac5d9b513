package logs

import (
	"github.com/dmitrijs2005/datafaker/internal/dbx"
)

type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{db: db, placeholder: dbx.Question}}
}
