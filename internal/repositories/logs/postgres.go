package logs

import (
	"github.com/dmitrijs2005/datafaker/internal/dbx"
)

type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{sqlRepository{db: db, placeholder: dbx.Dollar}}
}
