// Package database holds the handle shared by every repository: a plain
// *sql.DB plus the squirrel builder configured with the placeholder
// format of the active driver.
package database

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
)

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

func New(sqlDB *sql.DB, placeholder squirrel.PlaceholderFormat) *DB {
	builder := squirrel.StatementBuilder.PlaceholderFormat(placeholder)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &builder,
	}
}
