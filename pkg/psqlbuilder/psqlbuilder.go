package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder is a statement builder preconfigured for PostgreSQL ($1, $2, ...).
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a SELECT statement with PostgreSQL placeholders.
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert starts an INSERT statement with PostgreSQL placeholders.
func Insert(into string) squirrel.InsertBuilder {
	return builder.Insert(into)
}

// Update starts an UPDATE statement with PostgreSQL placeholders.
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete starts a DELETE statement with PostgreSQL placeholders.
func Delete(from string) squirrel.DeleteBuilder {
	return builder.Delete(from)
}
