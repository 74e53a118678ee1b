package sqldataset

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Dialect provides the SQL details that change from one database engine
to another.

Its Placeholder method takes the 1-based position of a parameter in a
statement and returns its placeholder.

Its ColumnName method takes the name of a feature and returns the quoted
column name for it or an error if the feature name cannot be used as one.
*/
type Dialect interface {
	Placeholder(int) string
	ColumnName(string) (string, error)
}

type sqlite3Dialect struct{}

type postgreSQLDialect struct{}

// SQLite3 is the Dialect for the sqlite3 driver.
var SQLite3 Dialect = sqlite3Dialect{}

// PostgreSQL is the Dialect for the postgres driver.
var PostgreSQL Dialect = postgreSQLDialect{}

/*
DialectFor takes the name of a database/sql driver and returns the Dialect
to use with it or an error if the driver is not supported.
*/
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3":
		return SQLite3, nil
	case "postgres", "postgresql":
		return PostgreSQL, nil
	}
	return nil, fmt.Errorf("unsupported sql driver %q", driver)
}

func (sqlite3Dialect) Placeholder(int) string {
	return "?"
}

func (sqlite3Dialect) ColumnName(featureName string) (string, error) {
	return quoteIdentifier(featureName)
}

func (postgreSQLDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (postgreSQLDialect) ColumnName(featureName string) (string, error) {
	return quoteIdentifier(featureName)
}

func quoteIdentifier(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty feature name cannot be used as column name")
	}
	if strings.ContainsAny(name, "\"\x00") {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, name)
	}
	return `"` + name + `"`, nil
}
