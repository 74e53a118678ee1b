/*
Package sqldataset provides an implementation of dataset.Dataset
that uses a table on an SQL database as backend.

The table holds a sample per row and a column per feature, named after it.
Continuous features are stored as numeric columns and discrete ones as text
columns. NULL stands for an undefined value.

Subsetting criteria are translated into conditions on the WHERE clause of
the queries when possible, and checked on every sample read otherwise.
*/
package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

/*
Set is a dataset.Dataset to which samples can be added

Its Write method takes a slice of samples and inserts them on the table,
returning the number of samples added or an error.
*/
type Set interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
}

type sqlSet struct {
	db         *sql.DB
	dialect    Dialect
	table      string
	features   []feature.Feature
	columns    []string
	criteria   []feature.Criterion
	conditions []Condition
	residual   []feature.Criterion
	count      *int
}

/*
Open takes a context, an *sql.DB, a Dialect, the name of a table and a slice
of features and returns a Set backed by the table or an error naming the
features the table has no column for.
*/
func Open(ctx context.Context, db *sql.DB, d Dialect, table string, features []feature.Feature) (Set, error) {
	ss, err := newSet(db, d, table, features)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", ss.quotedTable()))
	if err != nil {
		return nil, fmt.Errorf("checking columns of table %s: %v", table, err)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("checking columns of table %s: %v", table, err)
	}
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, f := range features {
		if !present[f.Name()] {
			missing = append(missing, f.Name())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("table %s has no column for features %s", table, strings.Join(missing, ", "))
	}
	return ss, nil
}

/*
Create takes a context, an *sql.DB, a Dialect, the name of a table and a
slice of features and returns a Set backed by the table, that is created if
it does not exist, or an error.
*/
func Create(ctx context.Context, db *sql.DB, d Dialect, table string, features []feature.Feature) (Set, error) {
	ss, err := newSet(db, d, table, features)
	if err != nil {
		return nil, err
	}
	definitions := make([]string, 0, len(features))
	for i, f := range features {
		kind := "TEXT"
		if _, ok := f.(*feature.ContinuousFeature); ok {
			kind = "DOUBLE PRECISION"
		}
		definitions = append(definitions, ss.columns[i]+" "+kind)
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ss.quotedTable(), strings.Join(definitions, ", "))
	if _, err = db.ExecContext(ctx, stmt); err != nil {
		return nil, fmt.Errorf("creating table %s: %v", table, err)
	}
	return ss, nil
}

func newSet(db *sql.DB, d Dialect, table string, features []feature.Feature) (*sqlSet, error) {
	if _, err := d.ColumnName(table); err != nil {
		return nil, fmt.Errorf("invalid table name: %v", err)
	}
	columns := make([]string, 0, len(features))
	for _, f := range features {
		c, err := d.ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return &sqlSet{db: db, dialect: d, table: table, features: features, columns: columns}, nil
}

func (ss *sqlSet) quotedTable() string {
	t, _ := ss.dialect.ColumnName(ss.table)
	return t
}

func (ss *sqlSet) SubsetWith(ctx context.Context, fc feature.Criterion) (dataset.Dataset, error) {
	conditions, ok, err := NewConditions(fc, ss.dialect)
	if err != nil {
		return nil, err
	}
	subset := &sqlSet{
		db:         ss.db,
		dialect:    ss.dialect,
		table:      ss.table,
		features:   ss.features,
		columns:    ss.columns,
		criteria:   append([]feature.Criterion{fc}, ss.criteria...),
		conditions: append(append([]Condition{}, ss.conditions...), conditions...),
		residual:   ss.residual,
	}
	if !ok {
		subset.residual = append(append([]feature.Criterion{}, ss.residual...), fc)
	}
	return subset, nil
}

func (ss *sqlSet) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return dataset.DistinctValues(ctx, ss, f)
}

/*
CountFeatureValues groups the rows on the column of the feature when every
criterion of the set maps to a condition, and counts sample by sample
otherwise.
*/
func (ss *sqlSet) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	if len(ss.residual) > 0 {
		return dataset.TallyValues(ctx, ss, f)
	}
	column, err := ss.dialect.ColumnName(f.Name())
	if err != nil {
		return nil, err
	}
	where, args := ss.where()
	rows, err := ss.db.QueryContext(ctx, fmt.Sprintf("SELECT %s, COUNT(*) FROM %s%s GROUP BY %s", column, ss.quotedTable(), where, column), args...)
	if err != nil {
		return nil, fmt.Errorf("counting values of %s: %v", f.Name(), err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var n int
		value := nullValueFor(f)
		if err = rows.Scan(value, &n); err != nil {
			return nil, fmt.Errorf("counting values of %s: %v", f.Name(), err)
		}
		result[fmt.Sprintf("%v", fromNull(value))] += n
	}
	return result, rows.Err()
}

func (ss *sqlSet) Samples(ctx context.Context) ([]dataset.Sample, error) {
	return dataset.Collect(ctx, ss)
}

func (ss *sqlSet) Count(ctx context.Context) (int, error) {
	if ss.count != nil {
		return *ss.count, nil
	}
	var count int
	if len(ss.residual) == 0 {
		where, args := ss.where()
		row := ss.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", ss.quotedTable(), where), args...)
		if err := row.Scan(&count); err != nil {
			return 0, fmt.Errorf("counting samples: %v", err)
		}
	} else {
		err := ss.Each(ctx, func(dataset.Sample) error {
			count++
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	ss.count = &count
	return count, nil
}

func (ss *sqlSet) Criteria(context.Context) ([]feature.Criterion, error) {
	return ss.criteria, nil
}

func (ss *sqlSet) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ss.columns))
	for i := range placeholders {
		placeholders[i] = ss.dialect.Placeholder(i + 1)
	}
	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ss.quotedTable(), strings.Join(ss.columns, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing sample insertion: %v", err)
	}
	defer stmt.Close()
	for n, s := range samples {
		args := make([]interface{}, 0, len(ss.features))
		for _, f := range ss.features {
			v, err := s.ValueFor(ctx, f)
			if err != nil {
				tx.Rollback()
				return n, err
			}
			args = append(args, v)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return n, fmt.Errorf("inserting sample: %v", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	ss.count = nil
	return len(samples), nil
}

func (ss *sqlSet) where() (string, []interface{}) {
	if len(ss.conditions) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(ss.conditions))
	var args []interface{}
	for _, c := range ss.conditions {
		if c.Operator == "IS NOT NULL" {
			clauses = append(clauses, c.Column+" IS NOT NULL")
			continue
		}
		args = append(args, c.Value)
		clauses = append(clauses, fmt.Sprintf("%s %s %s", c.Column, c.Operator, ss.dialect.Placeholder(len(args))))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (ss *sqlSet) Each(ctx context.Context, fn func(dataset.Sample) error) error {
	where, args := ss.where()
	rows, err := ss.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(ss.columns, ", "), ss.quotedTable(), where), args...)
	if err != nil {
		return fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := ss.scanSample(rows)
		if err != nil {
			return err
		}
		ok, err := ss.satisfiesResidual(ctx, s)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err = fn(s); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (ss *sqlSet) scanSample(rows *sql.Rows) (dataset.Sample, error) {
	dest := make([]interface{}, len(ss.features))
	for i, f := range ss.features {
		dest[i] = nullValueFor(f)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("reading sample: %v", err)
	}
	values := make(map[string]interface{}, len(ss.features))
	for i, f := range ss.features {
		if v := fromNull(dest[i]); v != nil {
			values[f.Name()] = v
		}
	}
	return dataset.NewSample(values), nil
}

// nullValueFor returns a scan destination fit for the column of the feature.
func nullValueFor(f feature.Feature) interface{} {
	if _, ok := f.(*feature.ContinuousFeature); ok {
		return &sql.NullFloat64{}
	}
	return &sql.NullString{}
}

func fromNull(dest interface{}) interface{} {
	switch v := dest.(type) {
	case *sql.NullFloat64:
		if v.Valid {
			return v.Float64
		}
	case *sql.NullString:
		if v.Valid {
			return v.String
		}
	}
	return nil
}

func (ss *sqlSet) satisfiesResidual(ctx context.Context, s dataset.Sample) (bool, error) {
	for _, c := range ss.residual {
		ok, err := c.SatisfiedBy(ctx, s)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
