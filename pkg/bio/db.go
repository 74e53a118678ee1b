package bio

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	mgo "gopkg.in/mgo.v2"

	"github.com/pbanos/canopy/dataset/mongodataset"
	"github.com/pbanos/canopy/dataset/sqldataset"
	"github.com/pbanos/canopy/feature"
)

/*
OpenSQLSet takes a context, the name of a database/sql driver, a data source
name, a table name, a slice of features and the name of the label feature and
returns a Set backed by the table or an error. The driver must be registered
by the caller, who must Close the set once done with it.
*/
func OpenSQLSet(ctx context.Context, driver, dsn, table string, features []feature.Feature, label string, maxConns int) (*Set, error) {
	inputs, lf, err := splitLabel(features, label)
	if err != nil {
		return nil, err
	}
	lf = labelFeature(lf)
	dialect, err := sqldataset.DialectFor(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %v", driver, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s database: %v", driver, err)
	}
	s, err := sqldataset.Open(ctx, db, dialect, table, append(append([]feature.Feature{}, inputs...), lf))
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Set{Dataset: s, Inputs: inputs, Label: lf, closer: db.Close}, nil
}

/*
ReadMongoSet takes a context, a MongoDB connection URL, a collection name, a
slice of features and the name of the label feature and returns a Set backed
by the collection of the database in the URL or an error. The collection can
also be given with a collection query parameter on the URL. Closing the set
closes the session.
*/
func ReadMongoSet(ctx context.Context, mongoURL, collection string, features []feature.Feature, label string) (*Set, error) {
	inputs, lf, err := splitLabel(features, label)
	if err != nil {
		return nil, err
	}
	lf = labelFeature(lf)
	mongoURL, c, err := extractCollection(mongoURL)
	if err != nil {
		return nil, err
	}
	if collection == "" {
		collection = c
	}
	session, err := mgo.Dial(mongoURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %v", err)
	}
	s, err := mongodataset.Open(ctx, session, collection, append(append([]feature.Feature{}, inputs...), lf))
	if err != nil {
		session.Close()
		return nil, err
	}
	closer := func() error {
		session.Close()
		return nil
	}
	return &Set{Dataset: s, Inputs: inputs, Label: lf, closer: closer}, nil
}

func extractCollection(mongoURL string) (string, string, error) {
	u, err := url.Parse(mongoURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing mongodb url: %v", err)
	}
	q := u.Query()
	collection := q.Get("collection")
	q.Del("collection")
	u.RawQuery = q.Encode()
	return strings.TrimSuffix(u.String(), "?"), collection, nil
}
