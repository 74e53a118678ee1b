/*
Package mongodataset provides a implementation of dataset.Dataset
that uses a MongoDB collection as backend.
*/
package mongodataset

import (
	"context"
	"fmt"
	"math"
	"strings"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

/*
Dataset is a dataset.Dataset from which samples can be sequentially read.

Its Read method streams the samples on a channel until they run out or the
context is done, reporting at most one error on the second channel.
*/
type Dataset interface {
	dataset.Dataset
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type mongodataset struct {
	session    *mgo.Session
	collection string
	features   []feature.Feature
	criteria   []feature.Criterion
}

// DefaultCollection is the collection samples are read from when none is given.
const DefaultCollection = "samples"

/*
Open takes a context, a MongoDB database session, the name of a collection
and a slice of features and returns a Dataset that works on the collection
of the default database for that session or an error if it fails to
connect to it.
*/
func Open(ctx context.Context, session *mgo.Session, collection string, features []feature.Feature) (Dataset, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	mds := &mongodataset{session: session, collection: collection, features: features}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongodataset) SubsetWith(ctx context.Context, fc feature.Criterion) (dataset.Dataset, error) {
	return &mongodataset{mds.session, mds.collection, mds.features, append([]feature.Criterion{fc}, mds.criteria...)}, nil
}

func (mds *mongodataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return dataset.DistinctValues(ctx, mds, f)
}

func (mds *mongodataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	iter := mds.samplesCollection().Pipe([]bson.M{{"$match": Query(mds.criteria)}, {"$group": bson.M{"_id": fmt.Sprintf("$%s", f.Name()), "count": bson.M{"$sum": 1}}}}).Iter()
	defer iter.Close()
	var doc bson.M
	result := make(map[string]int)
	for iter.Next(&doc) {
		count, ok := doc["count"].(int)
		if !ok {
			return nil, fmt.Errorf("counting feature values: mongo aggregation query returned a %T instead of an int as count", doc["count"])
		}
		v := normalize(f, doc["_id"])
		result[fmt.Sprintf("%v", v)] += count
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (mds *mongodataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	return dataset.Collect(ctx, mds)
}

func (mds *mongodataset) Count(context.Context) (int, error) {
	return mds.query().Count()
}

func (mds *mongodataset) Criteria(context.Context) ([]feature.Criterion, error) {
	return mds.criteria, nil
}

func (mds *mongodataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		defer close(samples)
		defer close(errs)
		iter := mds.query().Iter()
		defer iter.Close()
		var doc bson.M
		for iter.Next(&doc) {
			s := mds.newSample(doc)
			doc = nil
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case samples <- s:
			}
		}
		if err := iter.Err(); err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

func (mds *mongodataset) Each(ctx context.Context, fn func(dataset.Sample) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sampleChan, errs := mds.Read(ctx)
	for s := range sampleChan {
		if err := fn(s); err != nil {
			return err
		}
	}
	return <-errs
}

// newSample keeps the values of the dataset features, numbers as float64.
func (mds *mongodataset) newSample(doc bson.M) dataset.Sample {
	values := make(map[string]interface{}, len(mds.features))
	for _, f := range mds.features {
		if v := normalize(f, doc[f.Name()]); v != nil {
			values[f.Name()] = v
		}
	}
	return dataset.NewSample(values)
}

func normalize(f feature.Feature, v interface{}) interface{} {
	if _, ok := f.(*feature.ContinuousFeature); !ok {
		if v == nil {
			return nil
		}
		return fmt.Sprintf("%v", v)
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	}
	return nil
}

func (mds *mongodataset) ensureIndexes() error {
	for _, f := range mds.features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(mds.collection)
}

func (mds *mongodataset) query() *mgo.Query {
	return mds.samplesCollection().Find(Query(mds.criteria))
}

/*
Query takes a slice of criteria and returns the MongoDB query selecting the
documents that satisfy all of them. Criteria on continuous features that are
not bands, thresholds or intervals impose no condition.
*/
func Query(criteria []feature.Criterion) bson.M {
	var clauses []bson.M
	for _, fc := range criteria {
		fName := fc.Feature().Name()
		switch qfc := fc.(type) {
		case feature.BandCriterion:
			clauses = append(clauses, bson.M{fName: rangeCondition(qfc.Band())})
		case feature.ThresholdCriterion:
			t, above := qfc.Threshold()
			if above {
				clauses = append(clauses, bson.M{fName: bson.M{"$gt": t}})
			} else {
				clauses = append(clauses, bson.M{fName: bson.M{"$lte": t}})
			}
		case feature.IntervalCriterion:
			var alternatives []bson.M
			for _, r := range qfc.Interval().Ranges() {
				condition := bson.M{"$type": "number"}
				if !math.IsInf(r.Lo, 0) {
					condition["$gte"] = r.Lo
				}
				if !math.IsInf(r.Hi, 0) {
					condition["$lte"] = r.Hi
				}
				alternatives = append(alternatives, bson.M{fName: condition})
			}
			if len(alternatives) == 0 {
				alternatives = append(alternatives, bson.M{"_id": bson.M{"$exists": false}})
			}
			clauses = append(clauses, bson.M{"$or": alternatives})
		}
	}
	if len(clauses) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": clauses}
}

func rangeCondition(a, b float64) bson.M {
	condition := bson.M{"$type": "number"}
	if !math.IsInf(a, 0) {
		condition["$gte"] = a
	}
	if !math.IsInf(b, 0) {
		condition["$lt"] = b
	}
	return condition
}
