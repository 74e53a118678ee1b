package mongodataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/mgo.v2/bson"

	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/interval"
)

func TestQuery(t *testing.T) {
	age := feature.NewContinuousFeature("Age")
	assert.Equal(t, bson.M{}, Query(nil))
	q := Query([]feature.Criterion{
		feature.NewBandCriterion(age, 20, math.Inf(1)),
		feature.NewThresholdCriterion(age, 45, false),
		feature.NewIntervalCriterion(age, interval.New(math.Inf(-1), 30)),
	})
	assert.Equal(t, bson.M{"$and": []bson.M{
		{"Age": bson.M{"$type": "number", "$gte": 20.0}},
		{"Age": bson.M{"$lte": 45.0}},
		{"$or": []bson.M{{"Age": bson.M{"$type": "number", "$lte": 30.0}}}},
	}}, q)
}

func TestNormalize(t *testing.T) {
	age := feature.NewContinuousFeature("Age")
	class := feature.NewDiscreteFeature("Class", nil)
	assert.Equal(t, 3.0, normalize(age, 3))
	assert.Equal(t, 3.5, normalize(age, 3.5))
	assert.Nil(t, normalize(age, "3"))
	assert.Nil(t, normalize(age, nil))
	assert.Equal(t, "Tak", normalize(class, "Tak"))
	assert.Nil(t, normalize(class, nil))
}
