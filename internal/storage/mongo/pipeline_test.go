package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageName(t *testing.T, stage bson.D) string {
	t.Helper()
	require.Len(t, stage, 1, "a pipeline stage has exactly one operator")
	return stage[0].Key
}

func lookupValue(t *testing.T, stage bson.D) bson.D {
	t.Helper()
	require.Equal(t, "$lookup", stageName(t, stage))
	v, ok := stage[0].Value.(bson.D)
	require.True(t, ok, "$lookup value should be a document")
	return v
}

func lookupField(t *testing.T, lookup bson.D, key string) interface{} {
	t.Helper()
	for _, e := range lookup {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("lookup has no %q field", key)
	return nil
}

func TestMatchActiveBoard(t *testing.T) {
	stage := matchActiveBoard("b")

	require.Equal(t, "$match", stageName(t, stage))
	filter := stage[0].Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "board", Value: "b"},
		{Key: "deleted_on", Value: nil},
	}, filter)
}

func TestMatchActiveThread(t *testing.T) {
	id := primitive.NewObjectID()
	stage := matchActiveThread("b", id)

	require.Equal(t, "$match", stageName(t, stage))
	filter := stage[0].Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "board", Value: "b"},
		{Key: "_id", Value: id},
		{Key: "deleted_on", Value: nil},
	}, filter)
}

func TestThreadProjectionHidesSensitiveFields(t *testing.T) {
	stage := threadProjection()

	require.Equal(t, "$project", stageName(t, stage))
	projection := stage[0].Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "board", Value: false},
		{Key: "reported", Value: false},
		{Key: "delete_password", Value: false},
	}, projection)
}

func TestActiveRepliesLookupWithLimit(t *testing.T) {
	lookup := lookupValue(t, activeRepliesLookup("replies", 3))

	assert.Equal(t, "replies", lookupField(t, lookup, "from"))
	assert.Equal(t, "replies", lookupField(t, lookup, "as"))

	pipeline := lookupField(t, lookup, "pipeline").([]bson.D)
	require.Len(t, pipeline, 4)
	assert.Equal(t, "$match", stageName(t, pipeline[0]))
	assert.Equal(t, "$sort", stageName(t, pipeline[1]))
	assert.Equal(t, "$limit", stageName(t, pipeline[2]))
	assert.Equal(t, 3, pipeline[2][0].Value)
	assert.Equal(t, "$project", stageName(t, pipeline[3]))

	// the sort is newest-first on created_on
	sort := pipeline[1][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "created_on", Value: -1}}, sort)
}

func TestActiveRepliesLookupUnlimited(t *testing.T) {
	lookup := lookupValue(t, activeRepliesLookup("replies", 0))

	pipeline := lookupField(t, lookup, "pipeline").([]bson.D)
	require.Len(t, pipeline, 3, "the full-thread fetch must not cap replies")
	for _, stage := range pipeline {
		assert.NotEqual(t, "$limit", stageName(t, stage))
	}
}

func TestReplyCountLookupCountsWithoutLimit(t *testing.T) {
	lookup := lookupValue(t, replyCountLookup("replies"))

	assert.Equal(t, "replycount", lookupField(t, lookup, "as"))

	pipeline := lookupField(t, lookup, "pipeline").([]bson.D)
	require.Len(t, pipeline, 2)
	assert.Equal(t, "$match", stageName(t, pipeline[0]))
	assert.Equal(t, "$count", stageName(t, pipeline[1]))
}

func TestFlattenReplyCountDefaultsToZero(t *testing.T) {
	stage := flattenReplyCount()

	require.Equal(t, "$addFields", stageName(t, stage))
	fields := stage[0].Value.(bson.D)
	require.Equal(t, "reply_count", fields[0].Key)

	ifNull := fields[0].Value.(bson.D)
	require.Equal(t, "$ifNull", ifNull[0].Key)
	args := ifNull[0].Value.(bson.A)
	require.Len(t, args, 2)
	assert.Equal(t, 0, args[1])
}

func TestMatchActiveChildRepliesCorrelation(t *testing.T) {
	stage := matchActiveChildReplies()

	require.Equal(t, "$match", stageName(t, stage))
	filter := stage[0].Value.(bson.D)
	require.Equal(t, "$expr", filter[0].Key)

	expr := filter[0].Value.(bson.D)
	require.Equal(t, "$and", expr[0].Key)
	conds := expr[0].Value.(bson.A)
	require.Len(t, conds, 2)
	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$thread_id", "$$thread_id"}}}, conds[0])
	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$deleted_on", nil}}}, conds[1])
}
