package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pipeline builders shared by the listing and full-thread reads. Both
// repositories express "join active children, sort, maybe limit" the same
// way; keeping the stages here keeps the two reads consistent.

func matchActiveBoard(board string) bson.D {
	return bson.D{{Key: "$match", Value: bson.D{
		{Key: "board", Value: board},
		{Key: "deleted_on", Value: nil},
	}}}
}

func matchActiveThread(board string, id primitive.ObjectID) bson.D {
	return bson.D{{Key: "$match", Value: activeThreadFilter(board, id)}}
}

func sortByDesc(field string) bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: field, Value: -1}}}}
}

func limitTo(n int) bson.D {
	return bson.D{{Key: "$limit", Value: n}}
}

// threadProjection hides the fields a listed thread never exposes.
func threadProjection() bson.D {
	return bson.D{{Key: "$project", Value: bson.D{
		{Key: "board", Value: false},
		{Key: "reported", Value: false},
		{Key: "delete_password", Value: false},
	}}}
}

func replyProjection() bson.D {
	return bson.D{{Key: "$project", Value: bson.D{
		{Key: "reported", Value: false},
		{Key: "delete_password", Value: false},
	}}}
}

// matchActiveChildReplies is the correlated sub-query filter: replies whose
// thread_id equals the parent thread's _id and which are not soft-deleted.
func matchActiveChildReplies() bson.D {
	return bson.D{{Key: "$match", Value: bson.D{
		{Key: "$expr", Value: bson.D{
			{Key: "$and", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$thread_id", "$$thread_id"}}},
				bson.D{{Key: "$eq", Value: bson.A{"$deleted_on", nil}}},
			}},
		}},
	}}}
}

// activeRepliesLookup joins a thread's active replies, newest first. A
// non-positive limit means all of them (the full-thread fetch).
func activeRepliesLookup(repliesColl string, limit int) bson.D {
	pipeline := []bson.D{
		matchActiveChildReplies(),
		sortByDesc("created_on"),
	}
	if limit > 0 {
		pipeline = append(pipeline, limitTo(limit))
	}
	pipeline = append(pipeline, replyProjection())

	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: repliesColl},
		{Key: "let", Value: bson.D{{Key: "thread_id", Value: "$_id"}}},
		{Key: "pipeline", Value: pipeline},
		{Key: "as", Value: "replies"},
	}}}
}

// replyCountLookup counts all active replies, independent of any preview
// limit, into a one-element "replycount" array.
func replyCountLookup(repliesColl string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: repliesColl},
		{Key: "let", Value: bson.D{{Key: "thread_id", Value: "$_id"}}},
		{Key: "pipeline", Value: []bson.D{
			matchActiveChildReplies(),
			{{Key: "$count", Value: "replycount"}},
		}},
		{Key: "as", Value: "replycount"},
	}}}
}

// flattenReplyCount turns the $count lookup array into a plain integer
// field so the result decodes into a typed struct. Threads with no active
// replies get 0.
func flattenReplyCount() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "reply_count", Value: bson.D{
			{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$replycount.replycount", 0}}},
				0,
			}},
		}},
	}}}
}
