package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is the stored document. DeletePassword holds the bcrypt hash and is
// never serialized to clients; deleted threads stay in the collection with
// DeletedOn set and are filtered out of every read.
type Thread struct {
	Id             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Board          Board              `bson:"board" json:"board"`
	Text           PostText           `bson:"text" json:"text"`
	CreatedOn      time.Time          `bson:"created_on" json:"created_on"`
	BumpedOn       time.Time          `bson:"bumped_on" json:"bumped_on"`
	DeletedOn      *time.Time         `bson:"deleted_on" json:"deleted_on,omitempty"`
	Reported       bool               `bson:"reported" json:"-"`
	DeletePassword string             `bson:"delete_password" json:"-"`
}

// ThreadSummary is the board-listing view: no board, no moderation state,
// no credential hash, at most a few recent replies plus the full active
// reply count. ReplyCount is independent of len(Replies) so callers can
// tell whether more replies exist than the preview shows.
type ThreadSummary struct {
	Id         primitive.ObjectID `bson:"_id" json:"_id"`
	Text       PostText           `bson:"text" json:"text"`
	CreatedOn  time.Time          `bson:"created_on" json:"created_on"`
	BumpedOn   time.Time          `bson:"bumped_on" json:"bumped_on"`
	Replies    []ReplyView        `bson:"replies" json:"replies"`
	ReplyCount int                `bson:"reply_count" json:"reply_count"`
}

// FullThread is the single-thread view with every active reply embedded.
type FullThread struct {
	Id        primitive.ObjectID `bson:"_id" json:"_id"`
	Text      PostText           `bson:"text" json:"text"`
	CreatedOn time.Time          `bson:"created_on" json:"created_on"`
	BumpedOn  time.Time          `bson:"bumped_on" json:"bumped_on"`
	Replies   []ReplyView        `bson:"replies" json:"replies"`
}

func NewThread(board Board, text PostText, passwordHash string, now time.Time) Thread {
	return Thread{
		Board:          board,
		Text:           text,
		CreatedOn:      now,
		BumpedOn:       now,
		DeletedOn:      nil,
		Reported:       false,
		DeletePassword: passwordHash,
	}
}
