package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply references its thread by id; the thread does not embed replies in
// storage, they are joined at read time.
type Reply struct {
	Id             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ThreadId       primitive.ObjectID `bson:"thread_id" json:"thread_id"`
	Text           PostText           `bson:"text" json:"text"`
	CreatedOn      time.Time          `bson:"created_on" json:"created_on"`
	DeletedOn      *time.Time         `bson:"deleted_on" json:"deleted_on,omitempty"`
	Reported       bool               `bson:"reported" json:"-"`
	DeletePassword string             `bson:"delete_password" json:"-"`
}

// ReplyView is what listings and full-thread fetches embed: no moderation
// state, no credential hash.
type ReplyView struct {
	Id        primitive.ObjectID `bson:"_id" json:"_id"`
	ThreadId  primitive.ObjectID `bson:"thread_id" json:"thread_id"`
	Text      PostText           `bson:"text" json:"text"`
	CreatedOn time.Time          `bson:"created_on" json:"created_on"`
}

func NewReply(threadId primitive.ObjectID, text PostText, passwordHash string, now time.Time) Reply {
	return Reply{
		ThreadId:       threadId,
		Text:           text,
		CreatedOn:      now,
		DeletedOn:      nil,
		Reported:       false,
		DeletePassword: passwordHash,
	}
}
