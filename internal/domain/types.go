package domain

type (
	Board    = string
	PostText = string
	Password = string
)

// Tombstone replaces a reply's text on soft deletion.
const Tombstone = "[deleted]"
