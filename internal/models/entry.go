package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimestampLayout renders server-assigned timestamps as ISO-8601 with a
// fixed-width microsecond fraction. The store orders entries by comparing
// these strings, so the fraction must never vary in width: a trimmed
// fraction would make an earlier same-second entry sort after a later one.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// JournalEntry represents a single saved memory. Entries are immutable once
// inserted; there are no update or delete operations in this service.
//
// Timestamp is stored as an ISO-8601 string (server-assigned at save time) so
// descending sorts in Mongo order entries newest first. Date and Time are
// derived from it for display.
type JournalEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	OriginalText string             `bson:"originalText"`
	EnhancedText *string            `bson:"enhancedText"`
	ImageURL     *string            `bson:"imageUrl"`
	Timestamp    string             `bson:"timestamp"`
	Date         string             `bson:"date"`
	Time         string             `bson:"time"`
	FileName     *string            `bson:"fileName"`
}

// Map renders the entry for JSON responses, with the ObjectID as a hex string.
// Optional fields are kept as explicit nulls so clients can rely on the keys.
func (e JournalEntry) Map() map[string]interface{} {
	return map[string]interface{}{
		"_id":          e.ID.Hex(),
		"title":        e.Title,
		"originalText": e.OriginalText,
		"enhancedText": e.EnhancedText,
		"imageUrl":     e.ImageURL,
		"timestamp":    e.Timestamp,
		"date":         e.Date,
		"time":         e.Time,
		"fileName":     e.FileName,
	}
}
