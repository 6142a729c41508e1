package content

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionPins is the pin document collection.
const CollectionPins = "pins"

// newestFirst orders feeds by creation time, newest first.
var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// FeedQuery returns the full feed, newest first.
func FeedQuery() Query {
	return Query{
		Collection: CollectionPins,
		Filter:     bson.D{},
		Sort:       newestFirst,
	}
}

// CategoryQuery returns the feed filtered to a single category.
func CategoryQuery(category string) Query {
	return Query{
		Collection: CollectionPins,
		Filter:     bson.D{{Key: "category", Value: category}},
		Sort:       newestFirst,
	}
}

// SearchQuery matches pins whose title, category or about text contains
// the term. The term is lower-cased before query construction and
// matching is case-insensitive, so results are identical regardless of
// input casing. The term is quoted so it is always treated as a literal,
// never as pattern or query syntax.
func SearchQuery(term string) Query {
	pattern := regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(term)))
	re := primitive.Regex{Pattern: pattern, Options: "i"}
	return Query{
		Collection: CollectionPins,
		Filter: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "category", Value: re}},
			bson.D{{Key: "about", Value: re}},
		}}},
		Sort: newestFirst,
	}
}

// PinDetailQuery returns the single-pin query for the given id.
func PinDetailQuery(id string) (Query, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Query{}, fmt.Errorf("invalid pin id %q: %w", id, err)
	}
	return Query{
		Collection: CollectionPins,
		Filter:     bson.D{{Key: "_id", Value: objID}},
	}, nil
}

// UserCreatedPinsQuery returns the pins created by a user, newest first.
func UserCreatedPinsQuery(userID string) Query {
	return Query{
		Collection: CollectionPins,
		Filter:     bson.D{{Key: "user_id", Value: userID}},
		Sort:       newestFirst,
	}
}

// UserSavedPinsQuery returns the pins carrying a save entry for the
// user, newest first.
func UserSavedPinsQuery(userID string) Query {
	return Query{
		Collection: CollectionPins,
		Filter:     bson.D{{Key: "save.user_id", Value: userID}},
		Sort:       newestFirst,
	}
}

// PinCommentsQuery projects just the comment collection of a pin.
func PinCommentsQuery(id string) (Query, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Query{}, fmt.Errorf("invalid pin id %q: %w", id, err)
	}
	return Query{
		Collection: CollectionPins,
		Filter:     bson.D{{Key: "_id", Value: objID}},
		Projection: bson.D{{Key: "comments", Value: 1}},
	}, nil
}
