package content

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArrayKeyer is implemented by embedded array entries that carry a
// unique `_key`. Commit fills empty keys when AutoGenerateArrayKeys is
// set.
type ArrayKeyer interface {
	ArrayKey() string
	SetArrayKey(key string)
}

// CommitOptions control how a patch is applied.
type CommitOptions struct {
	// AutoGenerateArrayKeys assigns a fresh nanoid to every appended
	// array entry whose key is empty.
	AutoGenerateArrayKeys bool
}

// Patch is a builder for a single-document mutation. Operations are
// accumulated and applied by Commit. Commit is not idempotent: each
// commit appends or removes exactly once, and no retry is performed on
// failure.
type Patch struct {
	store      *Store
	collection string
	id         string

	guard           bson.D
	missingDefaults bson.D
	appends         map[string][]any
	appendOrder     []string
	pulls           bson.D
	unsets          []string
}

// Patch starts a mutation builder for the given document.
func (s *Store) Patch(collection, id string) *Patch {
	return &Patch{
		store:      s,
		collection: collection,
		id:         id,
		appends:    make(map[string][]any),
	}
}

// SetIfMissing sets each field to its default only when the field is
// absent from the document. Existing values are never overwritten.
func (p *Patch) SetIfMissing(fields bson.D) *Patch {
	p.missingDefaults = append(p.missingDefaults, fields...)
	return p
}

// Append adds items to the end of an array field, preserving insertion
// order.
func (p *Patch) Append(field string, items ...any) *Patch {
	if _, seen := p.appends[field]; !seen {
		p.appendOrder = append(p.appendOrder, field)
	}
	p.appends[field] = append(p.appends[field], items...)
	return p
}

// RemoveFromArray removes every element of an array field matching the
// given condition. Removing from an array with no matching element is a
// no-op, not an error.
func (p *Patch) RemoveFromArray(field string, match bson.D) *Patch {
	p.pulls = append(p.pulls, bson.E{Key: field, Value: match})
	return p
}

// Unset removes the named fields from the document.
func (p *Patch) Unset(fields ...string) *Patch {
	p.unsets = append(p.unsets, fields...)
	return p
}

// Where adds extra match conditions the document must satisfy for the
// commit to apply. A guard miss surfaces as ErrNotFound.
func (p *Patch) Where(conditions bson.D) *Patch {
	p.guard = append(p.guard, conditions...)
	return p
}

// buildUpdate assembles the update document from the accumulated
// operations. Split out from Commit so it can be verified without a
// running database.
func (p *Patch) buildUpdate() (bson.D, error) {
	var update bson.D

	if len(p.appends) > 0 {
		var push bson.D
		for _, field := range p.appendOrder {
			push = append(push, bson.E{Key: field, Value: bson.M{"$each": p.appends[field]}})
		}
		update = append(update, bson.E{Key: "$push", Value: push})
	}

	if len(p.pulls) > 0 {
		update = append(update, bson.E{Key: "$pull", Value: p.pulls})
	}

	if len(p.unsets) > 0 {
		unset := bson.D{}
		for _, field := range p.unsets {
			unset = append(unset, bson.E{Key: field, Value: ""})
		}
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}

	if len(update) == 0 {
		return nil, errors.New("empty patch: no operations to commit")
	}
	return update, nil
}

// generateArrayKeys fills empty keys on appended entries with fresh
// nanoids, one unique key per append.
func (p *Patch) generateArrayKeys() error {
	for _, field := range p.appendOrder {
		for _, item := range p.appends[field] {
			keyed, ok := item.(ArrayKeyer)
			if !ok || keyed.ArrayKey() != "" {
				continue
			}
			key, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("generate array key: %w", err)
			}
			keyed.SetArrayKey(key)
		}
	}
	return nil
}

// Commit applies the accumulated operations and returns the updated
// document. Returns ErrNotFound when the document does not exist or a
// Where guard did not match.
func (p *Patch) Commit(ctx context.Context, opts CommitOptions) (bson.M, error) {
	objID, err := primitive.ObjectIDFromHex(p.id)
	if err != nil {
		return nil, fmt.Errorf("invalid document id %q: %w", p.id, err)
	}

	if opts.AutoGenerateArrayKeys {
		if err := p.generateArrayKeys(); err != nil {
			return nil, err
		}
	}

	update, err := p.buildUpdate()
	if err != nil {
		return nil, err
	}

	coll := p.store.db.Collection(p.collection)

	// Defaults apply only to documents missing the field, so each one is
	// its own guarded update.
	for _, field := range p.missingDefaults {
		_, err := coll.UpdateOne(ctx,
			bson.M{"_id": objID, field.Key: bson.M{"$exists": false}},
			bson.M{"$set": bson.M{field.Key: field.Value}},
		)
		if err != nil {
			return nil, fmt.Errorf("set if missing %s: %w", field.Key, err)
		}
	}

	filter := bson.D{{Key: "_id", Value: objID}}
	filter = append(filter, p.guard...)

	var updated bson.M
	err = coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("commit patch on %s: %w", p.collection, err)
	}
	return updated, nil
}
