// Package mutate stages and commits single-field record updates. An update
// is prepared against the in-memory record first, shown to the user, and
// written to the remote store only after explicit confirmation.
package mutate

import (
	"context"
	"fmt"

	"github.com/dbsmedya/sfnav/internal/logger"
	"github.com/dbsmedya/sfnav/internal/records"
)

// Updater is the write surface of the remote client.
type Updater interface {
	UpdateRecord(ctx context.Context, objectType, recordID string, fields map[string]interface{}) error
}

// Update is a staged single-field change, not yet written.
type Update struct {
	ObjectType string
	RecordID   string
	Field      string // resolved API name, original casing
	OldValue   interface{}
	NewValue   interface{}
}

// Prepare stages an update of one field on a record. The field name is
// resolved case-insensitively against the record's keys and the raw value
// is coerced to the type of the field's current value. Records fetched
// without the field loaded cannot be updated through it.
func Prepare(rec records.Record, fieldName, rawValue string) (*Update, error) {
	objectType := rec.ObjectType()
	if objectType == "" {
		return nil, fmt.Errorf("record carries no object type")
	}
	recordID := rec.ID()
	if recordID == "" {
		return nil, fmt.Errorf("record carries no ID")
	}

	resolved, ok := rec.ResolveField(fieldName)
	if !ok {
		return nil, &records.FieldNotFoundError{Field: fieldName, Available: rec.FieldNames()}
	}

	current, _ := rec.Get(resolved)
	return &Update{
		ObjectType: objectType,
		RecordID:   recordID,
		Field:      resolved,
		OldValue:   current,
		NewValue:   records.Coerce(current, rawValue),
	}, nil
}

// Commit writes a staged update and mirrors it into the record on success.
// The caller is responsible for having confirmed the update first.
func Commit(ctx context.Context, client Updater, log *logger.Logger, u *Update, rec records.Record) error {
	if log == nil {
		log = logger.NewNop()
	}

	err := client.UpdateRecord(ctx, u.ObjectType, u.RecordID, map[string]interface{}{
		u.Field: u.NewValue,
	})
	if err != nil {
		return fmt.Errorf("update of %s.%s on %s failed: %w", u.ObjectType, u.Field, u.RecordID, err)
	}

	rec[u.Field] = u.NewValue
	log.Infow("record updated",
		"object", u.ObjectType,
		"record", u.RecordID,
		"field", u.Field,
	)
	return nil
}
