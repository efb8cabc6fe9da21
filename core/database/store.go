package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"class-sync/core/destination"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store is a destination.Store kept in SQL tables. Collections are free-form
// names; each record's properties are stored as JSON and indexed per value in
// record_fields for filtering.
type Store struct {
	db *gorm.DB
}

var _ destination.Store = (*Store)(nil)

// NewStore wraps an open, migrated connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Query returns the records of collection matching filter, oldest first.
func (s *Store) Query(ctx context.Context, collection string, filter destination.Filter) ([]destination.Page, error) {
	q := s.db.WithContext(ctx).Model(&Record{}).Where("records.collection = ?", collection)

	if filter.Property != "" {
		sub := s.db.Model(&RecordField{}).Select("record_id").
			Where("collection = ? AND property = ?", collection, filter.Property)
		if filter.Contains != "" {
			sub = sub.Where("INSTR(value, ?) > 0", filter.Contains)
		} else {
			sub = sub.Where("value = ?", filter.Equals)
		}
		q = q.Where("records.id IN (?)", sub)
	}

	var rows []Record
	if err := q.Order("records.created_at ASC, records.id ASC").Find(&rows).Error; err != nil {
		return nil, &destination.StoreError{Op: "query", Collection: collection, Err: err}
	}

	pages := make([]destination.Page, 0, len(rows))
	for _, row := range rows {
		props, err := decode(row.Properties)
		if err != nil {
			return nil, &destination.StoreError{Op: "query", Collection: collection, Err: fmt.Errorf("record %s: %w", row.ID, err)}
		}
		pages = append(pages, destination.Page{ID: row.ID, Properties: props})
	}
	return pages, nil
}

// Create inserts a record and returns its generated id.
func (s *Store) Create(ctx context.Context, collection string, props destination.Properties) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(props)
	if err != nil {
		return "", &destination.StoreError{Op: "create", Collection: collection, Err: err}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := Record{ID: id, Collection: collection, Properties: datatypes.JSON(payload)}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return insertFields(tx, id, collection, props)
	})
	if err != nil {
		return "", &destination.StoreError{Op: "create", Collection: collection, Err: err}
	}
	return id, nil
}

// Update merges props into the stored record. Properties not named are kept.
func (s *Store) Update(ctx context.Context, pageID string, props destination.Properties) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Record
		if err := tx.First(&row, "id = ?", pageID).Error; err != nil {
			return err
		}

		current, err := decode(row.Properties)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(props))
		for name, p := range props {
			current[name] = p
			names = append(names, name)
		}

		payload, err := json.Marshal(current)
		if err != nil {
			return err
		}
		if err := tx.Model(&row).Update("properties", datatypes.JSON(payload)).Error; err != nil {
			return err
		}

		if len(names) > 0 {
			if err := tx.Where("record_id = ? AND property IN ?", pageID, names).Delete(&RecordField{}).Error; err != nil {
				return err
			}
		}
		return insertFields(tx, pageID, row.Collection, props)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = fmt.Errorf("page %s: %w", pageID, err)
		}
		return &destination.StoreError{Op: "update", Err: err}
	}
	return nil
}

func insertFields(tx *gorm.DB, recordID, collection string, props destination.Properties) error {
	var fields []RecordField
	for name, p := range props {
		for _, v := range p.Values() {
			fields = append(fields, RecordField{RecordID: recordID, Collection: collection, Property: name, Value: v})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return tx.Create(&fields).Error
}

func decode(raw datatypes.JSON) (destination.Properties, error) {
	props := destination.Properties{}
	if len(raw) == 0 {
		return props, nil
	}
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return props, nil
}
