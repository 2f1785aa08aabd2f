package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/mbarranco/clipmill/internal/domain"
)

const itemColumns = `topic, pipeline_status, generated_script_path, final_video_path, youtube_url, last_error, last_updated, source_type, source_detail`

// CreateItem inserts a new topic item. It returns false (not an error) when
// the topic already exists; creation is idempotent.
func (db *DB) CreateItem(topic, sourceType, sourceDetail string, initial domain.Status) (bool, error) {
	if initial == "" {
		initial = domain.StatusPendingScript
	}
	query := `INSERT OR IGNORE INTO items (topic, pipeline_status, last_updated, source_type, source_detail)
		VALUES (?, ?, ?, ?, ?)`

	res, err := db.Exec(query, topic, initial, nowStamp(), sourceType, sourceDetail)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetItem returns the item for a topic, or nil when the topic is unknown.
func (db *DB) GetItem(topic string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE topic = ?`

	item := &domain.Item{}
	err := db.Get(item, query, topic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items, most recently updated first.
func (db *DB) ListItems() ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY last_updated DESC`

	var items []*domain.Item
	err := db.Select(&items, query)
	return items, err
}

// FindTopicsByStatus returns up to limit topic names in the given status,
// oldest updated first. The ascending order is load-bearing: it guarantees
// fair progress and keeps long-pending items from starving.
func (db *DB) FindTopicsByStatus(status domain.Status, limit int) ([]string, error) {
	query := `SELECT topic FROM items
		WHERE pipeline_status = ?
		ORDER BY last_updated ASC
		LIMIT ?`

	var topics []string
	err := db.Select(&topics, query, status, limit)
	return topics, err
}

// ItemUpdate carries the optional columns of a status update. Nil fields are
// left untouched; a pointer to the empty string clears the column.
type ItemUpdate struct {
	ScriptPath *string
	VideoPath  *string
	YouTubeURL *string
	LastError  *string
}

// UpdateStatus sets a new pipeline status and any supplied fields, always
// refreshing last_updated. It returns false when the topic does not exist.
func (db *DB) UpdateStatus(topic string, status domain.Status, upd ItemUpdate) (bool, error) {
	set := []string{"pipeline_status = ?", "last_updated = ?"}
	args := []any{status, nowStamp()}

	appendField := func(column string, value *string) {
		if value == nil {
			return
		}
		if *value == "" {
			set = append(set, column+" = NULL")
			return
		}
		set = append(set, column+" = ?")
		args = append(args, *value)
	}
	appendField("generated_script_path", upd.ScriptPath)
	appendField("final_video_path", upd.VideoPath)
	appendField("youtube_url", upd.YouTubeURL)
	appendField("last_error", upd.LastError)

	args = append(args, topic)
	query := `UPDATE items SET ` + strings.Join(set, ", ") + ` WHERE topic = ?`

	res, err := db.Exec(query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteItem removes a topic row. Returns false when the topic is unknown.
func (db *DB) DeleteItem(topic string) (bool, error) {
	res, err := db.Exec(`DELETE FROM items WHERE topic = ?`, topic)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Str is a convenience helper for ItemUpdate fields.
func Str(s string) *string {
	return &s
}
