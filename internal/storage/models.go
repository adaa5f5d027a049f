package storage

import "time"

// KV is one row of local key-value storage.
type KV struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// EntryRow is a stored catalog entry. Types is kept in display order.
type EntryRow struct {
	ID       int64
	Position int
	Name     string
	Types    []string
	Region   string
	Image    string
	HP       int
	Attack   int
	Defense  int
	Speed    int
	Total    int
}
