package event

import (
	"github.com/dshills/keymarks/internal/engine/buffer"
	"github.com/dshills/keymarks/internal/mark"
)

// Feed names.
const (
	FeedChanges = "buffer.changes"
	FeedRenames = "buffer.renames"
	FeedDeletes = "buffer.deletes"
)

// ChangeEvent carries one edit batch of a buffer. Edit ranges refer to the
// buffer content before the batch; edits are listed in the order they must be
// applied.
type ChangeEvent struct {
	Buffer mark.BufferID
	Edits  []buffer.Edit
}

// RenameEvent carries buffer identity changes, applied in order.
type RenameEvent struct {
	Renames []mark.Rename
}

// DeleteEvent carries identities of buffers that no longer exist.
type DeleteEvent struct {
	Buffers []mark.BufferID
}

// Feeds groups the three notification streams a host editor provides.
type Feeds struct {
	Changes *Feed[ChangeEvent]
	Renames *Feed[RenameEvent]
	Deletes *Feed[DeleteEvent]
}

// NewFeeds creates the change, rename and delete feeds with shared options.
func NewFeeds(opts ...FeedOption) *Feeds {
	return &Feeds{
		Changes: NewFeed[ChangeEvent](FeedChanges, opts...),
		Renames: NewFeed[RenameEvent](FeedRenames, opts...),
		Deletes: NewFeed[DeleteEvent](FeedDeletes, opts...),
	}
}

// Close closes all three feeds.
func (fs *Feeds) Close() {
	fs.Changes.Close()
	fs.Renames.Close()
	fs.Deletes.Close()
}
