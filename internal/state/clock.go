package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	siteID = uuid.NewString()
	seq    uint64
)

// NewID returns an element id that is unique for the life of the process and
// across saved projects.
func NewID() string {
	return uuid.NewString()
}

// Revision is a monotonic counter bumped on every visible change so that
// observers can skip redundant redraws.
type Revision uint64

func nextRevision() Revision {
	return Revision(atomic.AddUint64(&seq, 1))
}

// SiteID identifies this editor instance in its mDNS advertisement.
func SiteID() string {
	return siteID
}
