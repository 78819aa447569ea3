package app

import (
	"context"

	"github.com/runoshun/inbox/internal/domain"
)

// offlineRemote stands in for the remote store when none is configured.
// Its failures classify as transient, so captures land in the outbox.
type offlineRemote struct{}

var (
	_ domain.RecordStore = offlineRemote{}
	_ domain.TagStore    = offlineRemote{}
)

func (offlineRemote) err() error {
	return domain.NewRemoteError(domain.RemoteUnavailable, "", domain.ErrNoRemote)
}

func (o offlineRemote) InsertItem(context.Context, domain.Identity, domain.CaptureRecord) (string, error) {
	return "", o.err()
}

func (o offlineRemote) UpsertTag(context.Context, domain.Identity, string) (string, error) {
	return "", o.err()
}

func (o offlineRemote) LinkTag(context.Context, domain.Identity, string, string) error {
	return o.err()
}
