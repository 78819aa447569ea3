package shared

import (
	"context"
	"fmt"

	"github.com/runoshun/inbox/internal/domain"
)

// WriteProtocol persists one capture as two dependent remote writes:
// the item insert, then for each tag an upsert followed by a link.
type WriteProtocol struct {
	records domain.RecordStore
	tags    domain.TagStore
	logger  domain.Logger
}

// NewWriteProtocol creates a new WriteProtocol.
func NewWriteProtocol(records domain.RecordStore, tags domain.TagStore, logger domain.Logger) *WriteProtocol {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &WriteProtocol{records: records, tags: tags, logger: logger}
}

// Write sends rec to the remote store under id.
//
// A failed item insert yields a node-stage failure and nothing else is tried.
// In strict mode the first tag error yields a tag-stage failure; in tolerant
// mode tag errors are collected and returned as warnings on a success.
func (p *WriteProtocol) Write(ctx context.Context, id domain.Identity, rec domain.CaptureRecord, mode domain.WriteMode) domain.WriteOutcome {
	remoteID, err := p.records.InsertItem(ctx, id, rec)
	if err != nil {
		p.logger.Warn("write", fmt.Sprintf("insert %q failed: %v", rec.Title, err))
		return domain.NodeStageFailure(err)
	}
	p.logger.Debug("write", fmt.Sprintf("inserted %q as %s", rec.Title, remoteID))

	var tagErrors []string
	for _, name := range rec.Tags {
		if err := p.writeTag(ctx, id, remoteID, name); err != nil {
			msg := fmt.Sprintf("tag %q: %v", name, err)
			p.logger.Warn("write", fmt.Sprintf("%s (%s mode)", msg, mode))
			if mode == domain.ModeStrict {
				return domain.TagStageFailure(remoteID, []string{msg})
			}
			tagErrors = append(tagErrors, msg)
		}
	}

	return domain.WriteSuccess(remoteID, tagErrors)
}

func (p *WriteProtocol) writeTag(ctx context.Context, id domain.Identity, itemID, name string) error {
	tagID, err := p.tags.UpsertTag(ctx, id, name)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	if err := p.tags.LinkTag(ctx, id, itemID, tagID); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	return nil
}
