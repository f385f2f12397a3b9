package gmail

import "context"

// Client is the narrow, read-only Gmail surface required by mailview.
type Client interface {
	ListMessages(ctx context.Context, labels []LabelID, max int) ([]MessageID, error)
	GetMetadata(ctx context.Context, id MessageID, headers []string) (MessageMeta, error)
}
