// internal/runtime/googleapi.go adapts *gmail.Service to the read-only Client
package runtime

import (
	"context"
	"net/textproto"

	"google.golang.org/api/gmail/v1"

	gc "github.com/joshsymonds/mailview/internal/gmail"
)

const me = "me"

type googleClient struct{ svc *gmail.Service }

func NewGoogleAPIClient(svc *gmail.Service) *googleClient { return &googleClient{svc} }

func (g *googleClient) ListMessages(ctx context.Context, labels []gc.LabelID, max int) ([]gc.MessageID, error) {
	call := g.svc.Users.Messages.List(me).MaxResults(int64(max))
	if len(labels) > 0 {
		call = call.LabelIds(toStrings(labels)...)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	ids := make([]gc.MessageID, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, gc.MessageID(m.Id))
	}
	return ids, nil
}

func (g *googleClient) GetMetadata(ctx context.Context, id gc.MessageID, headers []string) (gc.MessageMeta, error) {
	msg, err := g.svc.Users.Messages.Get(me, string(id)).Format("metadata").MetadataHeaders(headers...).Context(ctx).Do()
	if err != nil {
		return gc.MessageMeta{}, err
	}
	h := map[string]string{}
	if msg.Payload != nil {
		for _, hd := range msg.Payload.Headers {
			key := textproto.CanonicalMIMEHeaderKey(hd.Name)
			if _, seen := h[key]; seen {
				continue
			}
			h[key] = hd.Value
		}
	}
	return gc.MessageMeta{ID: id, Headers: h, Labels: toLabelIDs(msg.LabelIds), Snippet: msg.Snippet}, nil
}

func toStrings(labels []gc.LabelID) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}

func toLabelIDs(ids []string) []gc.LabelID {
	out := make([]gc.LabelID, len(ids))
	for i, id := range ids {
		out[i] = gc.LabelID(id)
	}
	return out
}
