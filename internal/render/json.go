package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joshsymonds/mailview/internal/fetch"
)

// WriteJSON serializes summaries as an indented JSON array. A nil list is
// written as [] rather than null.
func WriteJSON(w io.Writer, list []fetch.Summary) error {
	if list == nil {
		list = []fetch.Summary{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summaries: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write summaries: %w", err)
	}
	return nil
}
