package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/amishk599/jobfacts/internal/model"
)

var _ model.Sink = (*JSONLinesSink)(nil)

// JSONLinesSink writes each view as one JSON object per line.
type JSONLinesSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLinesSink{enc: enc}
}

// Emit stops at the first write error.
func (s *JSONLinesSink) Emit(views []model.PostingView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range views {
		if v.Keywords == nil {
			v.Keywords = []string{}
		}
		if err := s.enc.Encode(v); err != nil {
			return fmt.Errorf("writing view %s: %w", v.Key(), err)
		}
	}
	return nil
}
