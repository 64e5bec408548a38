package store

import (
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

// NopStore is used for dry runs. It remembers nothing, so every view is new
// on every run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(key string) (bool, error)            { return false, nil }
func (s *NopStore) Save(view model.PostingView) error           { return nil }
func (s *NopStore) List(limit int) ([]model.PostingView, error) { return nil, nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error       { return nil }
func (s *NopStore) Close() error                                { return nil }
