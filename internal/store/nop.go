package store

import (
	"fmt"
	"time"

	"github.com/madisonlabs/marketlens/internal/model"
)

// NopStore is a no-op store used when history is disabled. Nothing is
// persisted and listing always comes back empty.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(model.ReportRecord) (int64, error)       { return 0, nil }
func (s *NopStore) List(int) ([]model.ReportRecord, error)       { return nil, nil }
func (s *NopStore) Get(id int64) (model.ReportRecord, error) {
	return model.ReportRecord{}, fmt.Errorf("report %d not found (history disabled)", id)
}
func (s *NopStore) Prune(time.Duration) (int64, error)           { return 0, nil }
func (s *NopStore) Close() error                                 { return nil }
