package report

import (
	"context"

	"github.com/madisonlabs/marketlens/internal/model"
)

// FileSource is the upload path: a local JSON file used in place of the
// webhook. It satisfies the same ReportSource contract so the rest of the
// pipeline cannot tell the two apart.
type FileSource struct {
	Path string
}

// Fetch validates req the same way the webhook client does, then loads the
// file. The request itself is not sent anywhere.
func (f FileSource) Fetch(_ context.Context, req model.AnalysisRequest) (*model.AnalysisReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return LoadFile(f.Path)
}
