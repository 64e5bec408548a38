package adapter

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobfacts/internal/model"
)

// filePosting is one record of a posting file. JSON documents parse too,
// since YAML is a superset.
type filePosting struct {
	ID          string `yaml:"id"`
	Company     string `yaml:"company"`
	Title       string `yaml:"title"`
	Location    string `yaml:"location"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	PostedAt    string `yaml:"posted_at"`
}

// FileAdapter reads postings from a local YAML or JSON file. The document is
// either a list of postings or a mapping with a "postings" list.
type FileAdapter struct {
	path        string
	companyName string
}

// NewFileAdapter creates an adapter for the file at path. companyName fills
// in records that do not name their company.
func NewFileAdapter(path string, companyName string) *FileAdapter {
	return &FileAdapter{path: path, companyName: companyName}
}

// FetchPostings reads and decodes the whole file. Records without an id are
// numbered by position, starting at 1.
func (a *FileAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("file fetch for %s: %w", a.path, err)
	}

	records, err := decodePostings(data)
	if err != nil {
		return nil, fmt.Errorf("file fetch for %s: %w", a.path, err)
	}

	postings := make([]model.Posting, 0, len(records))
	for i, r := range records {
		id := r.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		company := r.Company
		if company == "" {
			company = a.companyName
		}
		postings = append(postings, model.Posting{
			ID:          id,
			Company:     company,
			Title:       r.Title,
			Location:    r.Location,
			URL:         r.URL,
			Description: r.Description,
			Source:      "file",
			PostedAt:    parseTimestamp(r.PostedAt),
		})
	}
	return postings, nil
}

func decodePostings(data []byte) ([]filePosting, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse postings: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var records []filePosting
		if err := doc.Decode(&records); err != nil {
			return nil, fmt.Errorf("parse postings: %w", err)
		}
		return records, nil
	case yaml.MappingNode:
		var wrapped struct {
			Postings []filePosting `yaml:"postings"`
		}
		if err := doc.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("parse postings: %w", err)
		}
		return wrapped.Postings, nil
	default:
		return nil, fmt.Errorf("parse postings: expected a list or a mapping, got %s", doc.Tag)
	}
}
