package listing

import "context"

// Source is a job site that can be searched for postings. Each site gets its
// own implementation so markup or API changes stay local to it.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]*Record, error)
}
