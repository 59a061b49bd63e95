package core

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/tablet/pkg/codec"
	"github.com/aretw0/tablet/pkg/query"
)

// Keyword types accepted by SearchQuery.
const (
	KeywordContent = "content"
	KeywordAuthor  = "author"
)

// SearchQuery selects quotes by a wildcard keyword and pages the result.
// Any KeywordType other than "content" or "author" searches both fields.
type SearchQuery struct {
	KeywordType string
	Keyword     string
	PageNo      int
	PageSize    int
}

// QuoteService handles the business logic for quotes.
type QuoteService struct {
	repo Repository[*Quote]
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(repo Repository[*Quote]) *QuoteService {
	return &QuoteService{repo: repo}
}

// Write persists a new quote.
func (s *QuoteService) Write(ctx context.Context, content, author string) (*Quote, error) {
	if err := validateQuote(content, author); err != nil {
		return nil, err
	}
	return s.repo.Insert(ctx, NewQuote(content, author))
}

// Get retrieves a quote.
func (s *QuoteService) Get(ctx context.Context, id int64) (*Quote, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid quote id %d", id)
	}
	return s.repo.FindByID(ctx, id)
}

// Modify replaces the content and author of an existing quote.
func (s *QuoteService) Modify(ctx context.Context, id int64, content, author string) (*Quote, error) {
	if err := validateQuote(content, author); err != nil {
		return nil, err
	}
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Modify(content, author)
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Remove deletes a quote. It returns ErrNotFound when there is nothing to delete.
func (s *QuoteService) Remove(ctx context.Context, id int64) error {
	q, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, q)
}

// List returns quotes newest first.
func (s *QuoteService) List(ctx context.Context, pageNo, pageSize int) (Page[*Quote], error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return Page[*Quote]{}, err
	}
	sortDesc(all)
	return paginate(all, pageNo, pageSize), nil
}

// Search filters quotes by q.Keyword and returns them newest first.
func (s *QuoteService) Search(ctx context.Context, q SearchQuery) (Page[*Quote], error) {
	var (
		found []*Quote
		err   error
	)

	switch q.KeywordType {
	case KeywordContent:
		found, err = s.repo.FindByFieldLike(ctx, q.Keyword, QuoteContent)
	case KeywordAuthor:
		found, err = s.repo.FindByFieldLike(ctx, q.Keyword, QuoteAuthor)
	default:
		var all []*Quote
		all, err = s.repo.FindAll(ctx)
		found = query.MatchAny(q.Keyword, all, QuoteContent, QuoteAuthor)
	}
	if err != nil {
		return Page[*Quote]{}, err
	}

	sortDesc(found)
	return paginate(found, q.PageNo, q.PageSize), nil
}

// Build rewrites the snapshot. It must be called explicitly; writes never refresh it.
func (s *QuoteService) Build(ctx context.Context) error {
	return s.repo.RebuildSnapshot(ctx)
}

// Clear removes every quote.
func (s *QuoteService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Watch observes changes in the repository if supported.
func (s *QuoteService) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// validateQuote keeps out values that are empty or that the record format
// cannot read back; one such file would break every listing of the table.
func validateQuote(content, author string) error {
	if content == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrInvalidQuote)
	}
	if author == "" {
		return fmt.Errorf("%w: author cannot be empty", ErrInvalidQuote)
	}
	if err := codec.CheckText(content); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := codec.CheckText(author); err != nil {
		return fmt.Errorf("author: %w", err)
	}
	return nil
}

func sortDesc(qs []*Quote) {
	slices.SortFunc(qs, func(a, b *Quote) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
}
