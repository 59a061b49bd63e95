package core_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/aretw0/tablet/pkg/adapters/fs"
	"github.com/aretw0/tablet/pkg/core"
	"github.com/aretw0/tablet/pkg/query"
)

// MockRepository implements core.Repository in memory.
// It deliberately does NOT implement core.Watchable to test fallback/errors.
type MockRepository struct {
	quotes map[int64]core.Quote
	lastID int64
	builds int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		quotes: make(map[int64]core.Quote),
	}
}

func (m *MockRepository) Save(ctx context.Context, q *core.Quote) (*core.Quote, error) {
	if !q.IsNew() {
		return q, nil
	}
	return m.Insert(ctx, q)
}

func (m *MockRepository) Insert(ctx context.Context, q *core.Quote) (*core.Quote, error) {
	if !q.IsNew() {
		return nil, core.ErrNotTransient
	}
	m.lastID++
	q.AssignID(m.lastID)
	m.quotes[q.ID] = *q
	return q, nil
}

func (m *MockRepository) Update(ctx context.Context, q *core.Quote) error {
	if q.IsNew() {
		return core.ErrTransient
	}
	if _, ok := m.quotes[q.ID]; !ok {
		return core.ErrNotFound
	}
	m.quotes[q.ID] = *q
	return nil
}

func (m *MockRepository) FindByID(ctx context.Context, id int64) (*core.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &q, nil
}

func (m *MockRepository) FindAll(ctx context.Context) ([]*core.Quote, error) {
	var out []*core.Quote
	for _, q := range m.quotes {
		q := q
		out = append(out, &q)
	}
	// Sort for deterministic tests
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockRepository) Delete(ctx context.Context, q *core.Quote) error {
	delete(m.quotes, q.ID)
	return nil
}

func (m *MockRepository) Clear(ctx context.Context) error {
	m.quotes = make(map[int64]core.Quote)
	return nil
}

func (m *MockRepository) RebuildSnapshot(ctx context.Context) error {
	m.builds++
	return nil
}

func (m *MockRepository) FindByFieldLike(ctx context.Context, pattern string, selector func(*core.Quote) string) ([]*core.Quote, error) {
	all, _ := m.FindAll(ctx)
	return query.Filter(pattern, all, selector), nil
}

func TestQuoteService_CRUD(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewQuoteService(repo)
	ctx := context.TODO()

	// 1. Write
	q, err := service.Write(ctx, "Stay hungry", "Steve Jobs")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if q.ID != 1 {
		t.Errorf("expected id 1, got %d", q.ID)
	}

	// 2. Get
	got, err := service.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Author != "Steve Jobs" {
		t.Errorf("expected author 'Steve Jobs', got '%s'", got.Author)
	}

	// 3. Modify
	if _, err := service.Modify(ctx, q.ID, "Stay foolish", "Steve Jobs"); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	got, _ = service.Get(ctx, q.ID)
	if got.Content != "Stay foolish" {
		t.Errorf("expected modified content, got '%s'", got.Content)
	}

	// 4. Remove
	if err := service.Remove(ctx, q.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := service.Remove(ctx, q.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestQuoteService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		author  string
		want    error
	}{
		{name: "Empty Content", content: "", author: "Anonymous", want: core.ErrInvalidQuote},
		{name: "Empty Author", content: "Something", author: "", want: core.ErrInvalidQuote},
		{name: "Comma In Content", content: "Simplicity, clarity", author: "Rams", want: core.ErrUnsafeText},
		{name: "Quote In Content", content: `He said "hi"`, author: "Someone", want: core.ErrUnsafeText},
		{name: "Comma In Author", content: "Less is more", author: "Mies, van der Rohe", want: core.ErrUnsafeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockRepository()
			service := core.NewQuoteService(repo)
			ctx := context.TODO()

			if _, err := service.Write(ctx, tt.content, tt.author); !errors.Is(err, tt.want) {
				t.Errorf("Write: expected %v, got %v", tt.want, err)
			}
			if repo.lastID != 0 {
				t.Errorf("Write consumed id %d for a rejected quote", repo.lastID)
			}

			q, err := service.Write(ctx, "Stay hungry", "Steve Jobs")
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if _, err := service.Modify(ctx, q.ID, tt.content, tt.author); !errors.Is(err, tt.want) {
				t.Errorf("Modify: expected %v, got %v", tt.want, err)
			}
			got, _ := service.Get(ctx, q.ID)
			if got.Content != "Stay hungry" || got.Author != "Steve Jobs" {
				t.Errorf("rejected Modify changed the record: %+v", got)
			}
		})
	}
}

// TestQuoteService_UnsafeTextKeepsTableListable runs against the filesystem
// table, where one undecodable file would fail every listing.
func TestQuoteService_UnsafeTextKeepsTableListable(t *testing.T) {
	table := fs.NewTable(core.QuoteSchema, fs.Config{BaseDir: t.TempDir()})
	service := core.NewQuoteService(table)
	ctx := context.TODO()

	if _, err := service.Write(ctx, "Less is more", "Mies"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := service.Write(ctx, "Simplicity, clarity", "Rams"); !errors.Is(err, core.ErrUnsafeText) {
		t.Fatalf("expected ErrUnsafeText, got %v", err)
	}

	page, err := service.List(ctx, 1, 5)
	if err != nil {
		t.Fatalf("List failed after rejected write: %v", err)
	}
	if page.TotalCount != 1 {
		t.Errorf("expected 1 quote, got %d", page.TotalCount)
	}
	if err := service.Build(ctx); err != nil {
		t.Errorf("Build failed after rejected write: %v", err)
	}
}

func TestQuoteService_List(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewQuoteService(repo)
	ctx := context.TODO()

	for i := 0; i < 7; i++ {
		if _, err := service.Write(ctx, "content", "author"); err != nil {
			t.Fatal(err)
		}
	}

	page, err := service.List(ctx, 1, 5)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalCount != 7 || page.TotalPages() != 2 {
		t.Errorf("expected 7 items on 2 pages, got %d on %d", page.TotalCount, page.TotalPages())
	}
	if len(page.Items) != 5 || page.Items[0].ID != 7 || page.Items[4].ID != 3 {
		t.Errorf("unexpected first page: %+v", page.Items)
	}

	page, _ = service.List(ctx, 2, 5)
	if len(page.Items) != 2 || page.Items[1].ID != 1 {
		t.Errorf("unexpected second page: %+v", page.Items)
	}

	page, _ = service.List(ctx, 3, 5)
	if len(page.Items) != 0 {
		t.Errorf("expected empty page past the end, got %d items", len(page.Items))
	}

	page, _ = service.List(ctx, 0, 0)
	if page.PageNo != 1 || page.PageSize != core.DefaultPageSize {
		t.Errorf("expected defaults, got page %d size %d", page.PageNo, page.PageSize)
	}
}

func TestQuoteService_Search(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewQuoteService(repo)
	ctx := context.TODO()

	service.Write(ctx, "Kindness is a language", "Mark Twain")
	service.Write(ctx, "A journey of a thousand miles", "Lao Tzu")
	service.Write(ctx, "Move fast", "Mark Zuckerberg")

	tests := []struct {
		name  string
		query core.SearchQuery
		want  []int64
	}{
		{"Author Prefix", core.SearchQuery{KeywordType: core.KeywordAuthor, Keyword: "Mark%"}, []int64{3, 1}},
		{"Content Contains", core.SearchQuery{KeywordType: core.KeywordContent, Keyword: "%journey%"}, []int64{2}},
		{"Either Field", core.SearchQuery{Keyword: "%a%"}, []int64{3, 2, 1}},
		{"Either Field Author Only", core.SearchQuery{Keyword: "%Tzu"}, []int64{2}},
		{"Paged", core.SearchQuery{Keyword: "%", PageNo: 2, PageSize: 2}, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := service.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			var ids []int64
			for _, q := range page.Items {
				ids = append(ids, q.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ids)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, ids)
					break
				}
			}
		})
	}
}

func TestQuoteService_Build(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewQuoteService(repo)

	if err := service.Build(context.TODO()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if repo.builds != 1 {
		t.Errorf("expected one snapshot rebuild, got %d", repo.builds)
	}
}

func TestQuoteService_Watch_Unsupported(t *testing.T) {
	service := core.NewQuoteService(NewMockRepository())

	_, err := service.Watch(context.TODO(), "*")
	if err == nil {
		t.Fatal("expected error for non-watchable repo")
	}
	if err.Error() != "repository does not support watching" {
		t.Errorf("unexpected error msg: %v", err)
	}
}
