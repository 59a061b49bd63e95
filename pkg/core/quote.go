package core

import (
	"fmt"

	"github.com/aretw0/tablet/pkg/codec"
)

// Quote is a saying and the person it is attributed to.
type Quote struct {
	ID      int64
	Content string
	Author  string
}

// QuoteTableName is the entity type directory of quotes.
const QuoteTableName = "quotes"

// QuoteSchema stores quotes under <base>/quotes.
var QuoteSchema = Schema[*Quote]{
	Name:   QuoteTableName,
	Decode: DecodeQuote,
}

// NewQuote returns a transient quote.
func NewQuote(content, author string) *Quote {
	return &Quote{Content: content, Author: author}
}

// IsNew reports whether the quote has never been persisted.
func (q *Quote) IsNew() bool {
	return q.ID == 0
}

func (q *Quote) RecordID() int64 {
	return q.ID
}

func (q *Quote) AssignID(id int64) {
	q.ID = id
}

// Modify replaces the content fields. The id is left untouched.
func (q *Quote) Modify(content, author string) {
	q.Content = content
	q.Author = author
}

func (q *Quote) Fields() codec.Fields {
	return codec.Fields{
		{Key: "id", Value: q.ID},
		{Key: "content", Value: q.Content},
		{Key: "author", Value: q.Author},
	}
}

// QuoteContent selects the content field for searches.
func QuoteContent(q *Quote) string { return q.Content }

// QuoteAuthor selects the author field for searches.
func QuoteAuthor(q *Quote) string { return q.Author }

// DecodeQuote converts a decoded record mapping into a Quote.
func DecodeQuote(fields map[string]any) (*Quote, error) {
	id, ok := fields["id"].(int64)
	if !ok {
		return nil, fmt.Errorf("%w: id missing or not an integer", ErrMalformedRecord)
	}
	content, ok := fields["content"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: content missing or not text", ErrMalformedRecord)
	}
	author, ok := fields["author"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: author missing or not text", ErrMalformedRecord)
	}
	return &Quote{ID: id, Content: content, Author: author}, nil
}
