package models

import (
	"fmt"

	"github.com/tidwall/gjson"
)

type Book struct {
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	SubTitle    string `json:"subTitle,omitempty"`
	Author      string `json:"author"`
	PublishDate string `json:"publish_date,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Books is the catalog returned by the book list endpoint.
type Books struct {
	Books []Book `json:"books"`
}

func (b *Books) Len() int {
	return len(b.Books)
}

// FindByISBN returns the book with the given ISBN.
func (b *Books) FindByISBN(isbn string) (Book, bool) {
	for _, book := range b.Books {
		if book.ISBN == isbn {
			return book, true
		}
	}
	return Book{}, false
}

var bookFields = []field{
	{path: "isbn", kind: gjson.String, required: true},
	{path: "title", kind: gjson.String, required: true},
	{path: "author", kind: gjson.String, required: true},
	{path: "subTitle", kind: gjson.String},
	{path: "publish_date", kind: gjson.String},
	{path: "publisher", kind: gjson.String},
	{path: "pages", kind: gjson.Number},
	{path: "description", kind: gjson.String},
	{path: "website", kind: gjson.String},
}

// DecodeBooks decodes a book list body. The books array is required and every
// entry needs isbn, title and author.
func DecodeBooks(body []byte) (*Books, error) {
	const model = "Books"

	doc, err := parseObject(model, body)
	if err != nil {
		return nil, err
	}
	if err := checkFields(model, "", doc, []field{{path: "books", array: true, required: true}}); err != nil {
		return nil, err
	}

	for i, value := range doc.Get("books").Array() {
		if !value.IsObject() {
			return nil, &DecodeError{Model: model, Field: fmt.Sprintf("books[%d]", i), Reason: "must be object, got " + describe(value)}
		}
		if err := checkFields(model, fmt.Sprintf("books[%d].", i), value, bookFields); err != nil {
			return nil, err
		}
	}

	var books Books
	if err := bind(model, body, &books); err != nil {
		return nil, err
	}
	return &books, nil
}
