package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAuthorisationResponse(t *testing.T) {
	t.Run("success body", func(t *testing.T) {
		resp, err := DecodeAuthorisationResponse([]byte(`{"status":"Success","result":"User authorized successfully."}`))

		require.NoError(t, err)
		assert.Equal(t, "Success", resp.Status)
		assert.Equal(t, "User authorized successfully.", resp.Result)
		assert.True(t, resp.Authorized())
		assert.Nil(t, resp.Token)
	})

	t.Run("token fields carried", func(t *testing.T) {
		resp, err := DecodeAuthorisationResponse([]byte(`{"token":"abc","expires":"2026-10-26T00:00:00.000Z","status":"Success","result":"User authorized successfully."}`))

		require.NoError(t, err)
		require.NotNil(t, resp.Token)
		assert.Equal(t, "abc", *resp.Token)
	})

	t.Run("failed login with null token", func(t *testing.T) {
		resp, err := DecodeAuthorisationResponse([]byte(`{"token":null,"expires":null,"status":"Failed","result":"User authorization failed."}`))

		require.NoError(t, err)
		assert.False(t, resp.Authorized())
	})

	tests := []struct {
		name   string
		body   string
		field  string
		reason string
	}{
		{"missing status", `{"result":"x"}`, "status", "is missing"},
		{"null result", `{"status":"Success","result":null}`, "result", "is missing"},
		{"numeric status", `{"status":1,"result":"x"}`, "status", "must be string, got number"},
		{"token wrong type", `{"status":"Success","result":"x","token":42}`, "token", "must be string, got number"},
		{"invalid json", `{"status":`, "", "invalid JSON"},
		{"array body", `[]`, "", "expected a JSON object, got array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAuthorisationResponse([]byte(tt.body))
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, "AuthorisationResponse", decodeErr.Model)
			assert.Equal(t, tt.field, decodeErr.Field)
			assert.Equal(t, tt.reason, decodeErr.Reason)
		})
	}
}

func TestDecodeBooks(t *testing.T) {
	body := `{"books":[
		{"isbn":"9781449325862","title":"Git Pocket Guide","subTitle":"A Working Introduction","author":"Richard E. Silverman","publish_date":"2020-06-04T08:48:39.000Z","publisher":"O'Reilly Media","pages":234,"description":"This pocket guide","website":"http://chimera.labs.oreilly.com/books/1230000000561/index.html"},
		{"isbn":"9781449331818","title":"Learning JavaScript Design Patterns","author":"Addy Osmani","pages":254}
	]}`

	books, err := DecodeBooks([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 2, books.Len())
	assert.Equal(t, "Git Pocket Guide", books.Books[0].Title)
	assert.Equal(t, 234, books.Books[0].Pages)

	book, ok := books.FindByISBN("9781449331818")
	assert.True(t, ok)
	assert.Equal(t, "Addy Osmani", book.Author)

	_, ok = books.FindByISBN("0000000000")
	assert.False(t, ok)
}

func TestDecodeBooks_Empty(t *testing.T) {
	books, err := DecodeBooks([]byte(`{"books":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, books.Len())
}

func TestDecodeBooks_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing books", `{}`, `decode Books: field "books" is missing`},
		{"books not array", `{"books":{}}`, `decode Books: field "books" must be array, got object`},
		{"entry not object", `{"books":["x"]}`, `decode Books: field "books[0]" must be object, got string`},
		{"missing title", `{"books":[{"isbn":"1","title":"a","author":"b"},{"isbn":"2","author":"c"}]}`, `decode Books: field "books[1].title" is missing`},
		{"pages as string", `{"books":[{"isbn":"1","title":"a","author":"b","pages":"234"}]}`, `decode Books: field "books[0].pages" must be number, got string`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBooks([]byte(tt.body))
			require.Error(t, err)
			assert.EqualError(t, err, tt.want)
		})
	}
}
