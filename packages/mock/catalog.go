package mock

import "github.com/abdul-hamid-achik/bookspec/packages/models"

// DefaultBooks is the catalog served when no other books are configured.
var DefaultBooks = []models.Book{
	{
		ISBN:        "9781449325862",
		Title:       "Git Pocket Guide",
		SubTitle:    "A Working Introduction",
		Author:      "Richard E. Silverman",
		PublishDate: "2020-06-04T08:48:39.000Z",
		Publisher:   "O'Reilly Media",
		Pages:       234,
		Description: "This pocket guide is the perfect on-the-job companion to Git, the distributed version control system.",
		Website:     "http://chimera.labs.oreilly.com/books/1230000000561/index.html",
	},
	{
		ISBN:        "9781449331818",
		Title:       "Learning JavaScript Design Patterns",
		SubTitle:    "A JavaScript and jQuery Developer's Guide",
		Author:      "Addy Osmani",
		PublishDate: "2020-06-04T09:11:40.000Z",
		Publisher:   "O'Reilly Media",
		Pages:       254,
		Description: "With Learning JavaScript Design Patterns, you'll learn how to write beautiful, structured, and maintainable JavaScript.",
		Website:     "http://www.addyosmani.com/resources/essentialjsdesignpatterns/book/",
	},
	{
		ISBN:        "9781593275846",
		Title:       "Eloquent JavaScript, Second Edition",
		SubTitle:    "A Modern Introduction to Programming",
		Author:      "Marijn Haverbeke",
		PublishDate: "2014-12-14T00:00:00.000Z",
		Publisher:   "No Starch Press",
		Pages:       472,
		Description: "JavaScript lies at the heart of almost every modern web application.",
		Website:     "http://eloquentjavascript.net/",
	},
}

// DefaultUser and DefaultPassword are accepted by the token endpoint unless
// other users are configured.
const (
	DefaultUser     = "alex"
	DefaultPassword = "W1_#zqwerty"
)
