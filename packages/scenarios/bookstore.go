package scenarios

import (
	"context"
	"encoding/json"

	"github.com/abdul-hamid-achik/bookspec/packages/assertions"
	"github.com/abdul-hamid-achik/bookspec/packages/capture"
	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/abdul-hamid-achik/bookspec/packages/logfilter"
	"github.com/abdul-hamid-achik/bookspec/packages/models"
	"github.com/abdul-hamid-achik/bookspec/packages/schemas"
)

const (
	authorizedResult = "User authorized successfully."

	tagBooks   = "books"
	tagAccount = "account"
	tagLogging = "logging"
	tagModel   = "model"
	tagSchema  = "schema"
)

// someLogs logs the request URI and both bodies.
var someLogs = logfilter.NewTemplate("some",
	logfilter.RequestURI, logfilter.RequestBody, logfilter.ResponseBody)

func booksNotEmpty(resp *http.Response) []*assertions.Result {
	return []*assertions.Result{
		assertions.HasSizeGreaterThan(resp, "books", 0),
	}
}

func loginSucceeded(resp *http.Response) []*assertions.Result {
	return []*assertions.Result{
		assertions.Equals(resp, "status", models.StatusSuccess),
		assertions.Equals(resp, "result", authorizedResult),
	}
}

var noLogs = Scenario{
	Name:        "no-logs",
	Description: "List books without logging and expect a non-empty catalog",
	Tags:        []string{tagBooks},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.ListBooks(ctx)
		if err != nil {
			return nil, err
		}
		return booksNotEmpty(resp), nil
	},
}

var withAllLogs = Scenario{
	Name:        "with-all-logs",
	Description: "List books logging every request and response part",
	Tags:        []string{tagBooks, tagLogging},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.ListBooks(ctx, env.LogWith(logfilter.All))
		if err != nil {
			return nil, err
		}
		return booksNotEmpty(resp), nil
	},
}

var withSomeLogs = Scenario{
	Name:        "with-some-logs",
	Description: "List books logging the URI and bodies only",
	Tags:        []string{tagBooks, tagLogging},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.ListBooks(ctx, env.LogWith(someLogs))
		if err != nil {
			return nil, err
		}
		return booksNotEmpty(resp), nil
	},
}

var withSomePost = Scenario{
	Name:        "with-some-post",
	Description: "Request a token with a hand-written JSON body",
	Tags:        []string{tagAccount, tagLogging},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		body := `{ "userName": ` + jsonString(env.Credentials.UserName) + `, "password": ` + jsonString(env.Credentials.Password) + ` }`
		resp, err := env.API.GenerateToken(ctx, body, env.LogWith(someLogs))
		if err != nil {
			return nil, err
		}
		return loginSucceeded(resp), nil
	},
}

// jsonString quotes s as a JSON string literal.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

var withReportListener = Scenario{
	Name:        "with-report-listener",
	Description: "Request a token with the report recorder attached",
	Tags:        []string{tagAccount, "report"},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		filters := []http.Filter{env.Log()}
		if env.Recorder != nil {
			filters = append(filters, env.Recorder.Filter())
		}

		resp, err := env.API.GenerateToken(ctx, env.credentialsMap(), filters...)
		if err != nil {
			return nil, err
		}
		return loginSucceeded(resp), nil
	},
}

var withCustomFilter = Scenario{
	Name:        "with-custom-filter",
	Description: "Request a token through the custom log template",
	Tags:        []string{tagAccount, tagLogging},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.GenerateToken(ctx, env.credentialsMap(), env.CustomLog())
		if err != nil {
			return nil, err
		}
		return loginSucceeded(resp), nil
	},
}

var withRawBody = Scenario{
	Name:        "with-raw-body",
	Description: "Request a token and check the raw body text",
	Tags:        []string{tagAccount},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.GenerateToken(ctx, env.credentialsMap(), env.CustomLog())
		if err != nil {
			return nil, err
		}

		body := capture.AsString(resp)
		return []*assertions.Result{
			assertions.ValueContains("body", body, `"status":"Success"`),
			assertions.ValueContains("body", body, `"result":"`+authorizedResult+`"`),
		}, nil
	},
}

var withModel = Scenario{
	Name:        "with-model",
	Description: "Request a token and decode it into an AuthorisationResponse",
	Tags:        []string{tagAccount, tagModel},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.GenerateToken(ctx, env.credentialsMap(), env.CustomLog())
		if err != nil {
			return nil, err
		}

		auth, err := models.DecodeAuthorisationResponse(resp.Body)
		if err != nil {
			return []*assertions.Result{assertions.NoError("decode AuthorisationResponse", err)}, nil
		}
		return []*assertions.Result{
			assertions.ValueContains("status", auth.Status, models.StatusSuccess),
			assertions.ValueContains("result", auth.Result, authorizedResult),
		}, nil
	},
}

var booksModel = Scenario{
	Name:        "books-model",
	Description: "List books and decode them into the Books model",
	Tags:        []string{tagBooks, tagModel},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.ListBooks(ctx, env.Log())
		if err != nil {
			return nil, err
		}

		_, err = models.DecodeBooks(resp.Body)
		return []*assertions.Result{assertions.NoError("decode Books", err)}, nil
	},
}

var booksJSONSchema = Scenario{
	Name:        "books-json-schema",
	Description: "List books and validate the body against booklist_response.json",
	Tags:        []string{tagBooks, tagSchema},
	Run: func(ctx context.Context, env *Env) ([]*assertions.Result, error) {
		resp, err := env.API.ListBooks(ctx, env.Log())
		if err != nil {
			return nil, err
		}
		return []*assertions.Result{
			assertions.MatchesSchemaInFS(resp, schemas.FS, schemas.BookList),
		}, nil
	},
}
