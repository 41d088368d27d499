package models

import "github.com/tidwall/gjson"

// Credentials is the body of a token request.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// AuthorisationResponse is the body returned by the token endpoint.
type AuthorisationResponse struct {
	Status  string  `json:"status"`
	Result  string  `json:"result"`
	Token   *string `json:"token,omitempty"`
	Expires *string `json:"expires,omitempty"`
}

// StatusSuccess is the status reported for an accepted login.
const StatusSuccess = "Success"

var authorisationFields = []field{
	{path: "status", kind: gjson.String, required: true},
	{path: "result", kind: gjson.String, required: true},
	{path: "token", kind: gjson.String},
	{path: "expires", kind: gjson.String},
}

// DecodeAuthorisationResponse decodes a token endpoint body. Both status and
// result must be present strings.
func DecodeAuthorisationResponse(body []byte) (*AuthorisationResponse, error) {
	const model = "AuthorisationResponse"

	doc, err := parseObject(model, body)
	if err != nil {
		return nil, err
	}
	if err := checkFields(model, "", doc, authorisationFields); err != nil {
		return nil, err
	}

	var resp AuthorisationResponse
	if err := bind(model, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Authorized reports whether the login succeeded.
func (r *AuthorisationResponse) Authorized() bool {
	return r.Status == StatusSuccess
}
