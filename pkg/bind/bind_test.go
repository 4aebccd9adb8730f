package bind

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addInput struct {
	Quantity int  `form:"quantity" validate:"min=1"`
	Gift     bool `form:"gift"`
}

func formRequest(vals url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestFormBindsAndValidates(t *testing.T) {
	in := addInput{Quantity: 1}
	errs, err := Form(formRequest(url.Values{"quantity": {"3"}, "gift": {"on"}}), &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, 3, in.Quantity)
	assert.True(t, in.Gift)
}

func TestFormKeepsDefaultsForMissingFields(t *testing.T) {
	in := addInput{Quantity: 1}
	errs, err := Form(formRequest(url.Values{}), &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, 1, in.Quantity)
}

func TestFormParseErrorIsFieldError(t *testing.T) {
	in := addInput{Quantity: 1}
	errs, err := Form(formRequest(url.Values{"quantity": {"lots"}}), &in)
	require.NoError(t, err)
	assert.Equal(t, "The quantity field must be an integer.", errs["quantity"])
}

func TestFormValidationError(t *testing.T) {
	in := addInput{}
	errs, err := Form(formRequest(url.Values{"quantity": {"0"}}), &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "quantity")
}

func TestFormMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("quantity", "2"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	in := addInput{}
	errs, err := Form(req, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, 2, in.Quantity)
}
