package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<!DOCTYPE html>
<html><body>
<form id="fm1" action="/login?service=https%3A%2F%2Fsp.example.se" method="post">
  <input type="text" name="username" />
  <input type="password" name="password" />
  <input type="hidden" name="lt" value="LT-12345-abcdef" />
  <input type="hidden" name="execution" value="e1s1" />
</form>
</body></html>`

const samlPage = `<html><body>
<form action="https://www.start.ladok.se/Shibboleth.sso/SAML2/POST?x=1&amp;y=2" method="post">
  <input type="hidden" name="RelayState" value="ss:mem:abc&amp;def"/>
  <input type="hidden" name="SAMLResponse" value="PHNhbWxwOlJlc3BvbnNlPg=="/>
</form>
</body></html>`

func TestFormActionByID(t *testing.T) {
	action, err := FormAction(loginPage, "fm1")
	require.NoError(t, err)
	assert.Equal(t, "/login?service=https%3A%2F%2Fsp.example.se", action)
}

func TestFormActionFirstFormUnescapes(t *testing.T) {
	action, err := FormAction(samlPage, "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.start.ladok.se/Shibboleth.sso/SAML2/POST?x=1&y=2", action)
}

func TestFormActionMissing(t *testing.T) {
	_, err := FormAction("<html><body>nothing here</body></html>", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = FormAction(samlPage, "fm1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormActionWithInput(t *testing.T) {
	action, err := FormActionWithInput(samlPage, "SAMLResponse")
	require.NoError(t, err)
	assert.Equal(t, "https://www.start.ladok.se/Shibboleth.sso/SAML2/POST?x=1&y=2", action)

	// A page whose forms lack the input does not match, even when other
	// forms are present.
	_, err = FormActionWithInput(loginPage, "SAMLResponse")
	assert.ErrorIs(t, err, ErrNotFound)

	// With several forms on the page, the one carrying the input wins
	// regardless of order.
	combined := loginPage + samlPage
	action, err = FormActionWithInput(combined, "SAMLResponse")
	require.NoError(t, err)
	assert.Equal(t, "https://www.start.ladok.se/Shibboleth.sso/SAML2/POST?x=1&y=2", action)
}

func TestHiddenInput(t *testing.T) {
	lt, err := HiddenInput(loginPage, "lt")
	require.NoError(t, err)
	assert.Equal(t, "LT-12345-abcdef", lt)

	execution, err := HiddenInput(loginPage, "execution")
	require.NoError(t, err)
	assert.Equal(t, "e1s1", execution)

	relay, err := HiddenInput(samlPage, "RelayState")
	require.NoError(t, err)
	assert.Equal(t, "ss:mem:abc&def", relay)
}

func TestHiddenInputMissing(t *testing.T) {
	_, err := HiddenInput(loginPage, "SAMLResponse")
	assert.ErrorIs(t, err, ErrNotFound)
}
