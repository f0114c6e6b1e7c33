package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ada.lovelace@example.com"))
	assert.True(t, ValidateEmail(" grace-hopper@mail.example.co.uk "))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestStripHTML(t *testing.T) {
	in := "<h1>Hello Ada</h1>\n<p>Save 20% &amp; more.</p><br/>"
	assert.Equal(t, "Hello Ada\nSave 20% & more.", StripHTML(in))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"vip", "beta", "eu"}, SplitTags(" vip; beta|eu,,"))
	assert.Empty(t, SplitTags(""))
}

func TestParseSubscribersCSV(t *testing.T) {
	data := "Email,First Name,last_name,Tags,Company\n" +
		"ada@example.com,Ada,Lovelace,vip;beta,Analytical Engines\n" +
		"grace@example.com,Grace,,,\n" +
		",NoEmail,,,\n"

	inputs, rowErrors, err := ParseSubscribersCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, inputs, 3)

	assert.Equal(t, "ada@example.com", inputs[0].Email)
	assert.Equal(t, "Ada", inputs[0].FirstName)
	assert.Equal(t, "Lovelace", inputs[0].LastName)
	assert.Equal(t, []string{"vip", "beta"}, inputs[0].Tags)
	assert.Equal(t, "Analytical Engines", inputs[0].CustomFields["Company"])

	assert.Equal(t, "grace@example.com", inputs[1].Email)
	assert.Empty(t, inputs[1].Tags)

	assert.Equal(t, "", inputs[2].Email, "rows without email are passed through for the importer to reject")
}

func TestParseSubscribersCSVRequiresEmailColumn(t *testing.T) {
	_, _, err := ParseSubscribersCSV(strings.NewReader("name,phone\nAda,123\n"))
	assert.Error(t, err)
}
