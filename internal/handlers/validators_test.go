package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"ab", "alice", "alice123", "john doe", "john_doe", "john-doe", "a1 b2 c3"}
	for _, username := range valid {
		assert.NoError(t, validateUsername(username), username)
	}

	invalid := []string{
		"a",
		"thisusernameiswaytoolong",
		"alice!",
		"alice  doe", // double separator
		" alice",
		"alice_",
		"-alice",
		"al@ce",
	}
	for _, username := range invalid {
		assert.Error(t, validateUsername(username), username)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("alice@example.com"))
	assert.Error(t, validateEmail("not-an-email"))
	assert.Error(t, validateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("secret1"))
	assert.Error(t, validatePassword("12345"))
}

func TestValidateStrongPassword(t *testing.T) {
	assert.NoError(t, validateStrongPassword("Str0ngPass"))

	weak := []string{
		"Sh0rt",
		"alllower1x",
		"ALLUPPER1X",
		"NoDigitsHere",
		"",
	}
	for _, password := range weak {
		assert.Error(t, validateStrongPassword(password), password)
	}
}

func TestValidateCommentContent(t *testing.T) {
	assert.NoError(t, validateCommentContent("nice video"))
	assert.Error(t, validateCommentContent("hi"))
	assert.Error(t, validateCommentContent("     "))
}
