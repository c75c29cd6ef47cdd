package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReplyExtractsFencedBlock(t *testing.T) {
	raw := "Here is the recipe you asked for.\n\n```json\n{\"name\":\"Lemon Cake\",\"servings\":\"8\"}\n```"

	result := ParseReply(raw)

	assert.Equal(t, "Here is the recipe you asked for.", result.Text)
	decoded, ok := result.JSON.(map[string]interface{})
	if !ok {
		t.Fatalf("expected decoded object, got %T", result.JSON)
	}
	assert.Equal(t, "Lemon Cake", decoded["name"])
	assert.Equal(t, "8", decoded["servings"])
}

func TestParseReplyNoBlockIsIdentity(t *testing.T) {
	raw := "Sorry, I could not find a recipe in that text."

	result := ParseReply(raw)

	assert.Equal(t, raw, result.Text)
	assert.Nil(t, result.JSON)
}

func TestParseReplyMalformedBlockPassesThroughUntouched(t *testing.T) {
	raw := "Some prose.\n```json\n{\"name\": \"broken\",}\n```\nTrailing prose."

	result := ParseReply(raw)

	// The corrupt block must not be stripped, partially or otherwise.
	assert.Equal(t, raw, result.Text)
	assert.Nil(t, result.JSON)
}

func TestParseReplyTakesFirstBlockOnly(t *testing.T) {
	raw := "Intro\n```json\n{\"first\":true}\n```\nmiddle\n```json\n{\"second\":true}\n```"

	result := ParseReply(raw)

	decoded := result.JSON.(map[string]interface{})
	assert.Equal(t, true, decoded["first"])
	assert.Contains(t, result.Text, "{\"second\":true}")
	assert.NotContains(t, result.Text, "{\"first\":true}")
}

func TestParseReplyBlockOnly(t *testing.T) {
	raw := "```json\n{\"name\":\"Tea\"}\n```"

	result := ParseReply(raw)

	assert.Equal(t, "", result.Text)
	decoded := result.JSON.(map[string]interface{})
	assert.Equal(t, "Tea", decoded["name"])
}

func TestParseReplyUnlabelledFenceIgnored(t *testing.T) {
	raw := "```\n{\"name\":\"Tea\"}\n```"

	result := ParseReply(raw)

	assert.Equal(t, raw, result.Text)
	assert.Nil(t, result.JSON)
}
