package main

import (
	"testing"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestRulesMarkdown(t *testing.T) {
	md := rulesMarkdown("mods", []domain.ModRule{
		{ID: "hash", Kind: domain.RuleOperator, Symbol: "#", Priority: 2, Formula: "a*a+b", Description: "Squares the left side."},
		{ID: "quad", Kind: domain.RuleFunction, Name: "quad", Formula: "x^4"},
	})

	assert.Contains(t, md, "# Mods in mods")
	assert.Contains(t, md, "| `#` | operator | 2 | `a*a+b` |")
	assert.Contains(t, md, "| `quad` | function |  | `x^4` |")
	assert.Contains(t, md, "## #\n\nSquares the left side.")
	assert.NotContains(t, md, "## quad")

	assert.Contains(t, rulesMarkdown(".", nil), "No mods found.")
}
