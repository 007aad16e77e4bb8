package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/wt/internal/model"
)

func TestShareBar(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	assert.Equal(t, "#####.....  50%", ShareBar(1, 2, 10))
	assert.Equal(t, "..........   0%", ShareBar(0, 0, 10))
	assert.Equal(t, "########## 100%", ShareBar(5, 5, 10))
	assert.Equal(t, 5, strings.Count(ShareBar(9, 1, 2), "#"))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "What do you have to do?", Placeholder(model.Work))
	assert.Equal(t, "Where do you want to go?", Placeholder(model.Travel))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "åäöåäö...", Truncate("åäöåäöåäöåäö", 9))
}

func TestTabsAndPanel(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	tabs := Tabs(model.Travel)
	assert.Contains(t, tabs, "Work")
	assert.Contains(t, tabs, "Travel")

	var buf bytes.Buffer
	Panel(&buf, []string{"Work", "  Buy milk"})
	out := buf.String()
	assert.Contains(t, out, "Buy milk")
	assert.True(t, strings.HasPrefix(out, "+"))
}

func TestMessages(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "load failed")
	Warn(&buf, "not saved")
	assert.Equal(t, "ok added\nx load failed\n! not saved\n", buf.String())
}
