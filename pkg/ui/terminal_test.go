package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrinterProgressLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Checking("WAYFT - April 02, 2023", time.Date(2023, time.April, 2, 13, 0, 0, 0, time.UTC))
	p.Found(3)
	p.PrintInfo("Window", "2023-04")

	assert.Equal(t,
		"Checking WAYFT - April 02, 2023, posted 2023-04-02\n"+
			"Found 3 comments\n"+
			"Window: 2023-04\n",
		buf.String())
}

func TestPrinterQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)

	p.Checking("WAYFT", time.Now())
	p.Found(1)
	p.PrintWarning("slow down")
	assert.Empty(t, buf.String())

	p.PrintError("search failed", errors.New("boom"))
	assert.Equal(t, "search failed: boom\n", buf.String())
}

func TestPrinterNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintWarning("careful")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mx\033[0m", Red("x"))
}

func TestDiscard(t *testing.T) {
	p := Discard()
	p.Checking("WAYFT", time.Now())
	p.PrintError("ignored", nil)
	assert.True(t, p.quiet)
}
