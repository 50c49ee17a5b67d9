package apropos

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryLink(t *testing.T) {
	tests := []struct {
		name     string
		entry    Entry
		prefix   string
		expected string
	}{
		{"plain page ignores prefix", Entry{Page: "ls", Section: "1"}, "http://x/", "man/ls(1)"},
		{"qualified page uses prefix", Entry{Page: "Foo::Bar", Section: "3pm"}, "http://x/", "http://x/man/Foo::Bar(3pm)"},
		{"qualified page without prefix", Entry{Page: "Tcl:Interp", Section: "n"}, "", "man/Tcl:Interp(n)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.Link(tt.prefix))
		})
	}
}

func TestEntryIsQualified(t *testing.T) {
	assert.True(t, Entry{Page: "Foo::Bar"}.IsQualified())
	assert.False(t, Entry{Page: "printf"}.IsQualified())
}

func TestDistinctSections(t *testing.T) {
	entries := []Entry{
		{Page: "a", Section: "1"},
		{Page: "b", Section: "3"},
		{Page: "c", Section: "1"},
	}
	assert.Equal(t, 2, DistinctSections(entries))
	assert.Equal(t, 0, DistinctSections(nil))
}

func TestTitlesLookup(t *testing.T) {
	assert.Equal(t, "Programs and commands", SectionTitles.Lookup("1"))
	assert.Equal(t, "OpenSSL API", SectionTitles.Lookup("3SSL"))
	assert.Equal(t, "Tcl/Tk", SectionTitles.Lookup("N"))
	assert.Empty(t, SectionTitles.Lookup("3x"))

	var none Titles
	assert.Empty(t, none.Lookup("1"))
	assert.Len(t, SectionTitles, 19)
}

func TestParseOutput(t *testing.T) {
	t.Run("parses well formed lines", func(t *testing.T) {
		out := "printf (1)           - format and print data\n" +
			"printf (3)           - formatted output conversion\n"

		entries := ParseOutput(out)

		require.Len(t, entries, 2)
		assert.Equal(t, Entry{Page: "printf", Section: "1", Description: "Format and print data"}, entries[0])
		assert.Equal(t, "3", entries[1].Section)
	})

	t.Run("tolerates surrounding whitespace", func(t *testing.T) {
		entries := ParseOutput("   ls\t( 1 )  -   list directory contents  ")

		require.Len(t, entries, 1)
		assert.Equal(t, "ls", entries[0].Page)
		assert.Equal(t, "1", entries[0].Section)
		assert.Equal(t, "List directory contents", entries[0].Description)
	})

	t.Run("splits comma separated names", func(t *testing.T) {
		entries := ParseOutput("gzip, gunzip, zcat (1) - compress or expand files")

		require.Len(t, entries, 3)
		assert.Equal(t, "gzip", entries[0].Page)
		assert.Equal(t, "gunzip", entries[1].Page)
		assert.Equal(t, "zcat", entries[2].Page)
		for _, e := range entries {
			assert.Equal(t, "1", e.Section)
		}
	})

	t.Run("keeps descriptions that are already capitalized", func(t *testing.T) {
		entries := ParseOutput("X (7) - X Window System")
		require.Len(t, entries, 1)
		assert.Equal(t, "X Window System", entries[0].Description)
	})

	t.Run("skips malformed lines", func(t *testing.T) {
		out := "\n" +
			"no section here - nope\n" +
			"unterminated (1 - nope\n" +
			"nodesc (1)\n" +
			"empty (1) -   \n" +
			" (1) - missing name\n" +
			"ok (8) - fine\n"

		entries := ParseOutput(out)

		require.Len(t, entries, 1)
		assert.Equal(t, "ok", entries[0].Page)
	})

	t.Run("empty output yields no entries", func(t *testing.T) {
		assert.Empty(t, ParseOutput(""))
	})
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "apropos")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestShellProvider(t *testing.T) {
	t.Run("parses command output", func(t *testing.T) {
		path := writeScript(t, "echo 'ls (1) - list directory contents'\n")
		p := NewShellProvider(path)

		entries, err := p.Search(context.Background(), "ls")

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "ls", entries[0].Page)
	})

	t.Run("exit status 16 means no results", func(t *testing.T) {
		path := writeScript(t, "echo 'nothing appropriate' >&2\nexit 16\n")
		p := NewShellProvider(path)

		entries, err := p.Search(context.Background(), "zzz")

		assert.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("other failures are reported", func(t *testing.T) {
		path := writeScript(t, "echo 'database missing' >&2\nexit 1\n")
		p := NewShellProvider(path)

		_, err := p.Search(context.Background(), "ls")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database missing")
	})

	t.Run("default path", func(t *testing.T) {
		assert.Equal(t, "apropos", NewShellProvider("").path)
	})
}
