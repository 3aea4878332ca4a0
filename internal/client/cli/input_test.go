package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// fakeTerminal makes GetPassword believe stdin is (or is not) a terminal.
func fakeTerminal(t *testing.T, tty bool, read func(int) ([]byte, error)) {
	t.Helper()
	oldTerm, oldRead, oldFd := isTerminal, readPassword, stdinFd
	t.Cleanup(func() { isTerminal, readPassword, stdinFd = oldTerm, oldRead, oldFd })

	stdinFd = func() int { return 0 }
	isTerminal = func(int) bool { return tty }
	if read != nil {
		readPassword = read
	}
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "double enter", input: "a\nb\n\n\n", want: "a\nb"},
		{name: "crlf", input: "a\r\nb\r\n\r\n", want: "a\nb"},
		{name: "eof without blank line", input: "a\nb", want: "a\nb"},
		{name: "immediate blank line", input: "\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.input), "Enter text", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetPassword_Terminal(t *testing.T) {
	fakeTerminal(t, true, func(int) ([]byte, error) { return []byte("s3cret"), nil })

	var out bytes.Buffer
	pw, err := GetPassword(rdr("ignored\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	fakeTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Password", &out)
	require.Error(t, err)
}

func TestGetPassword_Piped(t *testing.T) {
	fakeTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal read on a pipe")
		return nil, nil
	})

	var out bytes.Buffer
	pw, err := GetPassword(rdr("from-pipe\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("from-pipe"), pw)
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"sure":  false,
	} {
		var out bytes.Buffer
		got, err := Confirm(rdr(input), "Delete?", &out)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	wipe(b)
	assert.Equal(t, make([]byte, 6), b)
}
