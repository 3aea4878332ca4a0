package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls [][]string
}

func (f *fakeExec) exec(ctx context.Context, args []string) error {
	f.calls = append(f.calls, args)
	return nil
}

func TestRunREPL_DispatchesLines(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"",
		"messages list",
		"   chain view   tok-1  ",
		"exit",
		"whoami",
	}, "\n")

	var out bytes.Buffer
	f := &fakeExec{}
	runREPL(context.Background(), rdr(input), &out,
		func() string { return "(anna)" },
		func() string { return "HELP TEXT\n" },
		f.exec)

	assert.Equal(t, [][]string{{"messages", "list"}, {"chain", "view", "tok-1"}}, f.calls)
	assert.Contains(t, out.String(), "afteryou (anna)> ")
	assert.Contains(t, out.String(), "HELP TEXT")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	var out bytes.Buffer
	f := &fakeExec{}
	runREPL(context.Background(), rdr("dashboard"), &out, func() string { return "" },
		func() string { return "" }, f.exec)

	assert.Equal(t, [][]string{{"dashboard"}}, f.calls)
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeExec{}
	runREPL(ctx, rdr("dashboard\n"), &bytes.Buffer{}, func() string { return "" },
		func() string { return "" }, f.exec)

	assert.Empty(t, f.calls)
}
