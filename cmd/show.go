package cmd

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/warphud/cmd/common"
	"github.com/warpdl/warphud/pkg/hud"
)

// stdinPeriod is how often piped input is re-sampled when --period is not
// given.
const stdinPeriod = 250 * time.Millisecond

const drainTimeout = 2 * time.Second

var showFlags = []cli.Flag{
	cli.DurationFlag{
		Name:  "period, p",
		Usage: "resend interval (0 sends text arguments once)",
	},
	cli.IntFlag{
		Name:  "lines, n",
		Usage: "number of trailing stdin lines to show",
		Value: 1,
	},
}

// Replaced in tests.
var showManager = hud.Default

var showStdin io.Reader = os.Stdin

var showShutdown = setupShutdownHandler

func show(ctx *cli.Context) error {
	period := ctx.Duration("period")
	var entry hud.Entry
	if ctx.NArg() > 0 {
		text := strings.Join(ctx.Args(), " ")
		if period == 0 {
			period = hud.NoPeriodicUpdate
		}
		entry = hud.NewTextEntry(period, func() (string, bool) { return text, true })
	} else {
		if ctx.Int("lines") < 1 {
			return common.PrintErrWithCmdHelp(ctx, errLinesRange)
		}
		if period == 0 {
			period = stdinPeriod
		}
		tail := newLineTail(ctx.Int("lines"))
		go func() {
			if err := tail.Feed(showStdin); err != nil {
				common.PrintRuntimeErr(ctx, "show", "stdin", err)
			}
		}()
		entry = hud.NewTextEntry(period, tail.Sample)
	}

	sigCtx, cancel := showShutdown()
	defer cancel()

	m := showManager()
	m.Add(entry)
	<-sigCtx.Done()

	dctx, dcancel := context.WithTimeout(context.Background(), drainTimeout)
	defer dcancel()
	if err := m.Shutdown(dctx); err != nil {
		common.PrintRuntimeErr(ctx, "show", "shutdown", err)
	}
	return nil
}

// lineTail keeps the last max lines of a stream. Sample reports a change
// only when a line arrived since the previous sample.
type lineTail struct {
	mu    sync.Mutex
	max   int
	lines []string
	rev   uint64
	sent  uint64
}

func newLineTail(max int) *lineTail {
	return &lineTail{max: max}
}

func (t *lineTail) Feed(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		t.push(sc.Text())
	}
	return sc.Err()
}

func (t *lineTail) push(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if over := len(t.lines) - t.max; over > 0 {
		t.lines = append(t.lines[:0], t.lines[over:]...)
	}
	t.rev++
}

func (t *lineTail) Sample() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rev == t.sent {
		return "", false
	}
	t.sent = t.rev
	return strings.Join(t.lines, "\n"), true
}
