package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// bannerWidth is the total width revision banners are padded to.
const bannerWidth = 60

// Printer writes the per-revision scan markers. Progress goes to Out,
// diagnostics to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer

	ok *color.Color
	ng *color.Color
}

// NewPrinter creates a Printer writing to the given streams. Color output is
// handled by fatih/color, which disables itself on non-TTY streams.
func NewPrinter(out, errW io.Writer) *Printer {
	return &Printer{
		Out: out,
		Err: errW,
		ok:  color.New(color.FgGreen, color.Bold),
		ng:  color.New(color.FgRed, color.Bold),
	}
}

// Banner prints the fixed-width revision banner, e.g. "### [abc1234] ###...".
func (p *Printer) Banner(rev string) {
	head := fmt.Sprintf("### [%s] ", rev)
	pad := bannerWidth - len(head)
	if pad < 3 {
		pad = 3
	}
	fmt.Fprintf(p.Out, "%s%s\n", head, strings.Repeat("#", pad))
}

// Announce prints a command before it is executed.
func (p *Printer) Announce(command string) {
	fmt.Fprintf(p.Out, "$ %s\n", command)
}

// OK prints the success marker for a command.
func (p *Printer) OK() {
	fmt.Fprintf(p.Out, "%s\n", p.ok.Sprint("OK"))
}

// NG prints the failure marker identifying the offending revision and command.
func (p *Printer) NG(rev, command string, exitCode int) {
	fmt.Fprintf(p.Err, "%s %q failed on %s (exit %d)\n", p.ng.Sprint("NG"), command, rev, exitCode)
}

// Done prints the closing banner after every revision passed.
func (p *Printer) Done(revisions int) {
	fmt.Fprintf(p.Out, "%s\n", strings.Repeat("#", bannerWidth))
	fmt.Fprintf(p.Out, "%s all commands passed on %d revision(s)\n", p.ok.Sprint("OK"), revisions)
}

// Errorf prints a diagnostic line to the error stream.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.Err, format+"\n", args...)
}
