package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	wroteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	kindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func WroteLine(w io.Writer, path string, size int) {
	fmt.Fprintln(w, wroteStyle.Render("wrote")+"  "+path+" "+faintStyle.Render("("+humanize.Bytes(uint64(size))+")"))
}

func WarningLine(w io.Writer, source, msg string) {
	fmt.Fprintln(w, warnStyle.Render("warn")+"   "+faintStyle.Render(source)+"  "+msg)
}

func FailLine(w io.Writer, source string, err error) {
	fmt.Fprintln(w, failStyle.Render("fail")+"   "+source+"  "+err.Error())
}

func SummaryLine(w io.Writer, files, warnings int) {
	fmt.Fprintf(w, "converted %d %s, %d %s\n",
		files, plural(files, "file", "files"), warnings, plural(warnings, "warning", "warnings"))
}

// OutlineLine prints one node of a tree outline, indented by depth.
func OutlineLine(w io.Writer, depth int, kind, detail string) {
	line := strings.Repeat("  ", depth) + kindStyle.Render(kind)
	if detail != "" {
		line += "  " + faintStyle.Render(detail)
	}
	fmt.Fprintln(w, line)
}

func AnchorLine(w io.Writer, level int, slug, text string, slugWidth int) {
	fmt.Fprintf(w, "%s  %-*s  %s\n", faintStyle.Render(strings.Repeat("#", level)), slugWidth, "#"+slug, text)
}

func CacheRow(w io.Writer, source, mime string, size int64, hits int, fetched time.Time, sourceWidth, mimeWidth int) {
	fmt.Fprintf(w, "%-*s  %-*s  %8s  %4d  %s\n",
		sourceWidth, source,
		mimeWidth, mime,
		humanize.Bytes(uint64(size)),
		hits,
		faintStyle.Render(humanize.Time(fetched)),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
