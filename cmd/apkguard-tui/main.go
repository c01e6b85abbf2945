// Command apkguard-tui is a read-only terminal browser for an apkguard
// JSON report: a list of matched crimes on the left, full evidence for
// the selected one on the right.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/apkguard/apkguard/report"
)

var flagReport = flag.String("report", "", "Path to a JSON report produced by apkguard")

func main() {
	flag.Parse()
	if *flagReport == "" {
		fmt.Fprintln(os.Stderr, "apkguard-tui: -report is required")
		os.Exit(1)
	}

	rr, err := loadReport(*flagReport)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apkguard-tui: %v\n", err)
		os.Exit(1)
	}

	if err := browse(rr); err != nil {
		fmt.Fprintf(os.Stderr, "apkguard-tui: %v\n", err)
		os.Exit(1)
	}
}

func loadReport(path string) (report.RunReport, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied report path
	if err != nil {
		return report.RunReport{}, err
	}
	var rr report.RunReport
	if err := json.Unmarshal(data, &rr); err != nil {
		return report.RunReport{}, err
	}
	return rr, nil
}

func browse(rr report.RunReport) error {
	app := tview.NewApplication()

	list := tview.NewList().ShowSecondaryText(true)
	detail := tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	detail.SetBorder(true).SetTitle("Evidence")

	for i := range rr.Crimes {
		c := rr.Crimes[i]
		list.AddItem(c.Crime, fmt.Sprintf("[%s] confidence %.0f%%", c.Level, c.Confidence*100), 0, func() {
			detail.SetText(renderDetail(c))
		})
	}
	list.SetBorder(true).SetTitle(fmt.Sprintf("%s (%d crimes)", rr.Filename, len(rr.Crimes)))

	if len(rr.Crimes) > 0 {
		detail.SetText(renderDetail(rr.Crimes[0]))
	} else {
		detail.SetText("No matched crimes.")
	}

	flex := tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(detail, 0, 2, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(flex, true).SetFocus(list).Run()
}

func renderDetail(c report.CrimeReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]%s[white]\n\n", c.Crime)
	fmt.Fprintf(&b, "level:      %s\n", c.Level)
	fmt.Fprintf(&b, "confidence: %.0f%%\n", c.Confidence*100)
	fmt.Fprintf(&b, "score:      %.2f\n", c.Score)
	fmt.Fprintf(&b, "stages:     permission=%t either-api=%t both-api=%t sequence=%t same-param=%t\n",
		c.CheckItem[0], c.CheckItem[1], c.CheckItem[2], c.CheckItem[3], c.CheckItem[4])
	if len(c.MutualParents) > 0 {
		fmt.Fprintf(&b, "parents:    %s\n", strings.Join(c.MutualParents, ", "))
	}
	if c.Narration != "" {
		fmt.Fprintf(&b, "\n%s\n", c.Narration)
	}
	return b.String()
}
