package report

import (
	_ "embed" // template.txt is compiled into the binary
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/gookit/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed template.txt
var templateContent string

var (
	criticalTheme = color.New(color.FgLightWhite, color.BgRed)
	warningTheme  = color.New(color.FgBlack, color.BgYellow)
	noticeTheme   = color.New(color.FgWhite, color.BgBlue)
	cleanTheme    = color.New(color.FgWhite, color.BgBlack)

	percentPrinter = message.NewPrinter(language.English)
)

// WriteText renders a RunReport as a colorized terminal summary. With
// enableColor false, the theme/emphasis functions degrade to plain text,
// for piping into files or non-terminal consumers.
func WriteText(w io.Writer, rr RunReport, enableColor bool) error {
	t, err := template.New("apkguard").Funcs(funcMap(enableColor)).Parse(templateContent)
	if err != nil {
		return err
	}
	return t.Execute(w, rr)
}

func funcMap(enableColor bool) template.FuncMap {
	percent := func(v float64) string {
		return percentPrinter.Sprintf("%.1f%%", v*100)
	}
	join := func(items []string) string {
		return strings.Join(items, ", ")
	}

	if !enableColor {
		return template.FuncMap{
			"highlight": func(level string) string { return level },
			"danger":    fmt.Sprint,
			"notice":    fmt.Sprint,
			"success":   fmt.Sprint,
			"percent":   percent,
			"join":      join,
		}
	}

	return template.FuncMap{
		"highlight": highlight,
		"danger":    color.Danger.Render,
		"notice":    color.Notice.Render,
		"success":   color.Success.Render,
		"percent":   percent,
		"join":      join,
	}
}

func highlight(level string) string {
	switch level {
	case "Critical":
		return criticalTheme.Sprint(level)
	case "Warning":
		return warningTheme.Sprint(level)
	case "Notice":
		return noticeTheme.Sprint(level)
	default:
		return cleanTheme.Sprint(level)
	}
}
