package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

// PrintInfo writes an informational line
func PrintInfo(w io.Writer, format string, a ...interface{}) {
	infoColor.Fprintf(w, "i "+format+"\n", a...)
}

// PrintSuccess writes a success line
func PrintSuccess(w io.Writer, format string, a ...interface{}) {
	successColor.Fprintf(w, "ok "+format+"\n", a...)
}

// PrintWarning writes a warning line
func PrintWarning(w io.Writer, format string, a ...interface{}) {
	warningColor.Fprintf(w, "! "+format+"\n", a...)
}

// PrintError writes an error line
func PrintError(w io.Writer, format string, a ...interface{}) {
	errorColor.Fprintf(w, "x "+format+"\n", a...)
}

// PrintHeader writes a section header
func PrintHeader(w io.Writer, format string, a ...interface{}) {
	headerColor.Fprintf(w, format+"\n", a...)
}

func plain(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format, a...)
}
