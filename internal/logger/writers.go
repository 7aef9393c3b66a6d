package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// formatWriter wraps output so events are rendered in format. Only the
// console format is ever colored.
func formatWriter(format LogFormat, output io.Writer, color bool) io.Writer {
	switch format {
	case FormatJSON:
		return output
	case FormatText:
		return zerolog.ConsoleWriter{
			Out:         output,
			NoColor:     true,
			TimeFormat:  time.DateTime,
			FormatLevel: textLevel,
		}
	default:
		return zerolog.ConsoleWriter{
			Out:        output,
			NoColor:    !color,
			TimeFormat: time.RFC3339,
		}
	}
}

// textLevel renders the full level name, padded so messages line up.
func textLevel(i interface{}) string {
	level, _ := i.(string)
	if level == "" {
		level = "???"
	}
	return fmt.Sprintf("%-5s", strings.ToUpper(level))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
