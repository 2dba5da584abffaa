package cmd

import (
	"fmt"
	"io"

	"github.com/oakwood-commons/combox/internal/config"
)

// outputRaw prints bare values instead of a document.
const outputRaw = "raw"

// render writes v as a yaml, json or toml document.
func render(w io.Writer, v any, format string) error {
	out, err := config.Marshal(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// renderOrRaw writes v as a document, or raw when format is raw.
func renderOrRaw(w io.Writer, v any, raw string, format string) error {
	if format != outputRaw {
		return render(w, v, format)
	}
	_, err := fmt.Fprint(w, raw)
	return err
}
