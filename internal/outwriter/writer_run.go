package outwriter

import (
	"io"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/schema"
)

// writeRunJSON marshals the run to JSON and writes it.
func writeRunJSON(w io.Writer, out schema.RunOutput) error {
	return writeJSON(w, out.Document())
}

// writeRunCSV writes one `instant<sep>value` line per sample without a header.
// Values keep full precision. When several items are written, each line is
// prefixed with the item name.
func writeRunCSV(w io.Writer, out schema.RunOutput, sep string) error {
	dw := newDelimitedWriter(w, sep)
	multi := len(out.Items) > 1
	for _, r := range out.Items {
		for i := range r.Values {
			instant := formatInstant(r.Instants[i])
			value := contract.FormatExact(r.Values[i])
			if multi {
				dw.Write(r.Item, instant, value)
			} else {
				dw.Write(instant, value)
			}
		}
	}
	return dw.Flush()
}
