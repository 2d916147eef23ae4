// Package export renders the donor list as CSV.
package export

import (
	"bufio"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"

	"bloodlink/internal/domain"
)

// Header is the first line of every export.
var Header = []string{"Name", "Phone", "Blood Type", "Location", "City", "Registered"}

// CSVWriter writes every field wrapped in double quotes and separates rows
// with "\n". Embedded quotes are left as-is unless EscapeQuotes is set, in
// which case they are doubled.
type CSVWriter struct {
	EscapeQuotes bool
	// Location is the zone used for the Registered column. Nil means UTC.
	Location *time.Location
}

// Write emits the header followed by one row per donor in input order.
func (c CSVWriter) Write(w io.Writer, donors []domain.Donor, locale language.Tag) error {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := ShortDateLayout(locale)

	bw := bufio.NewWriter(w)
	if err := c.writeRow(bw, Header); err != nil {
		return err
	}
	for _, d := range donors {
		registered := ""
		if !d.CreatedAt.IsZero() {
			registered = d.CreatedAt.In(loc).Format(layout)
		}
		row := []string{
			d.FirstName,
			d.Phone,
			d.BloodType.String(),
			d.Location(),
			d.CityName(),
			registered,
		}
		if err := c.writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Filename is the attachment name used by the download endpoint.
func Filename() string { return "donors.csv" }

func (c CSVWriter) writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if c.EscapeQuotes {
			f = strings.ReplaceAll(f, `"`, `""`)
		}
		if _, err := w.WriteString(`"` + f + `"`); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
