package app

import (
	"fmt"
	"strings"
	"time"

	"baanmae/internal/domain"
)

// csvHeader is the fixed column order of the lead export.
var csvHeader = []string{"Name", "Phone", "LINE ID", "Villa", "Visit Date", "Message", "Status", "Created"}

const utf8BOM = "\uFEFF"

// BuildLeadsCSV renders the lead list as an Excel-safe CSV: UTF-8 BOM
// prefix (so spreadsheets detect Thai script), CRLF row separators,
// and quoting only for fields containing a comma, a double quote or a
// newline.
func BuildLeadsCSV(leads []domain.LeadWithVilla) string {
	rows := make([]string, 0, len(leads)+1)
	rows = append(rows, strings.Join(csvHeader, ","))
	for _, l := range leads {
		villaName := ""
		if l.Villa != nil {
			villaName = l.Villa.Name
		}
		visit := ""
		if l.VisitDate != nil {
			visit = thaiDate(*l.VisitDate)
		}
		row := []string{
			escapeCSV(l.Name),
			escapeCSV(l.Tel),
			escapeCSV(strDeref(l.LineID)),
			escapeCSV(villaName),
			visit,
			escapeCSV(strDeref(l.Message)),
			string(l.Status),
			thaiDateTime(l.CreatedAt),
		}
		rows = append(rows, strings.Join(row, ","))
	}
	return utf8BOM + strings.Join(rows, "\r\n")
}

// ExportFilename embeds the current date, e.g. leads-2026-08-31.csv.
func ExportFilename(now time.Time) string {
	return "leads-" + now.Format("2006-01-02") + ".csv"
}

// escapeCSV quotes a field, doubling internal quotes, iff it contains
// a comma, a double quote or a newline. Anything else passes through
// untouched so the export round-trips byte-for-byte.
func escapeCSV(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

// thaiDate renders a date the way th-TH short form does: day/month
// with a Buddhist-era year (CE + 543), no zero padding.
func thaiDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year()+543)
}

func thaiDateTime(t time.Time) string {
	return thaiDate(t) + " " + t.Format("15:04:05")
}

func strDeref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
