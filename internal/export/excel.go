// Package export renders the schedule state into an Excel workbook for
// the admin download: the Thai holiday calendar for a year, the explicit
// overrides, and the standard weekly hours.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"labstatus/internal/model"
)

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// sheetWriter wraps excelize with a simple cursor-per-sheet API.
type sheetWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func newSheetWriter() *sheetWriter {
	return &sheetWriter{file: excelize.NewFile()}
}

func (w *sheetWriter) addSheet(name string) error {
	// Excel caps sheet names at 31 chars.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *sheetWriter) writeHeader(columns []string) error {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	headerRow := w.currentRow
	if err := w.writeRow(row); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, headerRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), headerRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}
	return nil
}

func (w *sheetWriter) writeRow(row []any) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

// CalendarWorkbook writes the year's calendar workbook to wr.
func CalendarWorkbook(wr io.Writer, year int, holidays []model.Holiday, overrides []model.HourException, hours map[int][]model.TimeRange) error {
	w := newSheetWriter()
	defer w.file.Close()

	if err := writeHolidaySheet(w, year, holidays); err != nil {
		return err
	}
	if err := writeOverrideSheet(w, overrides); err != nil {
		return err
	}
	if err := writeWeeklySheet(w, hours); err != nil {
		return err
	}

	return w.file.Write(wr)
}

func writeHolidaySheet(w *sheetWriter, year int, holidays []model.Holiday) error {
	if err := w.addSheet(fmt.Sprintf("Holidays %d", year)); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Date", "Name (EN)", "Name (TH)", "Type", "Affects business", "Approximate"}); err != nil {
		return err
	}
	for _, h := range holidays {
		err := w.writeRow([]any{
			h.Date.Format("2006-01-02"),
			h.Names.EN,
			h.Names.TH,
			string(h.Type),
			h.AffectsBusiness,
			h.Approximate,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeOverrideSheet(w *sheetWriter, overrides []model.HourException) error {
	if err := w.addSheet("Overrides"); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Date", "Closed", "Windows", "Note"}); err != nil {
		return err
	}
	for _, exc := range overrides {
		err := w.writeRow([]any{
			exc.Date.Format("2006-01-02"),
			exc.Closed,
			formatWindows(exc.Windows),
			exc.Note,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeWeeklySheet(w *sheetWriter, hours map[int][]model.TimeRange) error {
	if err := w.addSheet("Weekly hours"); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Weekday", "Windows"}); err != nil {
		return err
	}
	for weekday, name := range weekdayNames {
		windows := formatWindows(hours[weekday])
		if windows == "" {
			windows = "closed"
		}
		if err := w.writeRow([]any{name, windows}); err != nil {
			return err
		}
	}
	return nil
}

func formatWindows(windows []model.TimeRange) string {
	parts := make([]string, len(windows))
	for i, r := range windows {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
