// Package export writes fused lead records to disk as JSON or XLSX.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

// leadColumns is the fixed sheet header. Property columns stay in the
// export even when empty so manual enrichment sheets line up.
var leadColumns = []string{
	"Lead Name", "Designation", "Department",
	"Company Name", "Website", "Email", "Phone", "LinkedIn",
	"City", "Region", "Country", "Locations", "Timezone",
	"Industry Segment", "Industry Type", "Rating", "Review Count",
	"Property Type", "Num Properties", "Num Rooms", "Average Daily Rate",
}

// BatchFileName returns a unique name for a multi-lead export.
func BatchFileName() string {
	return fmt.Sprintf("leads_%s.json", uuid.New().String())
}

// SingleFileName returns a timestamped name for a single-lead export.
func SingleFileName(now time.Time) string {
	return fmt.Sprintf("lead_%s.json", now.UTC().Format("20060102T150405"))
}

// WriteJSON marshals v into dir/name with indentation. The directory is
// created if missing.
func WriteJSON(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "export: marshal")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "export: write %s", path)
	}
	return path, nil
}

// WriteXLSX writes lead records to a single-sheet workbook at dir/name.
func WriteXLSX(dir, name string, leads []model.LeadRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return "", eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range leadColumns {
		header.AddCell().SetString(col)
	}

	for _, lead := range leads {
		row := sheet.AddRow()
		for _, val := range leadRow(lead) {
			row.AddCell().SetString(val)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.Save(path); err != nil {
		return "", eris.Wrapf(err, "export: save %s", path)
	}
	return path, nil
}

func leadRow(l model.LeadRecord) []string {
	return []string{
		l.LeadName, l.Designation, l.Department,
		l.CompanyName, l.Website, l.Email, l.Phone, l.LinkedIn,
		l.City, l.Region, l.Country, l.Locations, l.Timezone,
		l.IndustrySegment, l.IndustryType, l.Rating, l.ReviewCount,
		l.PropertyType, l.NumProperties, l.NumRooms, l.AverageDailyRate,
	}
}

// SafeDownloadName rejects path traversal in client-supplied file names.
func SafeDownloadName(name string) bool {
	if name == "" || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
