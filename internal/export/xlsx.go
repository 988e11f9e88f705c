package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"logframe-studio/internal/domain"
)

func renderXLSX(p *domain.Project) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const overview = "Overview"
	if err := f.SetSheetName("Sheet1", overview); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Name", p.Name},
		{"Description", p.Description},
		{"Organization", p.Organization},
		{"Status", string(p.Status)},
		{"Progress", fmt.Sprintf("%d%%", p.Progress)},
		{"Current step", p.CurrentStep},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(overview, cell, &r); err != nil {
			return nil, err
		}
	}

	if len(p.Data.Stakeholders) > 0 {
		if err := writeSheet(f, "Stakeholders",
			[]any{"Name", "Category", "Interest", "Influence", "Expectations"},
			func(add func(...any)) {
				for _, s := range p.Data.Stakeholders {
					add(s.Name, s.Category, s.Interest, s.Influence, s.Expectations)
				}
			}); err != nil {
			return nil, err
		}
	}
	if len(p.Data.Logframe) > 0 {
		if err := writeSheet(f, "Logframe",
			[]any{"Level", "Summary", "Indicators", "Means of Verification", "Assumptions"},
			func(add func(...any)) {
				for _, r := range p.Data.Logframe {
					add(r.Level, r.Summary, r.Indicators, r.Verification, r.Assumptions)
				}
			}); err != nil {
			return nil, err
		}
	}
	if len(p.Data.Monitoring) > 0 {
		if err := writeSheet(f, "Monitoring",
			[]any{"Indicator", "Baseline", "Target", "Frequency", "Responsible", "Data Source"},
			func(add func(...any)) {
				for _, m := range p.Data.Monitoring {
					add(m.Name, m.Baseline, m.Target, m.Frequency, m.Responsible, m.DataSource)
				}
			}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, header []any, fill func(add func(...any))) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	row := 1
	var firstErr error
	fill(func(vals ...any) {
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(name, cell, &vals); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}
