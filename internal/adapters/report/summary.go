package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/okian/zrinyi/internal/domain/model"
)

const (
	statusOK      = "ok"
	statusMissing = "missing"
)

// WriteSummary prints a headline and a table of regions. Colors follow
// color.NoColor, so redirected output stays plain.
func WriteSummary(w io.Writer, regions []model.RegionStatus) {
	var missing, records int
	for _, r := range regions {
		if r.Missing {
			missing++
		}
		records += r.Records
	}

	headline := color.New(color.FgGreen, color.Bold)
	if missing > 0 {
		headline = color.New(color.FgYellow, color.Bold)
	}
	_, _ = headline.Fprintf(w, "\n%d regions, %d missing, %d competitors\n", len(regions), missing, records)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Region", "Name", "Records", "Status"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, r := range regions {
		status := statusOK
		if r.Missing {
			status = statusMissing
			if r.Reason != "" {
				status = fmt.Sprintf("%s: %s", statusMissing, r.Reason)
			}
		}
		table.Append([]string{strconv.Itoa(r.ID), r.Name, strconv.Itoa(r.Records), status})
	}
	table.Render()
}
