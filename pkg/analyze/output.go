package analyze

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/taoky/elblog/pkg/util"
)

func (s Summary) String() string {
	return "Processed " + humanize.Comma(int64(s.Records)) + " records (" +
		humanize.Comma(int64(s.Failures)) + " failures) in " +
		humanize.Comma(int64(s.Files)) + " files."
}

// PrintSummary writes the record count line, followed by a breakdown
// table unless brief is set.
func (a *Analyzer) PrintSummary(s Summary, brief bool) error {
	a.logger.Print(s.String())
	if brief {
		return nil
	}

	tableStr := new(strings.Builder)
	table := util.NewTable(tableStr)
	table.Header("Item", "Count")
	rows := [][]string{
		{"Files", humanize.Comma(int64(s.Files))},
		{"Skipped entries", humanize.Comma(int64(s.Skipped))},
		{"Open errors", humanize.Comma(int64(s.OpenErrors))},
		{"Read errors", humanize.Comma(int64(s.ReadErrors))},
		{"Lines", humanize.Comma(int64(s.Lines))},
		{"Records", humanize.Comma(int64(s.Records))},
		{"Failures", humanize.Comma(int64(s.Failures))},
		{"Line bytes", humanize.IBytes(s.Bytes)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	a.logger.Print(tableStr.String())
	return nil
}
