package steps

import (
	"fmt"
	"strconv"

	messages "github.com/cucumber/messages/go/v21"
)

// tableRecords turns a data table into one map per row keyed by the header
func tableRecords(table *messages.PickleTable) ([]map[string]string, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("expected a table with a header row")
	}
	header := table.Rows[0].Cells
	records := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != len(header) {
			return nil, fmt.Errorf("row has %d cells, header has %d", len(row.Cells), len(header))
		}
		record := make(map[string]string, len(header))
		for i, cell := range row.Cells {
			record[header[i].Value] = cell.Value
		}
		records = append(records, record)
	}
	return records, nil
}

func atoi(record map[string]string, column string) (int, error) {
	v, err := strconv.Atoi(record[column])
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	return v, nil
}
