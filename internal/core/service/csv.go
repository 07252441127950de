package service

import (
	"bytes"
	"strconv"
)

// metricRow is one metric,value line of a CSV export. Key order is fixed
// by the caller; exports must enumerate in the metrics object's key order.
type metricRow struct {
	key   string
	value string
}

// renderMetricsCSV renders the two-column metric table with a header and
// a trailing newline after the last data row. The values never contain
// commas or quotes, so no CSV escaping applies.
func renderMetricsCSV(rows []metricRow) []byte {
	var b bytes.Buffer
	b.WriteString("metric,value\n")
	for _, r := range rows {
		b.WriteString(r.key)
		b.WriteByte(',')
		b.WriteString(r.value)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func formatCount(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatValue renders a money sum without a forced decimal point, so
// 135000 stays "135000" rather than "135000.00".
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
