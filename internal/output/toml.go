package output

import (
	"bytes"

	"github.com/pelletier/go-toml/v2"
)

// TOMLFormatter formats reports as TOML.
type TOMLFormatter struct{}

// Format implements Formatter. Links become [[links]] tables.
func (*TOMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(newReportView(report)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
