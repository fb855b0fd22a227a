package leads

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/silahub/site/internal/domain"
)

var csvHeader = []string{"Name", "Email", "Phone", "Business", "Source", "Status", "Created Date"}

// WriteCSV writes leads as a CSV document with a header row. Created Date
// is the UTC calendar day of submission.
func WriteCSV(w io.Writer, leads []domain.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, l := range leads {
		row := []string{
			l.Name,
			l.Email,
			l.Phone,
			l.Business,
			l.Source,
			string(l.Status),
			l.CreatedAt.UTC().Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write lead %s: %w", l.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
