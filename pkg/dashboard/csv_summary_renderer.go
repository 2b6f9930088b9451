package dashboard

import (
	"bytes"
	"encoding/csv"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type SummaryRenderer interface {
	RenderSummary(summary Summary) (string, error)
}

type CsvSummaryRendererImpl struct {
}

func NewCsvSummaryRenderer() *CsvSummaryRendererImpl {
	return &CsvSummaryRendererImpl{}
}

func (r *CsvSummaryRendererImpl) RenderSummary(summary Summary) (string, error) {
	data := make([][]string, 0, len(summary.ByCategory)+5)
	data = append(data, []string{"Category", "Amount", "Share"})
	for _, total := range summary.ByCategory {
		data = append(data, []string{total.Category.Label(), total.Amount.String(), fmt.Sprintf("%.2f", total.Share*100)})
	}
	data = append(data, []string{"Total", summary.Total.String(), totalShare(summary)})
	if summary.HasDays {
		data = append(data,
			[]string{"Last day " + summary.LastDay.Format("02/01/2006"), summary.LastDayTotal.String(), ""},
			[]string{"Previous day " + summary.PreviousDay.Format("02/01/2006"), summary.PreviousDayTotal.String(), ""},
		)
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func totalShare(summary Summary) string {
	if summary.Count == 0 {
		return "0.00"
	}
	return "100.00"
}
