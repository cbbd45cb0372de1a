package reports

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakePDFClient struct {
	lastHTML string
}

func (f *fakePDFClient) RenderHTML(_ context.Context, html string) ([]byte, error) {
	f.lastHTML = html
	return []byte("%PDF-1.4 stub"), nil
}

func sampleReport() *Report {
	return &Report{
		Type:        TypeStock,
		Title:       "Stock & Prices Report",
		CompanyName: "Kertai Choronok Milk Center",
		GeneratedAt: fixedNow(),
		Headers:     []string{"ID", "Product Name", "Quantity"},
		Rows: [][]string{
			{"1", "Milk", "100"},
			{"2", "Mursik", "20"},
		},
		Summary: []SummaryItem{
			{Label: "Total Products", Value: "2"},
			{Label: "Total Stock Value", Value: "KES 7900.00"},
		},
	}
}

func TestRenderHTMLLayout(t *testing.T) {
	r, err := NewRenderer(&fakePDFClient{})
	require.NoError(t, err)

	html, err := r.RenderHTML(sampleReport())
	require.NoError(t, err)

	require.Contains(t, html, "Kertai Choronok Milk Center")
	require.Contains(t, html, "Stock &amp; Prices Report")
	require.Contains(t, html, "Generated on: 05 Jun 2025 14:30")
	// thead repeats on page breaks in print rendering
	require.Contains(t, html, "display: table-header-group")
	require.Contains(t, html, "<th>Product Name</th>")
	require.Contains(t, html, "<td>Mursik</td>")
	require.Contains(t, html, "SUMMARY")
	require.Contains(t, html, "KES 7900.00")
	// summary precedes the footer
	require.Less(t, strings.Index(html, "SUMMARY"), strings.Index(html, "system-generated report"))
}

func TestRenderPDFUsesClient(t *testing.T) {
	client := &fakePDFClient{}
	r, err := NewRenderer(client)
	require.NoError(t, err)

	pdf, err := r.RenderPDF(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	require.Contains(t, client.lastHTML, "Mursik")
}

func TestWriteExcelRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteExcel(buf, sampleReport()))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Equal(t, "Kertai Choronok Milk Center", rows[0][0])
	require.Equal(t, []string{"ID", "Product Name", "Quantity"}, rows[4])
	require.Equal(t, []string{"1", "Milk", "100"}, rows[5])

	var summaryFound bool
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "Total Stock Value" && row[1] == "KES 7900.00" {
			summaryFound = true
		}
	}
	require.True(t, summaryFound, "summary rows must be written after the table")
}
