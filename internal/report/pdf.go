// Package report renders a printable summary of one dispatch run. The
// canonical report stays the plain stderr capture; the PDF is an optional
// companion artifact.
package report

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/runcheck/internal/dispatch"
)

// WritePDF renders a one-page summary of the outcome to path.
func WritePDF(path string, out dispatch.Outcome, ranAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("runcheck report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "runcheck run summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Run at: "+ranAt.UTC().Format(time.RFC3339))
	pdf.Ln(8)

	writeStep(pdf, out.Task)
	writeStep(pdf, out.Verify)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Report file: %s (%d bytes of verifier stderr)", out.ReportPath, out.ReportBytes))
	pdf.Ln(8)

	if out.StderrTail != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Verifier stderr excerpt")
		pdf.Ln(8)
		pdf.SetFont("Courier", "", 8)
		excerpt := out.StderrTail
		if out.StderrTruncated {
			excerpt += "\n[truncated; see report file]"
		}
		pdf.MultiCell(0, 4, excerpt, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

func writeStep(pdf *gofpdf.Fpdf, res dispatch.Result) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Step %s", res.Step))
	pdf.Ln(8)
	pdf.SetFont("Courier", "", 9)
	pdf.MultiCell(0, 5, "argv: "+fmt.Sprintf("%q", res.Argv), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	status := "ok"
	if res.ExitCode != 0 {
		status = "failed"
	}
	line := fmt.Sprintf("exit %d (%s), %d ms", res.ExitCode, status, res.Duration.Milliseconds())
	if res.Err != nil {
		line += " - " + res.Err.Error()
	}
	pdf.MultiCell(0, 5, line, "", "L", false)
	pdf.Ln(4)
}
