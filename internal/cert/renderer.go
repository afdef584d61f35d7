package cert

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	orgName     = "ATIV BRASIL"
	orgLongName = "Academia de Treinamento e Instrução de Valores — Brasil"
	signerName  = "Marcos V. Teles"
	signerRole  = "Instrutor Responsável — CR 102.345/SP"

	defaultLearnerName = "Aluno ATIV"
	defaultCourseTitle = "Curso ATIV"
)

// page geometry, mm (A4 landscape)
const (
	pageW = 297.0
	pageH = 210.0
	qrX   = 247.0
	qrY   = 155.0
	qrW   = 32.0
)

// Certificate holds everything the fixed template needs.
type Certificate struct {
	LearnerName string
	CourseTitle string
	Code        string
	SkillsText  string
	IssuedAt    time.Time // zero value means "now"
}

// Filename returns the deterministic download name for a certificate code.
func Filename(code string) string {
	return "Certificado_ATIV_" + code + ".pdf"
}

// VerificationURL builds the payload encoded into the certificate QR.
func VerificationURL(base, code string) string {
	return base + "?code=" + url.QueryEscape(code)
}

// Render lays out the certificate and returns the finished PDF. Nothing is
// emitted unless every drawing step succeeds.
func Render(c Certificate, validationBaseURL string) ([]byte, error) {
	name := strings.TrimSpace(c.LearnerName)
	if name == "" {
		name = defaultLearnerName
	}
	title := strings.TrimSpace(c.CourseTitle)
	if title == "" {
		title = defaultCourseTitle
	}
	issued := c.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	qrPNG, err := VerificationPNG(VerificationURL(validationBaseURL, c.Code))
	if err != nil {
		return nil, fmt.Errorf("certificate %s: %w", c.Code, err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// watermark
	pdf.SetFont("Helvetica", "B", 110)
	pdf.SetTextColor(241, 241, 241)
	pdf.TransformBegin()
	pdf.TransformRotate(30, pageW/2, pageH/2)
	pdf.Text(pageW/2-70, pageH/2+15, orgName)
	pdf.TransformEnd()

	// decorative corner marks
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(1.2)
	for _, m := range [][4]float64{
		{10, 10, 30, 10}, {10, 10, 10, 30},
		{pageW - 30, 10, pageW - 10, 10}, {pageW - 10, 10, pageW - 10, 30},
		{10, pageH - 10, 30, pageH - 10}, {10, pageH - 30, 10, pageH - 10},
		{pageW - 30, pageH - 10, pageW - 10, pageH - 10}, {pageW - 10, pageH - 30, pageW - 10, pageH - 10},
	} {
		pdf.Line(m[0], m[1], m[2], m[3])
	}

	// header
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(0, 22)
	pdf.CellFormat(pageW, 10, tr(orgName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(pageW, 6, tr(orgLongName), "", 1, "C", false, 0, "")

	// title
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetXY(0, 48)
	pdf.CellFormat(pageW, 12, tr("CERTIFICADO DE CONCLUSÃO"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetXY(0, 66)
	pdf.CellFormat(pageW, 7, tr("Certificamos que"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetXY(0, 75)
	pdf.CellFormat(pageW, 14, tr(strings.ToUpper(name)), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetXY(0, 92)
	pdf.CellFormat(pageW, 7, tr("concluiu com aproveitamento o curso"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 100)
	pdf.CellFormat(pageW, 10, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")

	// competencies panel
	skills := ParseSkills(c.SkillsText)
	boxX, boxY, boxW := 58.0, 116.0, 181.0
	boxH := 10.0 + 7.0*float64(len(skills))
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.3)
	pdf.Rect(boxX, boxY, boxW, boxH, "D")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(boxX, boxY+2)
	pdf.CellFormat(boxW, 6, tr("Competências desenvolvidas"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i, s := range skills {
		pdf.SetXY(boxX+8, boxY+9+7*float64(i))
		pdf.CellFormat(boxW-16, 6, tr("• "+s), "", 1, "L", false, 0, "")
	}

	// signature block
	sigX, sigY := 38.0, 178.0
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.4)
	pdf.Line(sigX, sigY, sigX+80, sigY)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(sigX, sigY+1)
	pdf.CellFormat(80, 6, tr(signerName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(sigX, sigY+7)
	pdf.CellFormat(80, 5, tr(signerRole), "", 1, "C", false, 0, "")

	// code/date footer
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(0, pageH - 16)
	footer := fmt.Sprintf("Código: %s    Emitido em: %s", c.Code, issued.Format("02/01/2006"))
	pdf.CellFormat(pageW, 5, tr(footer), "", 1, "C", false, 0, "")

	// verification QR
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr-"+c.Code, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr-"+c.Code, qrX, qrY, qrW, qrW, false, opts, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(qrX-4, qrY+qrW+1)
	pdf.CellFormat(qrW+8, 4, tr("Valide este certificado"), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render certificate %s: %w", c.Code, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate %s: %w", c.Code, err)
	}
	return buf.Bytes(), nil
}
