package cohort

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Report row statuses.
const (
	RowActive  = "ATIVO"
	RowPending = "PENDENTE"
)

type ReportRow struct {
	Matricula     string `json:"matricula"`
	Nome          string `json:"nome"`
	Status        string `json:"status"`
	DataAtivacao  string `json:"data_ativacao"`
	Validade      string `json:"validade"`
	ApprovedCount int    `json:"aprovados"`
}

// Report lists one row per activated account plus one per unused allow-list
// entry: active first, then pending. Consumed-but-unmatched bookkeeping is
// intentionally not reconstructed; the account rows are the activation truth.
func (s *Service) Report(ctx context.Context, cohortID string) ([]ReportRow, error) {
	c, err := s.store.Cohort(ctx, cohortID)
	if err != nil {
		return nil, fmt.Errorf("cohort %s: %w", cohortID, err)
	}
	learners, err := s.store.LearnersByCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.AllowEntries(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	validade := fmt.Sprintf("%d dias", c.ValidityDays)
	if c.ValidityDays > LifetimeSentinel {
		validade = "VITALICIO"
	}

	rows := []ReportRow{}
	for _, l := range learners {
		approved, err := s.store.CountApprovedAttempts(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		v := validade
		if l.ExpiresAt > 0 {
			v = time.Unix(l.ExpiresAt, 0).Format("02/01/2006")
		}
		rows = append(rows, ReportRow{
			Matricula:     l.ID,
			Nome:          l.DisplayName,
			Status:        RowActive,
			DataAtivacao:  time.Unix(l.CreatedAt, 0).Format("02/01/2006"),
			Validade:      v,
			ApprovedCount: approved,
		})
	}
	for _, e := range entries {
		if e.UsedAt != 0 {
			continue
		}
		rows = append(rows, ReportRow{
			Matricula:    e.Code,
			Nome:         "-",
			Status:       RowPending,
			DataAtivacao: "-",
			Validade:     validade,
		})
	}
	return rows, nil
}

// WriteReportCSV writes the cohort report in the export layout the back
// office consumes: semicolon-delimited, names always double-quoted.
func WriteReportCSV(w io.Writer, rows []ReportRow) error {
	if _, err := fmt.Fprintln(w, "Matricula;Nome;Status;Data Ativacao;Validade;Aprovados"); err != nil {
		return err
	}
	for _, r := range rows {
		name := strings.ReplaceAll(r.Nome, `"`, `""`)
		if _, err := fmt.Fprintf(w, "%s;\"%s\";%s;%s;%s;%d\n",
			r.Matricula, name, r.Status, r.DataAtivacao, r.Validade, r.ApprovedCount); err != nil {
			return err
		}
	}
	return nil
}
