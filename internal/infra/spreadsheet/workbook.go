package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

const SheetName = "Leads"

type column struct {
	title string
	value func(l *entity.Lead) any
}

func field(key string) func(l *entity.Lead) any {
	return func(l *entity.Lead) any { return l.Field(key) }
}

var columns = []column{
	{"Protocolo", func(l *entity.Lead) any { return l.Protocol() }},
	{"Data", func(l *entity.Lead) any { return l.CreatedAt.Format("02/01/2006 15:04") }},
	{"Telefone", func(l *entity.Lead) any { return l.Phone }},
	{"Tipo de atendimento", func(l *entity.Lead) any { return l.ServiceType }},
	{"Status", func(l *entity.Lead) any { return l.Status }},
	{"Atendente", func(l *entity.Lead) any { return l.AttendantName }},
	{"Tipo de viagem", field(usecase.FieldTripType)},
	{"Destino", field(usecase.FieldDestination)},
	{"Cidade de saída", field(usecase.FieldDeparture)},
	{"Período", field(usecase.FieldPeriod)},
	{"Flexibilidade", field(usecase.FieldFlexibility)},
	{"Passageiros", field(usecase.FieldPassengers)},
	{"Idades", field(usecase.FieldAges)},
	{"Orçamento", field(usecase.FieldBudget)},
	{"Preferência", field(usecase.FieldPreference)},
	{"Informações da viagem", field(usecase.FieldTripInfo)},
	{"Observações", func(l *entity.Lead) any { return l.Notes }},
}

func header() []any {
	h := make([]any, len(columns))
	for i, c := range columns {
		h[i] = c.title
	}
	return h
}

func row(l *entity.Lead) []any {
	r := make([]any, len(columns))
	for i, c := range columns {
		r[i] = c.value(l)
	}
	return r
}

func newFile() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	h := header()
	if err := f.SetSheetRow(SheetName, "A1", &h); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return nil, err
	}

	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "A", last, 20); err != nil {
		return nil, err
	}
	return f, nil
}

func writeRow(f *excelize.File, n int, l *entity.Lead) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	r := row(l)
	return f.SetSheetRow(SheetName, cell, &r)
}

// BuildWorkbook gera a planilha completa em memória, na ordem recebida.
func BuildWorkbook(leads []*entity.Lead) ([]byte, error) {
	f, err := newFile()
	if err != nil {
		return nil, fmt.Errorf("erro ao criar planilha: %w", err)
	}
	defer f.Close()

	for i, l := range leads {
		if err := writeRow(f, i+2, l); err != nil {
			return nil, fmt.Errorf("erro ao escrever lead %d: %w", l.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFileName segue o padrão orcamentos-viale-turismo-AAAA-MM-DD.xlsx.
func ExportFileName(date string) string {
	return "orcamentos-viale-turismo-" + date + ".xlsx"
}

// Appender acrescenta cada lead novo numa planilha em disco.
type Appender struct {
	Path string
	mu   sync.Mutex
}

func NewAppender(path string) *Appender {
	return &Appender{Path: path}
}

func (a *Appender) Name() string {
	return "planilha"
}

func (a *Appender) LeadCreated(_ context.Context, lead *entity.Lead) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("erro ao ler planilha: %w", err)
	}
	if err := writeRow(f, len(rows)+1, lead); err != nil {
		return fmt.Errorf("erro ao escrever lead %d: %w", lead.ID, err)
	}

	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(a.Path); err != nil {
		return fmt.Errorf("erro ao salvar planilha: %w", err)
	}
	return nil
}

func (a *Appender) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(a.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return newFile()
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir %s: %w", a.Path, err)
	}
	return f, nil
}
