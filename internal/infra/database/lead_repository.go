package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

const pgUndefinedTable = "42P01"

const leadColumns = `id, phone, status, tipo_atendimento, atendente_id, atendente_nome, atendente_numero, fields, notes, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l      entity.Lead
		fields []byte
	)
	err := row.Scan(
		&l.ID,
		&l.Phone,
		&l.Status,
		&l.ServiceType,
		&l.AttendantID,
		&l.AttendantName,
		&l.AttendantNumber,
		&fields,
		&l.Notes,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Fields = map[string]string{}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &l.Fields); err != nil {
			return nil, fmt.Errorf("fields inválido no lead %d: %w", l.ID, err)
		}
	}
	return &l, nil
}

func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrLeadNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%s: tabela leads não existe, rode o comando migrate: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead.Status == "" {
		lead.Status = entity.StatusNew
	}
	if lead.ServiceType == "" {
		lead.ServiceType = entity.ServiceQuote
	}
	if lead.Fields == nil {
		lead.Fields = map[string]string{}
	}

	fields, err := json.Marshal(lead.Fields)
	if err != nil {
		return fmt.Errorf("erro ao serializar fields: %w", err)
	}

	query := `
		INSERT INTO leads (phone, status, tipo_atendimento, atendente_id, atendente_nome, atendente_numero, fields, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err = r.DB.QueryRowContext(ctx, query,
		lead.Phone,
		lead.Status,
		lead.ServiceType,
		lead.AttendantID,
		lead.AttendantName,
		lead.AttendantNumber,
		fields,
		lead.Notes,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return wrapErr("erro ao inserir lead", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	l, err := scanLead(row)
	if err != nil {
		return nil, wrapErr("erro ao buscar lead", err)
	}
	return l, nil
}

func (r *LeadRepository) FindByPhone(ctx context.Context, phone string) ([]*entity.Lead, error) {
	return r.List(ctx, entity.LeadFilter{Phone: phone})
}

// buildListQuery monta o SELECT com os filtros preenchidos.
func buildListQuery(filter entity.LeadFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, column+" = $"+strconv.Itoa(len(args)))
	}
	add("status", filter.Status)
	add("tipo_atendimento", filter.ServiceType)
	add("atendente_id", filter.AttendantID)
	add("phone", filter.Phone)

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return query, args
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	query, args := buildListQuery(filter)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("erro ao listar leads", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, wrapErr("erro ao ler lead", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("erro ao listar leads", err)
	}
	return leads, nil
}

func (r *LeadRepository) updateReturning(ctx context.Context, op, set string, args ...any) (*entity.Lead, error) {
	query := `UPDATE leads SET ` + set + `, updated_at = NOW() WHERE id = $1 RETURNING ` + leadColumns
	l, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return l, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status string) (*entity.Lead, error) {
	return r.updateReturning(ctx, "erro ao atualizar status", `status = $2`, id, status)
}

func (r *LeadRepository) UpdateAssignment(ctx context.Context, id int64, a entity.Attendant) (*entity.Lead, error) {
	return r.updateReturning(ctx, "erro ao atribuir atendente",
		`atendente_id = $2, atendente_nome = $3, atendente_numero = $4`,
		id, a.ID, a.Name, a.Number)
}

func (r *LeadRepository) UpdateNotes(ctx context.Context, id int64, notes string) (*entity.Lead, error) {
	return r.updateReturning(ctx, "erro ao atualizar notas", `notes = $2`, id, notes)
}
