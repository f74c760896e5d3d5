package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(entity.LeadFilter{})
	assert.Equal(t, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id DESC`, query)
	assert.Empty(t, args)

	query, args = buildListQuery(entity.LeadFilter{Status: entity.StatusNew, Phone: "5562900000000"})
	assert.Contains(t, query, `WHERE status = $1 AND phone = $2`)
	assert.Equal(t, []any{entity.StatusNew, "5562900000000"}, args)

	query, args = buildListQuery(entity.LeadFilter{ServiceType: entity.ServiceQuote, AttendantID: "milene"})
	assert.Contains(t, query, `WHERE tipo_atendimento = $1 AND atendente_id = $2`)
	assert.Len(t, args, 2)
}

func TestWrapErr(t *testing.T) {
	assert.ErrorIs(t, wrapErr("buscar", sql.ErrNoRows), entity.ErrLeadNotFound)

	undefined := &pgconn.PgError{Code: pgUndefinedTable, Message: `relation "leads" does not exist`}
	err := wrapErr("listar", undefined)
	assert.Contains(t, err.Error(), "migrate")

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
}

type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *string:
			*p = r.values[i].(string)
		case *[]byte:
			*p = r.values[i].([]byte)
		}
	}
	return nil
}

func TestScanLeadDecodesFields(t *testing.T) {
	row := fakeRow{values: []any{
		int64(9), "5562900000000", entity.StatusNew, entity.ServiceQuote,
		"milene", "Milene", "5562991989622",
		[]byte(`{"destino":"Paris","num_passageiros":"2"}`),
		"", nil, nil,
	}}

	l, err := scanLead(row)

	assert.NoError(t, err)
	assert.Equal(t, int64(9), l.ID)
	assert.Equal(t, "Paris", l.Field("destino"))
	assert.Equal(t, "2", l.Field("num_passageiros"))
}

func TestScanLeadInvalidJSON(t *testing.T) {
	row := fakeRow{values: []any{
		int64(9), "", "", "", "", "", "", []byte(`{`), "", nil, nil,
	}}

	_, err := scanLead(row)
	assert.Error(t, err)
}
