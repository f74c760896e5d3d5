package database

import (
	"context"
	"database/sql"
	"fmt"
)

// StatusChannel é o canal NOTIFY disparado quando o status de um lead muda.
const StatusChannel = "lead_status"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id               BIGSERIAL PRIMARY KEY,
		phone            TEXT        NOT NULL,
		status           TEXT        NOT NULL DEFAULT 'Novo',
		tipo_atendimento TEXT        NOT NULL DEFAULT 'Orçamento',
		atendente_id     TEXT        NOT NULL DEFAULT '',
		atendente_nome   TEXT        NOT NULL DEFAULT '',
		atendente_numero TEXT        NOT NULL DEFAULT '',
		fields           JSONB       NOT NULL DEFAULT '{}'::jsonb,
		notes            TEXT        NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_phone ON leads (phone)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC)`,
	`CREATE OR REPLACE FUNCTION notify_lead_status() RETURNS trigger AS $$
	BEGIN
		IF NEW.status IS DISTINCT FROM OLD.status THEN
			PERFORM pg_notify('` + StatusChannel + `', json_build_object('id', NEW.id, 'status', NEW.status)::text);
		END IF;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS leads_status_notify ON leads`,
	`CREATE TRIGGER leads_status_notify
		AFTER UPDATE OF status ON leads
		FOR EACH ROW EXECUTE FUNCTION notify_lead_status()`,
}

// Migrate é idempotente; roda tudo numa transação.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar migração: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro na migração %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao confirmar migração: %w", err)
	}
	return nil
}
