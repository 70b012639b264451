package storage

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

// DB representa a conexão com o banco de dados PostgreSQL.
type DB struct {
	conn
	db  *sqlx.DB
	log *zap.SugaredLogger
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName string, log *zap.SugaredLogger) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Info("Conexão com PostgreSQL estabelecida com sucesso.")

	if err := runMigrations(db.DB, log); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{conn: conn{ext: db}, db: db, log: log}, nil
}

// Close encerra a conexão com o banco.
func (d *DB) Close() error {
	return d.db.Close()
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB, log *zap.SugaredLogger) error {
	migrations := &migrate.FileMigrationSource{
		Dir: "./storage/migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Infof("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Info("Nenhuma migração nova para aplicar.")
	}
	return nil
}
