package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Database struct {
	db  *pgxpool.Pool
	dsn string
}

// DBExecutor: общий интерфейс пула и транзакции pgx.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Tx: операции, доступные внутри единицы работы жизненного цикла заявки.
// Все проверки статуса выполняются после LockOrder, который берет
// блокировку строки заявки до конца транзакции.
type Tx interface {
	CreateOrder(ctx context.Context, order OrderDB) (*OrderDB, error)
	LockOrder(ctx context.Context, orderID int64) (*OrderDB, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatusDB) error
	UpdateOrderDriver(ctx context.Context, orderID int64, driverID string) error
	UpdateOrderMeasurement(ctx context.Context, orderID int64, weight decimal.Decimal, amount int64) error

	InsertAuditEntry(ctx context.Context, entry AuditEntryDB) error

	FindPaymentByOrder(ctx context.Context, orderID int64) (*PaymentDB, error)
	CreatePayment(ctx context.Context, payment PaymentDB) (*PaymentDB, error)
	UpdatePayment(ctx context.Context, payment PaymentDB) error

	FindActivePaymentMethod(ctx context.Context, ownerID string, methodType *models.PaymentMethodType) (*PaymentMethodDB, error)
}

//go:embed migrations/*
var migrationsFS embed.FS // Встраивание файлов миграций

// checkConnection проверяет доступность базы данных с использованием пулa подключений.
func checkConnection(ctx context.Context, db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	return nil
}

// New создает новый экземпляр Database, устанавливает соединение и проверяет его.
func New(ctx context.Context, dsn string) (*Database, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пула подключений: %w", err)
	}

	if err := checkConnection(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db, dsn: dsn}, nil
}

// Ping используется проверкой здоровья сервиса.
func (d *Database) Ping(ctx context.Context) error {
	return checkConnection(ctx, d.db)
}

// RunMigrations выполняет миграции базы данных с использованием встроенных файлов миграций.
func (d *Database) RunMigrations() error {
	driver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("не удалось создать источник миграций: %w", err)
	}

	migrations, err := migrate.NewWithSourceInstance("iofs", driver, d.dsn)
	if err != nil {
		return fmt.Errorf("не удалось инициализировать миграции: %w", err)
	}

	err = migrations.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("Новых миграций не найдено")
			return nil
		}
		return fmt.Errorf("ошибка при выполнении миграций: %w", err)
	}

	log.Println("Миграции успешно применены")
	return nil
}

// InTx выполняет fn в одной транзакции: коммит при nil, откат при ошибке или панике.
func (d *Database) InTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	pgTx, err := d.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = pgTx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = pgTx.Rollback(ctx)
		}
	}()

	if err = fn(&txQueries{q: pgTx}); err != nil {
		return err
	}

	if err = pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}

	return nil
}

// txQueries реализует Tx поверх pgx.Tx.
type txQueries struct {
	q DBExecutor
}

// Close закрывает пул подключений к базе данных.
func (d *Database) Close() {
	if d.db != nil {
		d.db.Close()
	}
}
