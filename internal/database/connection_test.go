package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubConnPool — заглушка пула соединений; сравнивается по указателю.
type stubConnPool struct{}

func (*stubConnPool) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, nil
}

func (*stubConnPool) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (*stubConnPool) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (*stubConnPool) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func newStubGormDB(pool gorm.ConnPool) *gorm.DB {
	gormDB := &gorm.DB{Config: &gorm.Config{ConnPool: pool}}
	gormDB.Statement = &gorm.Statement{DB: gormDB, ConnPool: pool}
	return gormDB
}

func TestSwapPool_SharedHandleSeesNewPool(t *testing.T) {
	oldPool := &stubConnPool{}
	newPool := &stubConnPool{}

	gormDB := newStubGormDB(oldPool)
	// Репозитории захватывают тот же указатель при старте процесса
	heldByRepository := gormDB

	swapPool(gormDB, newPool)

	require.Same(t, gormDB, heldByRepository)
	require.Same(t, gorm.ConnPool(newPool), heldByRepository.Config.ConnPool)
	require.Same(t, gorm.ConnPool(newPool), heldByRepository.Statement.ConnPool)
}

func TestSwapPool_NilStatement(t *testing.T) {
	pool := &stubConnPool{}
	gormDB := &gorm.DB{Config: &gorm.Config{}}

	swapPool(gormDB, pool)

	require.Same(t, gorm.ConnPool(pool), gormDB.Config.ConnPool)
}
