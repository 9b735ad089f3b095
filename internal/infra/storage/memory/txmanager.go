package memory

import "context"

// TxManager выполняет функцию без транзакции
// Атомарность обеспечивает Ledger.Create
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
