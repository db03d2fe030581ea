package inventory

import (
	"context"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela antes del Commit) todo se revierte.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		ledger repository.StockLedger,
		productRepo repository.ProductRepository,
	) error) error
}

// Resultados de un posteo para métricas.
const (
	ResultPosted    = "posted"
	ResultRejected  = "rejected"
	ResultRetryable = "retryable"
	ResultError     = "error"
)

// PostingMetrics registra el resultado y la duración de cada posteo.
type PostingMetrics interface {
	ObservePost(kind entity.MovementKind, result string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObservePost(entity.MovementKind, string, time.Duration) {}
