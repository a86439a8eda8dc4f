package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "github.com/BINABASS091/fugajiSmart-back/internal/core/context"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/reconcile"
)

// AuditAction represents the type of audited operation.
type AuditAction string

const (
	AuditActionLedgerAppend AuditAction = "ledger_append"
	AuditActionAlertResolve AuditAction = "alert_resolve"
)

// CompressionAlgo specifies the compression algorithm used on the payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is a single audit log row in sys_audit_log.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            AuditAction     `db:"action"`
	UserID            string          `db:"user_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService writes audit rows, compressing large payloads with zstd. It
// implements the audit hooks of the ledger and reconciliation services.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var (
	_ ledger.AuditRecorder    = (*AuditService)(nil)
	_ reconcile.AuditRecorder = (*AuditService)(nil)
)

func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// RecordLedgerAppend logs a successful ledger append with the resulting
// item quantity.
func (s *AuditService) RecordLedgerAppend(ctx context.Context, tx *ledger.Transaction, newQuantity types.Quantity) error {
	payload, err := json.Marshal(map[string]any{
		"transaction": tx,
		"newQuantity": newQuantity,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	return s.log(ctx, AuditEntry{
		EntityType: "transaction",
		EntityID:   tx.ID,
		Action:     AuditActionLedgerAppend,
		Payload:    payload,
	})
}

// RecordAlertResolution logs an alert resolution.
func (s *AuditService) RecordAlertResolution(ctx context.Context, alert *reconcile.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	return s.log(ctx, AuditEntry{
		EntityType: "alert",
		EntityID:   alert.ID,
		Action:     AuditActionAlertResolve,
		Payload:    payload,
	})
}

func (s *AuditService) log(ctx context.Context, entry AuditEntry) error {
	if fc := appctx.GetFarmer(ctx); fc != nil {
		entry.UserID = fc.UserID
	}
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.CompressionAlgo = CompressionZstd
		entry.Payload = nil
	}

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit_log (id, entity_type, entity_id, action, user_id, payload, payload_compressed, compression_algo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.UserID,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// DecodePayload returns the uncompressed payload of an entry.
func (s *AuditService) DecodePayload(entry AuditEntry) (json.RawMessage, error) {
	if entry.CompressionAlgo != CompressionZstd {
		return entry.Payload, nil
	}
	out, err := s.decoder.DecodeAll(entry.PayloadCompressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress audit payload: %w", err)
	}
	return out, nil
}
