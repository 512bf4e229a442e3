package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

// traceURLExpiry is how long a presigned archive link stays valid.
const traceURLExpiry int64 = 15 * 60

// TraceArchiver uploads finalized match traces to object storage for audit
// retention. Uploads are best-effort; the database copy of the trace remains
// authoritative. Only the latest archive per invoice is retained.
type TraceArchiver struct {
	storage  port.ObjectStorage
	invoices port.InvoiceRepository
	bucket   string
}

// NewTraceArchiver creates a TraceArchiver writing to the given bucket.
func NewTraceArchiver(storage port.ObjectStorage, invoices port.InvoiceRepository, bucket string) *TraceArchiver {
	return &TraceArchiver{storage: storage, invoices: invoices, bucket: bucket}
}

// archivedTrace is the stored audit document for one finalized run.
type archivedTrace struct {
	InvoiceID      uuid.UUID              `json:"invoice_id"`
	InvoiceNumber  string                 `json:"invoice_number"`
	VendorName     string                 `json:"vendor_name"`
	Status         domain.InvoiceStatus   `json:"status"`
	ReviewCategory *domain.ReviewCategory `json:"review_category,omitempty"`
	ArchivedAt     time.Time              `json:"archived_at"`
	Trace          domain.TraceEntries    `json:"trace"`
}

// Archive serializes the invoice's current trace and uploads it under
// traces/<invoiceID>/<runID>.json, then records the key on the invoice.
// The previous run's archive, if any, is deleted.
func (a *TraceArchiver) Archive(ctx context.Context, inv *domain.Invoice) {
	doc := archivedTrace{
		InvoiceID:      inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		VendorName:     inv.VendorName,
		Status:         inv.Status,
		ReviewCategory: inv.ReviewCategory,
		ArchivedAt:     time.Now().UTC(),
		Trace:          inv.MatchTrace,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		log.Printf("traceArchiver: serializing trace for invoice %s: %v", inv.ID, err)
		return
	}

	key := fmt.Sprintf("traces/%s/%s.json", inv.ID, uuid.New())
	_, err = a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.bucket,
		Key:         key,
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
	})
	if err != nil {
		log.Printf("traceArchiver: uploading trace for invoice %s: %v", inv.ID, err)
		return
	}

	if inv.TraceArchiveKey != nil && *inv.TraceArchiveKey != key {
		if err := a.storage.Delete(ctx, a.bucket, *inv.TraceArchiveKey); err != nil {
			log.Printf("traceArchiver: deleting superseded archive %s: %v", *inv.TraceArchiveKey, err)
		}
	}
	if err := a.invoices.SetTraceArchiveKey(ctx, inv.ID, key); err != nil {
		log.Printf("traceArchiver: recording archive key for invoice %s: %v", inv.ID, err)
		return
	}
	log.Printf("traceArchiver: archived trace for invoice %s at %s", inv.ID, key)
}

// PresignURL returns a short-lived download link for the invoice's archived
// trace. ErrNotFound when no run has been archived yet.
func (a *TraceArchiver) PresignURL(ctx context.Context, inv *domain.Invoice) (string, error) {
	if inv.TraceArchiveKey == nil {
		return "", domain.ErrNotFound
	}
	url, err := a.storage.GetPresignedURL(ctx, a.bucket, *inv.TraceArchiveKey, traceURLExpiry)
	if err != nil {
		return "", fmt.Errorf("traceArchiver: presigning %s: %w", *inv.TraceArchiveKey, err)
	}
	return url, nil
}
