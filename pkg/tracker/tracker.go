package tracker

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"wikigate/pkg/db"
)

// Transaction is a single charge recorded against an entrypoint call.
type Transaction struct {
	ID         string    `json:"id"`
	Entrypoint string    `json:"entrypoint"`
	Fee        int64     `json:"fee"`
	Caller     string    `json:"caller,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EntrypointStats holds metrics for a single entrypoint.
// Fields are accessed atomically.
type EntrypointStats struct {
	Calls   int64
	Errors  int64
	Revenue int64
}

// ProviderStats holds upstream call counters for a single provider.
// Fields are accessed atomically.
type ProviderStats struct {
	APISuccess  int64
	APIFailures int64
}

// Tracker records entrypoint charges and usage statistics. The transaction
// ledger is persisted through pkg/db when a database is provided; without one
// the ledger lives in memory only (tests, dry runs).
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*EntrypointStats

	provMu    sync.RWMutex
	providers map[string]*ProviderStats

	ledger *db.DB

	memMu sync.Mutex
	mem   []Transaction

	subMu sync.Mutex
	subs  map[chan Transaction]struct{}
}

// New creates a new Tracker. d may be nil for in-memory operation.
func New(d *db.DB) *Tracker {
	return &Tracker{
		stats:     make(map[string]*EntrypointStats),
		providers: make(map[string]*ProviderStats),
		ledger:    d,
		subs:      make(map[chan Transaction]struct{}),
	}
}

// getStats returns the stats object for an entrypoint, creating it if needed.
func (t *Tracker) getStats(entrypoint string) *EntrypointStats {
	t.mu.RLock()
	s, ok := t.stats[entrypoint]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[entrypoint]; ok {
		return s
	}
	s = &EntrypointStats{}
	t.stats[entrypoint] = s
	return s
}

// Record stores a transaction and updates the entrypoint's counters.
// ID and CreatedAt are filled in when empty.
func (t *Tracker) Record(ctx context.Context, tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	if tx.Status == "" {
		tx.Status = "charged"
	}

	if t.ledger != nil {
		_, err := t.ledger.ExecContext(ctx,
			"INSERT INTO transactions (id, entrypoint, fee, caller, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			tx.ID, tx.Entrypoint, tx.Fee, tx.Caller, tx.Status,
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
		)
		if err != nil {
			return tx, fmt.Errorf("failed to persist transaction: %w", err)
		}
	} else {
		t.memMu.Lock()
		t.mem = append(t.mem, tx)
		t.memMu.Unlock()
	}

	// Counters move only once the ledger row is in, so analytics never
	// show a charge the ledger does not hold
	s := t.getStats(tx.Entrypoint)
	atomic.AddInt64(&s.Calls, 1)
	atomic.AddInt64(&s.Revenue, tx.Fee)

	t.notify(tx)
	return tx, nil
}

// TrackError increments the error counter for an entrypoint.
func (t *Tracker) TrackError(entrypoint string) {
	atomic.AddInt64(&t.getStats(entrypoint).Errors, 1)
}

// getProvider returns the counters for an upstream provider, creating them
// if needed.
func (t *Tracker) getProvider(provider string) *ProviderStats {
	t.provMu.RLock()
	s, ok := t.providers[provider]
	t.provMu.RUnlock()
	if ok {
		return s
	}

	t.provMu.Lock()
	defer t.provMu.Unlock()
	// Double check
	if s, ok = t.providers[provider]; ok {
		return s
	}
	s = &ProviderStats{}
	t.providers[provider] = s
	return s
}

// TrackAPISuccess increments the success counter for an upstream provider.
func (t *Tracker) TrackAPISuccess(provider string) {
	atomic.AddInt64(&t.getProvider(provider).APISuccess, 1)
}

// TrackAPIFailure increments the failure counter for an upstream provider.
func (t *Tracker) TrackAPIFailure(provider string) {
	atomic.AddInt64(&t.getProvider(provider).APIFailures, 1)
}

// ProviderSnapshot returns a copy of the per-provider upstream counters.
func (t *Tracker) ProviderSnapshot() map[string]ProviderStats {
	t.provMu.RLock()
	defer t.provMu.RUnlock()

	result := make(map[string]ProviderStats)
	for k, v := range t.providers {
		result[k] = ProviderStats{
			APISuccess:  atomic.LoadInt64(&v.APISuccess),
			APIFailures: atomic.LoadInt64(&v.APIFailures),
		}
	}
	return result
}

// Snapshot returns a copy of the current per-entrypoint stats.
func (t *Tracker) Snapshot() map[string]EntrypointStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]EntrypointStats)
	for k, v := range t.stats {
		result[k] = EntrypointStats{
			Calls:   atomic.LoadInt64(&v.Calls),
			Errors:  atomic.LoadInt64(&v.Errors),
			Revenue: atomic.LoadInt64(&v.Revenue),
		}
	}
	return result
}

// Transactions returns the most recent transactions, newest first.
func (t *Tracker) Transactions(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	if t.ledger == nil {
		t.memMu.Lock()
		defer t.memMu.Unlock()
		var out []Transaction
		for i := len(t.mem) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, t.mem[i])
		}
		return out, nil
	}

	rows, err := t.ledger.QueryContext(ctx,
		"SELECT id, entrypoint, fee, caller, status, created_at FROM transactions ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		var created string
		if err := rows.Scan(&tx.ID, &tx.Entrypoint, &tx.Fee, &tx.Caller, &tx.Status, &created); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if ts, err := time.Parse("2006-01-02 15:04:05", created); err == nil {
			tx.CreatedAt = ts.UTC()
		} else if ts, err := time.Parse(time.RFC3339, created); err == nil {
			tx.CreatedAt = ts.UTC()
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// ExportCSV writes the full ledger to w as CSV, newest first.
func (t *Tracker) ExportCSV(ctx context.Context, w io.Writer) error {
	txs, err := t.Transactions(ctx, 1<<30)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "entrypoint", "fee", "caller", "status", "created_at"}); err != nil {
		return err
	}
	for _, tx := range txs {
		rec := []string{
			tx.ID,
			tx.Entrypoint,
			strconv.FormatInt(tx.Fee, 10),
			tx.Caller,
			tx.Status,
			tx.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Subscribe registers a listener for new transactions. The returned channel
// is buffered; slow consumers lose events rather than blocking Record.
func (t *Tracker) Subscribe() chan Transaction {
	ch := make(chan Transaction, 16)
	t.subMu.Lock()
	t.subs[ch] = struct{}{}
	t.subMu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (t *Tracker) Unsubscribe(ch chan Transaction) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	if _, ok := t.subs[ch]; ok {
		delete(t.subs, ch)
		close(ch)
	}
}

func (t *Tracker) notify(tx Transaction) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	for ch := range t.subs {
		select {
		case ch <- tx:
		default:
		}
	}
}
