package history

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

// DefaultPageSize is used when a query does not specify a limit.
const DefaultPageSize = 20

// DateRange names a relative lower bound on entry creation time.
type DateRange string

const (
	DateRangeAll   DateRange = ""
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
)

// Filter selects and pages ledger entries.
type Filter struct {
	AccountID string
	Search    string
	Status    models.LedgerStatus
	DateRange DateRange
	Page      int
	Limit     int
}

// Page is one page of filtered ledger entries. Pagination is 1-indexed; a
// page past the end carries an empty Entries slice, never an error.
type Page struct {
	Entries     []models.LedgerEntry `json:"entries"`
	Total       int                  `json:"total"`
	TotalPages  int                  `json:"total_pages"`
	CurrentPage int                  `json:"current_page"`
}

// Stats is the aggregate view over a filtered entry set.
type Stats struct {
	TotalTransfers     int     `json:"total_transfers"`
	TotalAmount        int64   `json:"total_amount"`
	CompletedTransfers int     `json:"completed_transfers"`
	AverageAmount      float64 `json:"average_amount"`
}

// Service filters, paginates, and aggregates the audit ledger. All reads are
// snapshots; the service never mutates balances.
type Service struct {
	ledger storage.LedgerStore

	// now is swapped in tests to pin date-range boundaries.
	now func() time.Time
}

// NewService creates a new Service.
func NewService(ledger storage.LedgerStore) *Service {
	return &Service{ledger: ledger, now: time.Now}
}

// Query returns one page of entries matching the filter. Two calls with no
// intervening writes return identical results.
func (s *Service) Query(ctx context.Context, actor models.Actor, f Filter) (*Page, error) {
	if !permissions.IsAllowed(actor.Role, models.ActionViewHistory) {
		return nil, permissions.ErrDenied
	}

	filtered, err := s.filtered(ctx, f)
	if err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit

	result := &Page{
		Entries:     []models.LedgerEntry{},
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}

	start := (page - 1) * limit
	if start >= total {
		return result, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	result.Entries = filtered[start:end]

	return result, nil
}

// Stats aggregates the full filtered set, ignoring pagination.
func (s *Service) Stats(ctx context.Context, actor models.Actor, f Filter) (*Stats, error) {
	if !permissions.IsAllowed(actor.Role, models.ActionViewHistory) {
		return nil, permissions.ErrDenied
	}

	filtered, err := s.filtered(ctx, f)
	if err != nil {
		return nil, err
	}

	stats := Aggregate(filtered)
	return &stats, nil
}

// UpdateEntryStatus is the sole mutation path for existing ledger entries.
// Only the status may change, and only from pending to a terminal value.
func (s *Service) UpdateEntryStatus(ctx context.Context, actor models.Actor, entryID string, status models.LedgerStatus) (*models.LedgerEntry, error) {
	if !permissions.IsAllowed(actor.Role, models.ActionEditTransfer) {
		return nil, permissions.ErrDenied
	}

	if !status.Valid() {
		return nil, storage.ErrInvalidStatusTransition
	}

	return s.ledger.UpdateLedgerEntryStatus(ctx, entryID, status)
}

// Aggregate reduces an entry set to its statistics. An empty set yields all
// zeroes; the average never divides by zero.
func Aggregate(entries []models.LedgerEntry) Stats {
	stats := Stats{TotalTransfers: len(entries)}
	for _, e := range entries {
		stats.TotalAmount += e.Amount
		if e.Status == models.LedgerCompleted {
			stats.CompletedTransfers++
		}
	}
	if stats.TotalTransfers > 0 {
		stats.AverageAmount = float64(stats.TotalAmount) / float64(stats.TotalTransfers)
	}
	return stats
}

func (s *Service) filtered(ctx context.Context, f Filter) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	var err error
	if f.AccountID != "" {
		entries, err = s.ledger.ListLedgerEntriesByAccount(ctx, f.AccountID)
	} else {
		entries, err = s.ledger.ListLedgerEntries(ctx)
	}
	if err != nil {
		return nil, err
	}

	cutoff, hasCutoff := s.lowerBound(f.DateRange)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	filtered := make([]models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if hasCutoff && e.CreatedAt.Before(cutoff) {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}

// matchesSearch matches case-insensitively against the account display name,
// account email, and transaction ID.
func matchesSearch(e models.LedgerEntry, search string) bool {
	return strings.Contains(strings.ToLower(e.AccountName), search) ||
		strings.Contains(strings.ToLower(e.AccountEmail), search) ||
		strings.Contains(strings.ToLower(e.TransactionID), search)
}

func (s *Service) lowerBound(r DateRange) (time.Time, bool) {
	now := s.now()
	switch r {
	case DateRangeToday:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case DateRangeWeek:
		return now.AddDate(0, 0, -7), true
	case DateRangeMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}
