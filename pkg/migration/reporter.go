package migration

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/akademy/akademy-api/pkg/notification"
)

// NoticeReporter sends a migration-report notice after each run. Delivery
// failures are logged and never escalate, same policy as the ledger write.
type NoticeReporter struct {
	manager *notification.NotificationManager
	to      string
}

// NewNoticeReporter creates a reporter that emails the run summary to the
// given address.
func NewNoticeReporter(manager *notification.NotificationManager, to string) *NoticeReporter {
	return &NoticeReporter{
		manager: manager,
		to:      to,
	}
}

func (r *NoticeReporter) Report(ctx context.Context, result *Result) {
	if r.manager == nil || r.to == "" || result == nil {
		return
	}

	data := notification.NotificationData{
		To: r.to,
		Data: map[string]string{
			"Success":          strconv.FormatBool(result.Success),
			"StrapiCount":      strconv.Itoa(result.Statistics.StrapiCount),
			"SupabaseInserted": strconv.Itoa(result.Statistics.SupabaseInserted),
			"TransformedCount": strconv.Itoa(result.Statistics.TransformedCount),
			"ExcludedCount":    strconv.Itoa(result.Statistics.ExcludedCount),
			"Difference":       strconv.Itoa(result.Statistics.Difference),
			"Error":            result.Error,
		},
	}

	err := r.manager.Send(notification.MigrationReportNotice, notification.EmailSystem, data)
	if err != nil {
		slog.Warn("Failed to send migration report", "to", r.to, "err", err)
	}
}
