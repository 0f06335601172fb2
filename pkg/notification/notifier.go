package notification

// NotificationSystem represents a delivery channel (e.g., email).
type NotificationSystem string

// NoticeType identifies one kind of notice the platform sends.
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"

	WelcomeNotice         NoticeType = "welcome"
	PasswordResetNotice   NoticeType = "password_reset"
	MigrationReportNotice NoticeType = "migration_report"
)

// NoticeTemplate holds the subject and body templates of one notice. Text
// and Html are Go templates rendered against NotificationData.Data; at
// least one of them must be set.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// NotificationData is the per-send payload.
type NotificationData struct {
	To   string            // Recipient identifier (e.g., email address)
	Data map[string]string // Template variables
}

// Notifier delivers one rendered notice over its channel.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
