package notification

// Default email templates for the notices the platform sends. Deployments
// can re-register any notice type to override a template.

var defaultEmailNotices = map[NoticeType]NoticeTemplate{
	WelcomeNotice: {
		Subject: "Welcome to the academy",
		Text:    "Hello {{.Name}},\n\nYour account has been created.\n\nEmail: {{.Email}}\nTemporary password: {{.Password}}\n\nPlease change it after your first sign-in.",
		Html:    "<p>Hello {{.Name}},</p><p>Your account has been created.</p><p>Email: <b>{{.Email}}</b><br>Temporary password: <b>{{.Password}}</b></p><p>Please change it after your first sign-in.</p>",
	},
	PasswordResetNotice: {
		Subject: "Your password has been reset",
		Text:    "Hello {{.Name}},\n\nYour new temporary password is: {{.Password}}\n\nPlease change it after your next sign-in.",
		Html:    "<p>Hello {{.Name}},</p><p>Your new temporary password is: <b>{{.Password}}</b></p><p>Please change it after your next sign-in.</p>",
	},
	MigrationReportNotice: {
		Subject: "Agreement migration report",
		Text: "Migration finished.\n\nSource records: {{.StrapiCount}}\nTransformed: {{.TransformedCount}}\nInserted: {{.SupabaseInserted}}\nExcluded: {{.ExcludedCount}}\nDifference: {{.Difference}}\n{{if .Error}}Error: {{.Error}}{{end}}",
	},
}

// RegisterDefaultUserNotices registers the built-in email templates for
// every notice type on the given manager.
func RegisterDefaultUserNotices(nm *NotificationManager) error {
	for noticeType, template := range defaultEmailNotices {
		if err := nm.RegisterNotification(noticeType, EmailSystem, template); err != nil {
			return err
		}
	}
	return nil
}
