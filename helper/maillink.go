package helper

import (
	"net/url"
	"strings"
)

const gmailCompose = "https://mail.google.com/mail/?view=cm"

// MailAllLink builds a Gmail compose link with every address as a blind
// copy recipient. It returns false when no address is usable.
func MailAllLink(courseTitle string, emails []string) (string, bool) {
	recipients := Filter(emails, func(e string) bool { return strings.TrimSpace(e) != "" })
	if len(recipients) == 0 {
		return "", false
	}

	subject := "CourseHub: " + courseTitle + " - Announcement"
	return gmailCompose +
		"&bcc=" + url.QueryEscape(strings.Join(recipients, ",")) +
		"&su=" + url.QueryEscape(subject), true
}
