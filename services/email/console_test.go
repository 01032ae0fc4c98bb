package emailsvc

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/services/logger"
)

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()
	core.ParseEmailTemplates(logger, true)
	ClearSentMessages()

	svc := NewConsoleServiceMock(conf, logger)

	reset := &core.EmailMessage{
		To:           []mail.Address{{Name: "Jane", Address: "jane@test.com"}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: struct {
			Name  string
			UID   string
			Token string
		}{Name: "Jane", UID: "abc", Token: "tok-en"},
	}
	withAttachment := &core.EmailMessage{
		To:      []mail.Address{{Address: "joe@test.com"}},
		Subject: "Calendar",
		BodyStr: "see attached",
	}
	require.NoError(t, withAttachment.Attach(strings.NewReader("BEGIN:VCALENDAR"), "calendar.ics", "text/calendar"))
	noRecipient := &core.EmailMessage{Subject: "lost", BodyStr: "nobody reads this"}

	svc.SendMessages(reset, withAttachment, noRecipient)

	sent := LastSentMessages(10)
	require.Len(t, sent, 2)

	assert.Equal(t, "Password Reset", sent[0].Subject)
	assert.Contains(t, sent[0].TextContent, "Hi Jane")
	assert.Contains(t, sent[0].TextContent, conf.FrontendBaseURL+"/password-reset/abc/tok-en")
	assert.Contains(t, sent[0].HTMLContent, conf.FrontendBaseURL+"/password-reset/abc/tok-en")

	assert.Equal(t, "see attached", sent[1].TextContent)
	require.Len(t, sent[1].Attachments, 1)
	assert.Equal(t, "text/calendar", sent[1].Attachments[0].ContentType)
	assert.Equal(t, "QkVHSU46VkNBTEVOREFS", sent[1].Attachments[0].Content.String())

	ClearSentMessages()
	assert.Empty(t, LastSentMessages(10))
}
