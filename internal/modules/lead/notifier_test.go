package lead

import (
	"context"
	"errors"
	"testing"

	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct {
	enabled bool
	failTo  string
	sent    []mail.Message
}

func (o *outbox) Enabled() bool { return o.enabled }

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	if o.failTo != "" && msg.To[0] == o.failTo {
		return errors.New("smtp down")
	}
	o.sent = append(o.sent, msg)
	return nil
}

type pushLog struct{ titles []string }

func (p *pushLog) Push(_ context.Context, title, _, _ string) error {
	p.titles = append(p.titles, title)
	return nil
}

func newLead(contact string) *models.ContactRequest {
	return &models.ContactRequest{
		Base:          models.Base{ID: "req-1"},
		Name:          "Olena",
		ContactMethod: contact,
		Message:       "Hello",
		RequestType:   models.RequestContact,
	}
}

func TestNotifyEmailContact(t *testing.T) {
	box := &outbox{enabled: true}
	push := &pushLog{}
	n := NewNotifier(box, push, NotifierConfig{StaffEmail: "staff@example.com", SiteName: "Prometey Labs"}, nil)

	require.NoError(t, n.Notify(context.Background(), newLead("olena@example.com")))
	require.Len(t, box.sent, 2)

	staff := box.sent[0]
	assert.Equal(t, []string{"staff@example.com"}, staff.To)
	assert.Equal(t, "olena@example.com", staff.ReplyTo)
	assert.Equal(t, "New contact request from Olena", staff.Subject)

	confirmation := box.sent[1]
	assert.Equal(t, []string{"olena@example.com"}, confirmation.To)
	assert.Contains(t, confirmation.Subject, "Prometey Labs")

	assert.Equal(t, []string{"Contact request"}, push.titles)
}

func TestNotifyTelegramContactIsNeverMailed(t *testing.T) {
	box := &outbox{enabled: true}
	n := NewNotifier(box, nil, NotifierConfig{StaffEmail: "staff@example.com"}, nil)

	require.NoError(t, n.Notify(context.Background(), newLead("@olena_k")))
	require.Len(t, box.sent, 1)
	assert.Equal(t, []string{"staff@example.com"}, box.sent[0].To)
	assert.Empty(t, box.sent[0].ReplyTo)
}

func TestNotifyReportsStaffFailureOnly(t *testing.T) {
	box := &outbox{enabled: true, failTo: "staff@example.com"}
	n := NewNotifier(box, nil, NotifierConfig{StaffEmail: "staff@example.com"}, nil)

	err := n.Notify(context.Background(), newLead("olena@example.com"))
	assert.Error(t, err)
	require.Len(t, box.sent, 1, "confirmation still goes out")
	assert.Equal(t, []string{"olena@example.com"}, box.sent[0].To)

	box = &outbox{enabled: true, failTo: "olena@example.com"}
	n = NewNotifier(box, nil, NotifierConfig{StaffEmail: "staff@example.com"}, nil)
	assert.NoError(t, n.Notify(context.Background(), newLead("olena@example.com")))
}

func TestNotifyWithMailDisabled(t *testing.T) {
	box := &outbox{enabled: false}
	push := &pushLog{}
	n := NewNotifier(box, push, NotifierConfig{}, nil)

	require.NoError(t, n.Notify(context.Background(), newLead("olena@example.com")))
	assert.Empty(t, box.sent)
	assert.Len(t, push.titles, 1)
}
