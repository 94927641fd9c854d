package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		Name:    "שרה כהן",
		Email:   "sara@example.co.il",
		Phone:   "0501234567",
		Message: "אשמח לקבוע תור לצבע",
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	require.NoError(t, validForm().Validate())
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
		key    string
	}{
		{"missing name", func(f *Form) { f.Name = "" }, "name", KeyNameRequired},
		{"missing email", func(f *Form) { f.Email = "" }, "email", KeyEmailRequired},
		{"bad email", func(f *Form) { f.Email = "sara@example" }, "email", KeyEmailInvalid},
		{"missing phone", func(f *Form) { f.Phone = "" }, "phone", KeyPhoneRequired},
		{"short phone", func(f *Form) { f.Phone = "12345678" }, "phone", KeyPhoneInvalid},
		{"long phone", func(f *Form) { f.Phone = "05012345678" }, "phone", KeyPhoneInvalid},
		{"phone with dash", func(f *Form) { f.Phone = "050-1234567" }, "phone", KeyPhoneInvalid},
		{"missing message", func(f *Form) { f.Message = "" }, "message", KeyMessageRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := f.Validate()
			require.ErrorIs(t, err, ErrInvalidForm)

			var fields FieldErrors
			require.True(t, errors.As(err, &fields))
			require.Equal(t, FieldErrors{tt.field: tt.key}, fields)
		})
	}
}

func TestValidateEmailIsCaseInsensitive(t *testing.T) {
	f := validForm()
	f.Email = "Sara.Cohen@Example.COM"
	require.NoError(t, f.Validate())
}

func TestValidateCollectsAllFields(t *testing.T) {
	err := Form{}.Validate()

	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	require.Len(t, fields, 4)
	require.Equal(t, "contact: invalid form: email, message, name, phone", err.Error())
}

func TestNormalizeStripsMarkup(t *testing.T) {
	f := Form{
		Name:    "  <b>Dana</b> ",
		Email:   " dana@example.com ",
		Phone:   " 0521234567",
		Message: "hi <script>alert(1)</script>there",
	}.Normalize()

	require.Equal(t, "Dana", f.Name)
	require.Equal(t, "dana@example.com", f.Email)
	require.Equal(t, "0521234567", f.Phone)
	require.NotContains(t, f.Message, "<script>")
	require.NoError(t, f.Validate())
}

func TestSimulatedSubmitterWaits(t *testing.T) {
	s := SimulatedSubmitter{Delay: 20 * time.Millisecond}

	start := time.Now()
	require.NoError(t, s.Submit(context.Background(), validForm()))
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSimulatedSubmitterHonoursContext(t *testing.T) {
	s := SimulatedSubmitter{Delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Submit(ctx, validForm())
	require.ErrorIs(t, err, ErrSubmit)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMailMessage(t *testing.T) {
	m := NewMailSubmitter(MailConfig{From: "site@mysalon.co.il", To: "info@mysalon.co.il"})

	msg, err := m.buildMessage(validForm())
	require.NoError(t, err)
	require.Equal(t, []string{"<info@mysalon.co.il>"}, msg.GetToString())

	require.Contains(t, messageBody(validForm()), "טלפון: 0501234567")
}

func TestMailMessageRejectsBadSender(t *testing.T) {
	m := NewMailSubmitter(MailConfig{From: "not an address", To: "info@mysalon.co.il"})
	_, err := m.buildMessage(validForm())
	require.Error(t, err)
}

func TestNewsletter(t *testing.T) {
	n := NewNewsletter()
	require.True(t, n.Subscribe("Dana@Example.com"))
	require.False(t, n.Subscribe(" dana@example.com "))
	require.True(t, n.Subscribe("other@example.com"))
	require.Equal(t, 2, n.Count())
}
