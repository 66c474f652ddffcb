package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/strata-dev/strata/pkg/forms"
)

// demoForm builds the contact form served by `strata serve` and dumped
// by `strata schema`.
func demoForm(logger zerolog.Logger) *forms.Form {
	fields := forms.NewFieldList(
		forms.NewTextField("Name", "Your Name").SetMaxLength(120),
		forms.NewTextField("Email", "Email Address"),
		forms.NewDropdownField("Topic", "Topic", []forms.SelectOption{
			{Value: "support", Title: "Support"},
			{Value: "sales", Title: "Sales"},
			{Value: "other", Title: "Other"},
		}).SetEmptyString("(choose one)"),
		forms.NewTextareaField("Message", "Message").SetRows(8),
		forms.NewCheckboxField("Subscribe", "Subscribe to updates"),
	)

	send := forms.NewFormAction("send", "Send").
		SetCallback(func(w http.ResponseWriter, r *http.Request, data map[string]any, form *forms.Form) error {
			logger.Info().
				Interface("data", form.GetData()).
				Msg("contact form submitted")
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("Thanks! We received your message.\n"))
			return nil
		})
	actions := forms.NewFieldList(send)

	return forms.New("ContactForm", fields, actions,
		forms.WithValidator(forms.NewRequiredFields("Name", "Email", "Message")),
		forms.WithLogger(logger),
		forms.WithFormAction("/forms/contact"),
	)
}
