package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const layout = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .code { font-size: 28px; letter-spacing: 6px; font-weight: bold; text-align: center; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>{{.Heading}}</h1></div>
        <div class="content">{{template "body" .}}</div>
        <div class="footer"><p>You are receiving this email because you have an account on the job board.</p></div>
    </div>
</body>
</html>`

var templates = map[string]string{
	"otp": `<p>Hello {{.Name}},</p>
<p>Use the code below to sign in. It expires in {{.Minutes}} minutes.</p>
<p class="code">{{.Code}}</p>
<p>If you did not request this code you can ignore this email.</p>`,

	"job_approved": `<p>Hello {{.Name}},</p>
<p>Your job posting <strong>{{.JobTitle}}</strong> has been approved and is now visible to candidates.</p>`,

	"job_rejected": `<p>Hello {{.Name}},</p>
<p>Your job posting <strong>{{.JobTitle}}</strong> was not approved.</p>
<p>Reason: {{.Reason}}</p>
<p>You can edit the posting to submit it for review again.</p>`,

	"application_status": `<p>Hello {{.Name}},</p>
<p>The status of your application for <strong>{{.JobTitle}}</strong> is now <strong>{{.Status}}</strong>.</p>`,

	"interview": `<p>Hello {{.Name}},</p>
<p>An interview has been scheduled for your application to <strong>{{.JobTitle}}</strong>.</p>
<ul>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.Time}}</li>
    <li>Type: {{.Type}}</li>
    {{if .Location}}<li>Location: {{.Location}}</li>{{end}}
</ul>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}`,
}

var compiled = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(templates))
	for name, body := range templates {
		t := template.Must(template.New(name).Parse(layout))
		template.Must(t.New("body").Parse(body))
		out[name] = t
	}
	return out
}()

func render(name string, data any) (string, error) {
	tmpl, ok := compiled[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

// OTPEmail renders the one-time login code email
func OTPEmail(name, code string, ttl time.Duration) (subject, body string, err error) {
	body, err = render("otp", map[string]any{
		"Heading": "Your login code",
		"Name":    name,
		"Code":    code,
		"Minutes": int(ttl.Minutes()),
	})
	return "Your login code", body, err
}

// JobDecisionEmail renders the moderation outcome email sent to a job poster
func JobDecisionEmail(name, jobTitle string, approved bool, reason string) (subject, body string, err error) {
	if approved {
		body, err = render("job_approved", map[string]any{
			"Heading":  "Job approved",
			"Name":     name,
			"JobTitle": jobTitle,
		})
		return fmt.Sprintf("Your job %q was approved", jobTitle), body, err
	}
	body, err = render("job_rejected", map[string]any{
		"Heading":  "Job not approved",
		"Name":     name,
		"JobTitle": jobTitle,
		"Reason":   reason,
	})
	return fmt.Sprintf("Your job %q was not approved", jobTitle), body, err
}

func ApplicationStatusEmail(name, jobTitle, status string) (subject, body string, err error) {
	body, err = render("application_status", map[string]any{
		"Heading":  "Application update",
		"Name":     name,
		"JobTitle": jobTitle,
		"Status":   status,
	})
	return fmt.Sprintf("Update on your application for %s", jobTitle), body, err
}

func InterviewEmail(name, jobTitle, date, clock, kind, location, notes string) (subject, body string, err error) {
	body, err = render("interview", map[string]any{
		"Heading":  "Interview scheduled",
		"Name":     name,
		"JobTitle": jobTitle,
		"Date":     date,
		"Time":     clock,
		"Type":     kind,
		"Location": location,
		"Notes":    notes,
	})
	return fmt.Sprintf("Interview scheduled for %s", jobTitle), body, err
}
