package otp

import (
	"bytes"
	"fmt"
	"html/template"
)

var otpTmpl = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f6f9fc; padding: 24px;">
  <h2>Your verification code</h2>
  <p>Use the code below to finish signing in to {{.AppName}}:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>This code expires in {{.Minutes}} minutes. If you did not request it, you can ignore this email.</p>
</body>
</html>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f6f9fc; padding: 24px;">
  <h2>Welcome to {{.AppName}}!</h2>
  <p>Your email address <strong>{{.Email}}</strong> has been verified.</p>
  <p>You can now access your dashboard.</p>
</body>
</html>`))

type emailRenderer struct {
	appName string
}

func newEmailRenderer(appName string) *emailRenderer {
	if appName == "" {
		appName = "Assignment"
	}
	return &emailRenderer{appName: appName}
}

func (r *emailRenderer) otp(code string) (subject, body string, err error) {
	body, err = render(otpTmpl, map[string]interface{}{
		"AppName": r.appName,
		"Code":    code,
		"Minutes": int(CodeTTL.Minutes()),
	})
	return fmt.Sprintf("Your OTP Code - %s", r.appName), body, err
}

func (r *emailRenderer) confirmation(email string) (subject, body string, err error) {
	body, err = render(confirmationTmpl, map[string]interface{}{
		"AppName": r.appName,
		"Email":   email,
	})
	return fmt.Sprintf("Welcome to %s!", r.appName), body, err
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
