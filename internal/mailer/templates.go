package mailer

import (
	"bytes"
	"html/template"
)

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Reset Your Smart School Password</title>
</head>
<body style="font-family:'Helvetica Neue',Arial,sans-serif;color:#333;background-color:#f5f5f5;margin:0;padding:0;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background:#2980b9;padding:30px 20px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:24px;">Smart School</h1>
    </div>
    <div style="padding:30px 40px;">
      <h2 style="color:#2980b9;">Password Reset Request</h2>
      <p>We received a request to reset the password for your account. Click the button below to choose a new password. This link is valid for one hour.</p>
      <p style="text-align:center;">
        <a href="{{.ResetURL}}" style="display:inline-block;background-color:#2980b9;color:#ffffff;text-decoration:none;padding:14px 30px;border-radius:6px;font-weight:600;">Reset Password</a>
      </p>
      <p>If you did not request a password reset, you can safely ignore this email. Your password will remain unchanged.</p>
    </div>
    <div style="padding:20px 40px;background-color:#f9f9f9;font-size:13px;color:#999;text-align:center;">
      <p>This is an automated message from Smart School. Please do not reply.</p>
    </div>
  </div>
</body>
</html>`))

var invitationTmpl = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>You're Invited to Smart School</title>
</head>
<body style="font-family:'Helvetica Neue',Arial,sans-serif;color:#333;background-color:#f5f5f5;margin:0;padding:0;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background:#2980b9;padding:30px 20px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:24px;">Smart School</h1>
    </div>
    <div style="padding:30px 40px;">
      <h2 style="color:#2980b9;">Hello {{.RecipientName}},</h2>
      <p><span style="font-weight:600;">{{.InviterName}}</span> has invited you to join Smart School. Click the button below to set your password and activate your account. The invitation is valid for 48 hours.</p>
      <p style="text-align:center;">
        <a href="{{.InviteURL}}" style="display:inline-block;background-color:#2980b9;color:#ffffff;text-decoration:none;padding:14px 30px;border-radius:6px;font-weight:600;">Set Your Password</a>
      </p>
      <p>If you were not expecting this invitation, you can ignore this email.</p>
    </div>
    <div style="padding:20px 40px;background-color:#f9f9f9;font-size:13px;color:#999;text-align:center;">
      <p>This is an automated message from Smart School. Please do not reply.</p>
    </div>
  </div>
</body>
</html>`))

// PasswordResetHTML renders the password-reset email body.
func PasswordResetHTML(resetURL string) string {
	var buf bytes.Buffer
	_ = passwordResetTmpl.Execute(&buf, struct{ ResetURL string }{resetURL})
	return buf.String()
}

// InvitationHTML renders the invitation / reminder email body.
func InvitationHTML(recipientName, inviterName, inviteURL string) string {
	var buf bytes.Buffer
	_ = invitationTmpl.Execute(&buf, struct {
		RecipientName string
		InviterName   string
		InviteURL     string
	}{recipientName, inviterName, inviteURL})
	return buf.String()
}
