package templates

import (
	"fmt"
	"html"
)

// RenderCallEscalationEmail generates the HTML for the stale high-priority
// call escalation email sent to the duty supervisor.
func RenderCallEscalationEmail(callID, location, description string, ageMinutes int) string {
	safeLocation := html.EscapeString(location)
	safeDescription := html.EscapeString(description)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>High-Priority Call Awaiting Dispatch</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #0a0a0f; }
    .container { max-width: 600px; margin: 0 auto; background-color: #12121f; }
    .header { background: linear-gradient(135deg, #ef4444 0%%, #b91c1c 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #e5e7eb; line-height: 1.6; font-size: 15px; }
    .alert-box { background: rgba(239, 68, 68, 0.1); border: 1px solid rgba(239, 68, 68, 0.3); border-radius: 12px; padding: 20px; margin: 20px 0; }
    .alert-box h3 { color: #ef4444; margin-top: 0; font-size: 16px; }
    .detail-row { color: #9ca3af; font-size: 14px; margin-bottom: 8px; }
    .detail-row strong { color: #e5e7eb; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(255,255,255,0.1); }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>🚨 High-Priority Call Awaiting Dispatch</h1>
    </div>
    <div class="content">
      <p>A high-priority call has been pending for <strong>%d minutes</strong> with no units assigned.</p>
      <div class="alert-box">
        <h3>Call Details</h3>
        <div class="detail-row"><strong>Call ID:</strong> %s</div>
        <div class="detail-row"><strong>Location:</strong> %s</div>
        <div class="detail-row"><strong>Description:</strong> %s</div>
      </div>
      <p>Please review the dispatch board and assign units immediately.</p>
    </div>
    <div class="footer">
      <p>This is an automated escalation from the records dispatch coordinator.</p>
    </div>
  </div>
</body>
</html>`, ageMinutes, callID, safeLocation, safeDescription)
}
