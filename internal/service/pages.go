package service

import (
	"html/template"
	"strings"
)

// The callback endpoints answer browsers and app webviews, so terminal
// failures render as small self-contained pages rather than JSON.

var failurePage = template.Must(template.New("failure").Parse(`<html>
<head>
<title>Authentication Failed</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       padding: 40px; text-align: center; background: #f5f5f5; }
.container { max-width: 500px; margin: 0 auto; background: white;
             padding: 30px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h2 { color: #e74c3c; }
a { display: inline-block; margin-top: 20px; padding: 10px 20px;
    background: #4285f4; color: white; text-decoration: none; border-radius: 4px; }
</style>
</head>
<body>
<div class="container">
<h2>Authentication Failed</h2>
<p>No session token found. Please try logging in again.</p>
<a href="{{.LoginURL}}">Try Again</a>
</div>
</body>
</html>`))

var errorPage = template.Must(template.New("error").Parse(`<html>
<head>
<title>Error</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       padding: 40px; text-align: center; background: #f5f5f5; }
.container { max-width: 500px; margin: 0 auto; background: white;
             padding: 30px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h2 { color: #e74c3c; }
pre { background: #f8f8f8; padding: 15px; border-radius: 4px;
      text-align: left; overflow-x: auto; font-size: 12px; }
a { display: inline-block; margin-top: 20px; padding: 10px 20px;
    background: #4285f4; color: white; text-decoration: none; border-radius: 4px; }
</style>
</head>
<body>
<div class="container">
<h2>Error</h2>
<p>An error occurred during authentication:</p>
<pre>{{.Message}}</pre>
<a href="{{.LoginURL}}">Try Again</a>
</div>
</body>
</html>`))

// interstitialPage confirms a federated browser login and auto-redirects
// after a short delay so the user sees the session carried over.
var interstitialPage = template.Must(template.New("interstitial").Parse(`<html>
<head>
<title>Login Successful</title>
<meta http-equiv="refresh" content="2;url={{.RedirectTo}}">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       padding: 40px; text-align: center; background: #f5f5f5; }
.container { max-width: 500px; margin: 0 auto; background: white;
             padding: 30px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h2 { color: #27ae60; }
.spinner { border: 3px solid #f3f3f3; border-top: 3px solid #4285f4;
           border-radius: 50%; width: 40px; height: 40px;
           animation: spin 1s linear infinite; margin: 20px auto; }
@keyframes spin { 0% { transform: rotate(0deg); } 100% { transform: rotate(360deg); } }
a { color: #4285f4; text-decoration: none; }
</style>
</head>
<body>
<div class="container">
<h2>Login Successful</h2>
<p>Welcome, {{.DisplayName}}!</p>
<p>Your session has been saved. You can now access other services using the same login.</p>
<div class="spinner"></div>
<p>Redirecting you automatically...</p>
<p><a href="{{.RedirectTo}}">Click here if not redirected automatically</a></p>
</div>
</body>
</html>`))

func renderPage(tpl *template.Template, data any) string {
	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		// Templates are static and parsed at init; execution cannot fail on
		// the string/struct data passed here.
		return ""
	}
	return sb.String()
}
