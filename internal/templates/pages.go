package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const stylesheet = `body{font-family:system-ui,sans-serif;max-width:42rem;margin:3rem auto;padding:0 1rem;color:#222}` +
	`nav{display:flex;justify-content:space-between;margin-bottom:2rem}` +
	`.badge{display:inline-block;padding:.1rem .5rem;border-radius:.3rem;background:#eee}` +
	`.badge.on{background:#cfc}.error{color:#a00}table{border-collapse:collapse;width:100%}` +
	`td,th{border-bottom:1px solid #ddd;padding:.3rem;text-align:left}`

const healthVaultErrorMessage = "We encountered an error while attempting to authenticate you through HealthVault."

// writer collects the first write error so page bodies read top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (p *writer) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *writer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *writer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func page(title string, body func(p *writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &writer{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		p.text(title)
		p.raw(`</title><style>` + stylesheet + `</style></head><body>`)
		body(p)
		p.raw(`</body></html>`)
		return p.err
	})
}

func navbar(p *writer, props NavbarProps) {
	p.raw(`<nav><a href="/">hvgate</a><span>`)
	p.text(props.Username)
	if props.IsAdmin {
		p.raw(` <span class="badge">admin</span>`)
	}
	p.raw(` <a href="/logout">Sign out</a></span></nav>`)
}

// ErrorPage renders a generic error page.
func ErrorPage(props ErrorPageProps) templ.Component {
	title := props.Title
	if title == "" {
		title = "Error"
	}
	return page(title, func(p *writer) {
		p.raw(`<h1>`)
		p.text(title)
		p.raw(`</h1>`)
		if props.Error != "" {
			p.raw(`<p class="error">`)
			p.text(props.Error)
			p.raw(`</p>`)
		}
		if props.Message != "" {
			p.raw(`<p>`)
			p.text(props.Message)
			p.raw(`</p>`)
		}
		p.raw(`<p><a href="/">Back to home</a></p>`)
	})
}

// HealthVaultErrorPage is the built-in page for a failed HealthVault handshake.
func HealthVaultErrorPage() templ.Component {
	return ErrorPage(ErrorPageProps{
		Title:   "HealthVault Authentication Error",
		Message: healthVaultErrorMessage,
	})
}

// LoginPage renders the local sign-in form.
func LoginPage(props LoginPageProps) templ.Component {
	return page("Sign in", func(p *writer) {
		p.raw(`<h1>Sign in</h1>`)
		if props.Error != "" {
			p.raw(`<p class="error">`)
			p.text(props.Error)
			p.raw(`</p>`)
		}
		p.raw(`<form method="post" action="/login">`)
		p.printf(`<input type="hidden" name="csrf_token" value="%s">`, templ.EscapeString(props.CSRFToken))
		p.printf(`<input type="hidden" name="redirect" value="%s">`, templ.EscapeString(props.Redirect))
		p.raw(`<p><label>Username <input name="username" autocomplete="username" required></label></p>`)
		p.raw(`<p><label>Password <input type="password" name="password" autocomplete="current-password" required></label></p>`)
		p.raw(`<p><button type="submit">Sign in</button></p></form>`)
	})
}

// HomePage shows the signed-in user's HealthVault integration status.
func HomePage(props HomePageProps) templ.Component {
	return page("hvgate", func(p *writer) {
		navbar(p, props.NavbarProps)
		p.raw(`<h1>HealthVault</h1>`)
		if props.Integrated {
			p.raw(`<p><span class="badge on">connected</span> record `)
			p.raw(`<code>`)
			p.text(props.RecordID)
			p.raw(`</code></p>`)
			p.printf(`<p><a href="%s">Choose another record</a> | <a href="%s">Disconnect</a></p>`,
				templ.EscapeString(props.AuthorizeURL), templ.EscapeString(props.DeauthorizeURL))
		} else {
			p.raw(`<p><span class="badge">not connected</span></p>`)
			p.printf(`<p><a href="%s">Connect your HealthVault account</a></p>`,
				templ.EscapeString(props.AuthorizeURL))
		}

		if len(props.RecentEvents) == 0 {
			return
		}
		p.raw(`<h2>Recent activity</h2><table><tr><th>Time</th><th>Event</th><th>Result</th></tr>`)
		for _, e := range props.RecentEvents {
			p.raw(`<tr><td>`)
			p.text(e.EventTime.Format("2006-01-02 15:04:05"))
			p.raw(`</td><td>`)
			p.text(e.EventType)
			p.raw(`</td><td>`)
			if e.Success {
				p.raw(`ok`)
			} else {
				p.text(e.ErrorMessage)
			}
			p.raw(`</td></tr>`)
		}
		p.raw(`</table>`)
	})
}
