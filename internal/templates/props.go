package templates

import "github.com/go-authgate/hvgate/internal/models"

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	CSRFToken string
}

// NavbarProps contains properties for the navigation bar
type NavbarProps struct {
	Username string
	IsAdmin  bool
}

// ErrorPageProps contains properties for the error page
type ErrorPageProps struct {
	BaseProps
	Title   string
	Error   string
	Message string
}

// LoginPageProps contains properties for the login page
type LoginPageProps struct {
	BaseProps
	Error    string
	Redirect string
}

// HomePageProps contains properties for the home page
type HomePageProps struct {
	BaseProps
	NavbarProps
	Integrated     bool
	RecordID       string
	AuthorizeURL   string
	DeauthorizeURL string
	RecentEvents   []models.AuditLog
}
