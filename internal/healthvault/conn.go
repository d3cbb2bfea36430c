package healthvault

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-authgate/hvgate/internal/core"

	"go.uber.org/zap"
)

const (
	shellPath    = "/redirect.aspx"
	platformPath = "/platform/wildcat.ashx"

	targetAppAuth    = "APPAUTH"
	targetAppSignOut = "APPSIGNOUT"
)

var _ core.HealthVaultClient = (*Conn)(nil)

// Conn is a request-scoped HealthVault connection.
type Conn struct {
	creds     *credentials
	params    core.ConnParams
	transport *transport
}

// AuthorizationURL asks the shell to let the user grant access, optionally
// limited to params.RecordID.
func (c *Conn) AuthorizationURL(callbackURL string) (string, error) {
	qs := url.Values{}
	qs.Set("appid", c.creds.appID)
	if callbackURL != "" {
		qs.Set("redirect", callbackURL)
	}
	if c.params.RecordID != "" {
		qs.Set("extrecordid", c.params.RecordID)
	}
	return c.shellURL(targetAppAuth, qs)
}

// DeauthorizationURL signs the user out of the application at the shell.
func (c *Conn) DeauthorizationURL(callbackURL string) (string, error) {
	qs := url.Values{}
	qs.Set("appid", c.creds.appID)
	if callbackURL != "" {
		qs.Set("redirect", callbackURL)
	}
	if c.params.Token != "" {
		qs.Set("cred_token", c.params.Token)
	}
	return c.shellURL(targetAppSignOut, qs)
}

func (c *Conn) shellURL(target string, qs url.Values) (string, error) {
	u, err := url.Parse(baseURL(c.creds.shellServer) + shellPath)
	if err != nil {
		return "", fmt.Errorf("%w: invalid shell server %q: %v", ErrUpstream, c.creds.shellServer, err)
	}
	q := url.Values{}
	q.Set("target", target)
	q.Set("targetqs", qs.Encode())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ExchangeToken calls GetPersonInfo with the connection token and returns
// the record the user selected at the shell.
func (c *Conn) ExchangeToken(ctx context.Context) (string, error) {
	if c.params.Token == "" {
		return "", ErrMissingToken
	}

	body, err := c.buildRequest("GetPersonInfo", 1, "", c.transport.now())
	if err != nil {
		return "", err
	}

	raw, err := c.transport.post(ctx, baseURL(c.creds.server)+platformPath, body)
	if err != nil {
		return "", err
	}

	res, err := parseResponse(raw)
	if err != nil {
		return "", err
	}

	recordID := strings.TrimSpace(res.RecordID)
	if recordID == "" {
		return "", fmt.Errorf("%w: response has no selected record", ErrUpstream)
	}

	c.transport.logger.Debug("token exchanged",
		zap.String("person_id", res.PersonID),
		zap.String("record_id", recordID),
	)
	return recordID, nil
}
