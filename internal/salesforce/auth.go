package salesforce

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dbsmedya/sfnav/internal/config"
)

// authResult carries the session credentials produced by either login flow.
type authResult struct {
	AccessToken string
	InstanceURL string
}

// loginHost returns the OAuth/SOAP host for the configured domain.
// "login" and "test" are the standard endpoints; anything else is treated
// as a My Domain host.
func loginHost(domain string) string {
	switch domain {
	case "login", "":
		return "https://login.salesforce.com"
	case "test":
		return "https://test.salesforce.com"
	default:
		return "https://" + domain + ".my.salesforce.com"
	}
}

// soapLoginEnvelope is the minimal partner-API login request body.
const soapLoginEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:urn="urn:partner.soap.sforce.com">
  <soapenv:Body>
    <urn:login>
      <urn:username>%s</urn:username>
      <urn:password>%s</urn:password>
    </urn:login>
  </soapenv:Body>
</soapenv:Envelope>`

// soapLoginResponse captures the two fields we need from the login result.
type soapLoginResponse struct {
	ServerURL string `xml:"Body>loginResponse>result>serverUrl"`
	SessionID string `xml:"Body>loginResponse>result>sessionId"`
	FaultCode string `xml:"Body>Fault>faultcode"`
	FaultMsg  string `xml:"Body>Fault>faultstring"`
}

// soapLogin authenticates with username + password + security token, the
// same flow the SOAP partner API uses. The security token is appended to
// the password.
func soapLogin(ctx context.Context, httpClient *http.Client, cfg *config.SalesforceConfig) (*authResult, error) {
	endpoint := loginHost(cfg.Domain) + "/services/Soap/u/" + cfg.APIVersion
	body := fmt.Sprintf(soapLoginEnvelope,
		xmlEscape(cfg.Username),
		xmlEscape(cfg.Password+cfg.SecurityToken),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=UTF-8")
	req.Header.Set("SOAPAction", "login")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	var parsed soapLoginResponse
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}

	if parsed.FaultCode != "" || parsed.SessionID == "" {
		msg := parsed.FaultMsg
		if msg == "" {
			msg = fmt.Sprintf("unexpected login response (status %d)", resp.StatusCode)
		}
		return nil, fmt.Errorf("authentication failed: %s", msg)
	}

	// serverUrl looks like https://instance.salesforce.com/services/Soap/u/58.0/00D...
	instance, err := url.Parse(parsed.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server URL: %w", err)
	}

	return &authResult{
		AccessToken: parsed.SessionID,
		InstanceURL: instance.Scheme + "://" + instance.Host,
	}, nil
}

// jwtLogin authenticates with the OAuth 2.0 JWT bearer flow: a short-lived
// RS256 assertion signed with the connected app's private key.
func jwtLogin(ctx context.Context, httpClient *http.Client, cfg *config.SalesforceConfig) (*authResult, error) {
	key, err := loadPrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	host := loginHost(cfg.Domain)
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.ClientID,
		Subject:   cfg.Username,
		Audience:  jwt.ClaimStrings{host},
		ExpiresAt: jwt.NewNumericDate(now.Add(3 * time.Minute)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/services/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	var token struct {
		AccessToken      string `json:"access_token"`
		InstanceURL      string `json:"instance_url"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := decodeJSON(resp.Body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || token.AccessToken == "" {
		msg := token.ErrorDescription
		if msg == "" {
			msg = token.Error
		}
		return nil, fmt.Errorf("authentication failed: %s", msg)
	}

	return &authResult{
		AccessToken: token.AccessToken,
		InstanceURL: token.InstanceURL,
	}, nil
}

// loadPrivateKey reads a PEM-encoded RSA private key (PKCS#1 or PKCS#8).
func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in %s", path)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key in %s is not RSA", path)
	}
	return key, nil
}

// xmlEscape escapes a value for inclusion in the SOAP envelope.
func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
