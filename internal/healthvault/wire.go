package healthvault

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"time"
)

const (
	requestNamespace = "urn:com.microsoft.wc.request"
	hmacAlgorithm    = "HMACSHA256"
	hashAlgorithm    = "SHA256"
	messageTTL       = 1800
)

type request struct {
	XMLName   xml.Name      `xml:"wc-request:request"`
	Namespace string        `xml:"xmlns:wc-request,attr"`
	Auth      requestAuth   `xml:"auth"`
	Header    requestHeader `xml:"header"`
	Info      requestInfo   `xml:"info"`
}

type requestAuth struct {
	HMAC algData `xml:"hmac-data"`
}

type algData struct {
	Algorithm string `xml:"algName,attr"`
	Value     string `xml:",chardata"`
}

type requestHeader struct {
	XMLName       xml.Name    `xml:"header"`
	Method        string      `xml:"method"`
	MethodVersion int         `xml:"method-version"`
	AppID         string      `xml:"app-id"`
	Session       authSession `xml:"auth-session"`
	Language      string      `xml:"language"`
	Country       string      `xml:"country"`
	MsgTime       string      `xml:"msg-time"`
	MsgTTL        int         `xml:"msg-ttl"`
	Version       string      `xml:"version"`
	InfoHash      infoHash    `xml:"info-hash"`
}

type authSession struct {
	Thumbprint    string `xml:"app-thumbprint"`
	PublicKey     string `xml:"app-public-key"`
	UserAuthToken string `xml:"user-auth-token"`
}

type infoHash struct {
	Hash algData `xml:"hash-data"`
}

type requestInfo struct {
	XMLName xml.Name `xml:"info"`
	Inner   string   `xml:",innerxml"`
}

type response struct {
	Status struct {
		Code  int `xml:"code"`
		Error struct {
			Message string `xml:"message"`
		} `xml:"error"`
	} `xml:"status"`
	PersonID string `xml:"info>person-info>person-id"`
	Name     string `xml:"info>person-info>name"`
	RecordID string `xml:"info>person-info>selected-record-id"`
}

// buildRequest encodes a platform call authenticated with an HMAC of the
// header keyed by the application's private key.
func (c *Conn) buildRequest(method string, version int, info string, now time.Time) ([]byte, error) {
	body := requestInfo{Inner: info}
	infoBytes, err := xml.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request info: %w", err)
	}
	infoSum := sha256.Sum256(infoBytes)

	header := requestHeader{
		Method:        method,
		MethodVersion: version,
		AppID:         c.creds.appID,
		Session: authSession{
			Thumbprint:    c.creds.thumbprint,
			PublicKey:     hex.EncodeToString(c.creds.publicKey.Bytes()),
			UserAuthToken: c.params.Token,
		},
		Language: "en",
		Country:  "US",
		MsgTime:  now.UTC().Format(time.RFC3339),
		MsgTTL:   messageTTL,
		Version:  c.transport.userAgent,
		InfoHash: infoHash{Hash: algData{
			Algorithm: hashAlgorithm,
			Value:     base64.StdEncoding.EncodeToString(infoSum[:]),
		}},
	}
	headerBytes, err := xml.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request header: %w", err)
	}

	req := request{
		Namespace: requestNamespace,
		Auth: requestAuth{HMAC: algData{
			Algorithm: hmacAlgorithm,
			Value:     signHeader(c.creds.privateKey.Bytes(), headerBytes),
		}},
		Header: header,
		Info:   body,
	}
	out, err := xml.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func signHeader(key, header []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(header)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func parseResponse(raw []byte) (*response, error) {
	var res response
	if err := xml.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: malformed platform response: %v", ErrUpstream, err)
	}
	if res.Status.Code != 0 {
		return nil, &PlatformError{Code: res.Status.Code, Message: res.Status.Error.Message}
	}
	return &res, nil
}
