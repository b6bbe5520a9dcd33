// services/qrcode_service.go
package services

import (
	"errors"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap it out.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

const (
	DefaultQRCodeSize = 256
	maxQRCodeSize     = 1024
)

// JoinURL is the link a new member scans to join a club by access code.
func JoinURL(applicationURL, accessCode string) string {
	base := strings.TrimRight(applicationURL, "/")
	if base == "" {
		base = "http://localhost:8080" // Default for local testing
	}
	return base + "/join?code=" + url.QueryEscape(accessCode)
}

// GenerateJoinQRCode renders the club's join link as a PNG of size x size pixels.
func GenerateJoinQRCode(applicationURL, accessCode string, size int, encode QRCodeEncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid dimensions: size must be positive")
	}
	if size > maxQRCodeSize {
		size = maxQRCodeSize
	}
	if accessCode == "" {
		return nil, errors.New("access code is required")
	}
	if encode == nil {
		encode = qrcode.Encode
	}

	png, err := encode(JoinURL(applicationURL, accessCode), qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
