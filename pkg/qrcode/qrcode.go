package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRService renders share codes that point at public event pages.
type QRService struct {
	baseURL string // e.g. "https://ticketgate.app/events/"
}

func NewQRService(baseURL string) *QRService {
	return &QRService{
		baseURL: baseURL,
	}
}

// GenerateEventQR returns a PNG QR code for an event's public page.
func (s *QRService) GenerateEventQR(eventID uint, size int) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%d", s.baseURL, eventID)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}

	return png, nil
}
