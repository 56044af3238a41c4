package sms

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/google/uuid"
)

// MockVerifyService is a development stand-in for Twilio Verify. Codes
// are generated locally, printed to the log and checked in memory.
type MockVerifyService struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewMockVerifyService() *MockVerifyService {
	return &MockVerifyService{codes: make(map[string]string)}
}

func (s *MockVerifyService) IsEnabled() bool { return true }

func (s *MockVerifyService) SendOTP(phone string) (string, error) {
	max := big.NewInt(999999)
	n, _ := rand.Int(rand.Reader, max)
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	s.codes[phone] = code
	s.mu.Unlock()

	sid := "VE" + uuid.NewString()
	log.Printf("[MockSMS] OTP for %s: %s (sid=%s)", phone, code, sid)
	return sid, nil
}

func (s *MockVerifyService) CheckOTP(phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want, ok := s.codes[phone]
	if !ok || want != code {
		return false, nil
	}
	// Twilio Verify approves a code once.
	delete(s.codes, phone)
	return true, nil
}

func (s *MockVerifyService) LookupPhoneNumber(phone string) error {
	return nil
}
