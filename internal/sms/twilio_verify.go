package sms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	lookupsv2 "github.com/twilio/twilio-go/rest/lookups/v2"
	verifyv2 "github.com/twilio/twilio-go/rest/verify/v2"
)

const verifyChannel = "sms"

// TwilioVerifyService implements VerifyProvider on top of Twilio
// Verify V2. Codes are generated, delivered and checked by Twilio; we
// only hold the verification SID.
type TwilioVerifyService struct {
	client     *twilio.RestClient
	serviceSID string
	enabled    bool
}

// NewTwilioVerifyService creates the Twilio-backed provider. The
// provider reports itself disabled when any credential is missing or
// the verification feature flag is off.
func NewTwilioVerifyService(accountSID, authToken, serviceSID string, enabled bool) *TwilioVerifyService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	// Provider non-response must surface as an error, not a hang.
	client.SetTimeout(15 * time.Second)

	return &TwilioVerifyService{
		client:     client,
		serviceSID: serviceSID,
		enabled:    enabled && accountSID != "" && authToken != "" && serviceSID != "",
	}
}

func (s *TwilioVerifyService) IsEnabled() bool {
	return s.enabled
}

// SendOTP starts a Twilio verification over the SMS channel and returns
// the verification SID.
func (s *TwilioVerifyService) SendOTP(phone string) (string, error) {
	if !s.enabled {
		return "", ErrNotEnabled
	}

	params := &verifyv2.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel(verifyChannel)

	verification, err := s.client.VerifyV2.CreateVerification(s.serviceSID, params)
	if err != nil {
		return "", twilioError("send otp", err)
	}

	sid := ""
	if verification.Sid != nil {
		sid = *verification.Sid
	}
	return sid, nil
}

// CheckOTP checks the code via Twilio. Twilio answers with a status
// string; only "approved" counts as a pass.
func (s *TwilioVerifyService) CheckOTP(phone, code string) (bool, error) {
	if !s.enabled {
		return false, ErrNotEnabled
	}

	params := &verifyv2.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	check, err := s.client.VerifyV2.CreateVerificationCheck(s.serviceSID, params)
	if err != nil {
		return false, twilioError("verify otp", err)
	}

	return check.Status != nil && *check.Status == "approved", nil
}

// LookupPhoneNumber runs a Twilio Lookups V2 fetch. A 404 from Lookups
// means the number does not exist.
func (s *TwilioVerifyService) LookupPhoneNumber(phone string) error {
	if !s.enabled {
		return ErrNotEnabled
	}

	details, err := s.client.LookupsV2.FetchPhoneNumber(phone, &lookupsv2.FetchPhoneNumberParams{})
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) && restErr.Status == 404 {
			return ErrInvalidPhoneNumber
		}
		return twilioError("lookup", err)
	}

	if details.Valid != nil && !*details.Valid {
		return ErrInvalidPhoneNumber
	}
	return nil
}

// twilioError keeps the provider's own message visible to the caller.
func twilioError(op string, err error) error {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		return fmt.Errorf("twilio %s failed: %s", op, strings.TrimSpace(restErr.Message))
	}
	return fmt.Errorf("twilio %s failed: %w", op, err)
}
