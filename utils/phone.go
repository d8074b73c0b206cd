package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/ttacon/libphonenumber"
)

func defaultPhoneRegion() string {
	region := strings.ToUpper(strings.TrimSpace(os.Getenv("DEFAULT_PHONE_REGION")))
	if region == "" {
		return "PH"
	}
	return region
}

// NormalizePhone validates a phone number and returns it in E.164 form.
// Numbers without a country code are parsed against DEFAULT_PHONE_REGION.
func NormalizePhone(raw string) (string, error) {
	num, err := libphonenumber.Parse(strings.TrimSpace(raw), defaultPhoneRegion())
	if err != nil {
		return "", errors.New("invalid phone number")
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", errors.New("invalid phone number")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
