package helper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
)

func TestValidateStruct_SendOTPRequest(t *testing.T) {
	var req dto.SendOTPRequest
	body := `{"email":"a@x.com","firstName":"Asha","joiningYear":"2015","passingYear":2019,
		"department":"CSE","college":"KES","course":"B.Tech"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, dto.Year(2015), req.JoiningYear)
	assert.NoError(t, ValidateStruct(req))

	req.Department = ""
	err := ValidateStruct(req)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "department is required")
}

func TestValidateStruct_YearMustBePositive(t *testing.T) {
	var req dto.SendOTPRequest
	body := `{"email":"a@x.com","firstName":"Asha","joiningYear":"","passingYear":2019,
		"department":"CSE","college":"KES","course":"B.Tech"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	err := ValidateStruct(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "joiningYear")
}

func TestYear_RejectsNonNumeric(t *testing.T) {
	var req dto.SendOTPRequest
	err := json.Unmarshal([]byte(`{"joiningYear":"twenty"}`), &req)
	assert.Error(t, err)
}

func TestValidateStruct_OTPFormat(t *testing.T) {
	err := ValidateStruct(dto.VerifyLoginOTPRequest{AlumniID: 1, OTP: "12ab56"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "otp must contain digits only")

	assert.NoError(t, ValidateStruct(dto.VerifyLoginOTPRequest{AlumniID: 1, OTP: "012345"}))
}
