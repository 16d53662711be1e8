package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/crm_followup/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateToken(LoginUser{ID: "u1", Username: "alice", Role: "Sales User"})
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["id"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "Sales User", claims["role"])

	SetJWTSecret("other-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	SetJWTSecret("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "u1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	assert.True(t, VerifyPassword("admin123", HashPassword("admin123")))
	assert.True(t, VerifyPassword("admin123", SimpleHash("admin123", "abcd")))
	assert.False(t, VerifyPassword("wrong", SimpleHash("admin123", "abcd")))
	assert.False(t, VerifyPassword("wrong", HashPassword("admin123")))
}

func TestIsAdministrator(t *testing.T) {
	assert.True(t, IsAdministrator(string(models.UserRoleADMINISTRATOR)))
	assert.False(t, IsAdministrator(string(models.UserRoleSALES_USER)))

	var nilUser *LoginUser
	assert.False(t, nilUser.IsAdministrator())
}

func TestGetUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetUser(c)
	assert.Error(t, err)

	c.Set("user", jwt.MapClaims{"id": "u1", "role": "Administrator", "username": "admin"})
	user, err := GetUser(c)
	require.NoError(t, err)
	assert.Equal(t, &LoginUser{ID: "u1", Role: "Administrator", Username: "admin"}, user)
	assert.True(t, user.IsAdministrator())

	c.Set("user", map[string]interface{}{"id": "u2", "role": "Sales User", "name": "bob"})
	user, err = GetUser(c)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)

	c.Set("user", map[string]interface{}{"id": "u3"})
	_, err = GetUser(c)
	assert.Error(t, err)

	c.Set("user", 42)
	_, err = GetUser(c)
	assert.Error(t, err)
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(models.QuotationDraft{Party: "C1", Items: []models.QuotationItem{{ItemCode: "RING", Qty: 1}}})
	assert.NoError(t, err)

	err = ValidateStruct(models.QuotationDraft{Items: []models.QuotationItem{{ItemCode: "RING", Qty: 0}}})
	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Party")
	assert.Contains(t, apiErr.Message, "Qty")
}

func TestErrorBody(t *testing.T) {
	body := ErrorBody("Follow-up log X not found", ErrCodeNotFound)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Follow-up log X not found", body["error"])
	assert.Equal(t, "DoesNotExistError", body["exc_type"])
	assert.Equal(t, "DoesNotExistError: Follow-up log X not found", body["exception"])
	assert.Equal(t, ErrCodeNotFound, body["code"])

	var encoded []string
	require.NoError(t, json.Unmarshal([]byte(body["_server_messages"].(string)), &encoded))
	require.Len(t, encoded, 1)
	var msg models.ServerMessage
	require.NoError(t, json.Unmarshal([]byte(encoded[0]), &msg))
	assert.Equal(t, models.ServerMessage{Message: "Follow-up log X not found", Title: "Not Found", Indicator: models.IndicatorRed}, msg)

	unknown := ErrorBody("boom", "")
	assert.Equal(t, "Exception", unknown["exc_type"])
	_, hasCode := unknown["code"]
	assert.False(t, hasCode)
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{CreateNotFoundError("Customer"), http.StatusNotFound, ErrCodeNotFound},
		{CreateUnauthorizedError(), http.StatusUnauthorized, ErrCodeUnauthorized},
		{CreateForbiddenError(), http.StatusForbidden, ErrCodeForbidden},
		{CreateBadRequestError("bad"), http.StatusBadRequest, ErrCodeBadRequest},
		{errors.New("db down"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		HandleError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body["code"])
		assert.Equal(t, tc.err.Error(), body["error"])
	}
}

func TestSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessResponse(c, gin.H{"n": 1}, "ok", http.StatusCreated)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"n":1},"message":"ok"}`, w.Body.String())
}
