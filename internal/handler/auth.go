package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/labstack/echo/v4"
)

// CognitoAPI is the part of the Cognito client used for login
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

// CognitoLogin exchanges a username and password for Cognito tokens
type CognitoLogin struct {
	Client       CognitoAPI
	ClientID     string
	ClientSecret string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int32  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

var invalidCredentials = apperr.Error{Code: apperr.Unauthorized, Message: "아이디 또는 비밀번호가 올바르지 않습니다."}

// calculateSecretHash computes the SECRET_HASH for Cognito
func calculateSecretHash(username, clientID, clientSecret string) string {
	h := hmac.New(sha256.New, []byte(clientSecret))
	h.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.BadRequest)
	}

	var fields []apperr.FieldError
	if strings.TrimSpace(req.Username) == "" {
		fields = append(fields, apperr.FieldError{Field: "username", Message: "아이디를 입력해주세요"})
	}
	if req.Password == "" {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "비밀번호를 입력해주세요"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}

	authParams := map[string]string{
		"USERNAME": req.Username,
		"PASSWORD": req.Password,
	}
	if h.login.ClientSecret != "" {
		authParams["SECRET_HASH"] = calculateSecretHash(req.Username, h.login.ClientID, h.login.ClientSecret)
	}

	log.Printf("Attempting login for user: %s", req.Username)
	result, err := h.login.Client.InitiateAuth(c.Request().Context(), &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(h.login.ClientID),
		AuthParameters: authParams,
	})
	if err != nil {
		return loginError(err)
	}
	if result.AuthenticationResult == nil {
		// MFA and password-change challenges are not supported
		log.Printf("Login for %s returned challenge %s", req.Username, result.ChallengeName)
		return apperr.New(apperr.Forbidden)
	}

	auth := result.AuthenticationResult
	accessToken := aws.ToString(auth.AccessToken)
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		Path:     "/",
		MaxAge:   int(auth.ExpiresIn),
		SameSite: http.SameSiteLaxMode,
	})

	return ok(c, "로그인 성공", LoginResponse{
		AccessToken:  accessToken,
		IDToken:      aws.ToString(auth.IdToken),
		RefreshToken: aws.ToString(auth.RefreshToken),
		ExpiresIn:    auth.ExpiresIn,
		TokenType:    aws.ToString(auth.TokenType),
	})
}

func loginError(err error) error {
	var notAuthorized *types.NotAuthorizedException
	var userNotFound *types.UserNotFoundException
	var invalidParam *types.InvalidParameterException
	switch {
	case errors.As(err, &notAuthorized), errors.As(err, &userNotFound):
		e := invalidCredentials
		return &e
	case errors.As(err, &invalidParam):
		return apperr.New(apperr.BadRequest)
	}
	log.Printf("Cognito InitiateAuth error: %v", err)
	return apperr.New(apperr.InternalServerError)
}
