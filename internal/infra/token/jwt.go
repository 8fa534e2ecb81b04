package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"bookstore/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid session token")

// セッションcookieに入れるJWT（HS256）
type JWT struct {
	secret []byte
	ttl    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWT{secret: []byte(secret), ttl: ttl}
}

// sub=ユーザーID, role, tv=token_version
func (j *JWT) Issue(user model.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(j.ttl)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"usr":  user.Username,
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// 署名と期限を検証してIdentityにする
func (j *JWT) Parse(raw string) (model.Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return model.Identity{}, ErrInvalidToken
	}

	//claimsを取り出す
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, ErrInvalidToken
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID <= 0 {
		return model.Identity{}, fmt.Errorf("%w: sub", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	if role != string(model.RoleCustomer) && role != string(model.RoleAdmin) {
		return model.Identity{}, fmt.Errorf("%w: role", ErrInvalidToken)
	}

	tv, ok := claims["tv"].(float64)
	if !ok || tv < 0 {
		return model.Identity{}, fmt.Errorf("%w: tv", ErrInvalidToken)
	}

	username, _ := claims["usr"].(string)

	return model.Identity{
		UserID:       userID,
		Username:     username,
		Role:         model.Role(role),
		TokenVersion: int(tv),
	}, nil
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
