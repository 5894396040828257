package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtCustomClaim carries the authenticated principal. The auth service issues
// these tokens; this backend only validates them and consumes the claims.
type JwtCustomClaim struct {
	UserId      int      `json:"user_id"`
	UserName    string   `json:"user_name"`
	CompanyId   string   `json:"company_id"`
	BranchId    int      `json:"branch_id"`
	IsAdmin     bool     `json:"is_admin"`
	Permissions []string `json:"permissions"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "Resto-Secret"
	}
	return secret
}

func JwtGenerate(userID int, userName string, companyId string, branchId int, isAdmin bool, permissions []string) (string, error) {
	tokenLifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		tokenLifespan = 24
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		UserId:      userID,
		UserName:    userName,
		CompanyId:   companyId,
		BranchId:    branchId,
		IsAdmin:     isAdmin,
		Permissions: permissions,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(tokenLifespan)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	token, err := t.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return token, nil
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}
