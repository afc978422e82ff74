package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/BerniceZTT/cbam_end/models"
)

var jwtSecret = []byte("your-secret-key")

// tokenTTL token有效期
const tokenTTL = 30 * 24 * time.Hour

// SetJWTSecret 设置签名和校验token的密钥
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// HashPassword 密码哈希
func HashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}

// VerifyPassword 校验密码
func VerifyPassword(password string, hashedPassword string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(password)), []byte(hashedPassword)) == 1
}

// GenerateToken 生成JWT令牌
func GenerateToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		Logger.Error().Err(err).Msg("sign token failed")
		return "", err
	}

	Logger.Debug().
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("token generated")
	return tokenString, nil
}

// ParseToken 解析并校验JWT令牌
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// HasPermission 检查角色对资源是否有操作权限
func HasPermission(role models.UserRole, resource string, action string) bool {
	if role == models.UserRoleSUPER_ADMIN {
		return true
	}

	permissions := map[models.UserRole]map[string][]string{
		models.UserRoleCOMPLIANCE_MANAGER: {
			"suppliers": {"read", "create", "update", "delete", "import", "export"},
			"imports":   {"read", "create", "delete", "import", "export"},
			"dashboard": {"read"},
			"forecast":  {"read"},
		},
		models.UserRoleVIEWER: {
			"suppliers": {"read", "export"},
			"imports":   {"read", "export"},
			"dashboard": {"read"},
			"forecast":  {"read"},
		},
	}

	if resourceActions, exists := permissions[role]; exists {
		for _, a := range resourceActions[resource] {
			if a == action {
				return true
			}
		}
	}
	return false
}
