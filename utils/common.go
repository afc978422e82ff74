package utils

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// UserContextKey 上下文中存放用户信息的键
const UserContextKey = "user"

// LoginUser 从token解析出的登录用户
type LoginUser struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// GetUser 获取当前请求的登录用户
func GetUser(c *gin.Context) (*LoginUser, error) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, fmt.Errorf("unauthorized")
	}

	var claims map[string]interface{}
	switch v := value.(type) {
	case jwt.MapClaims:
		claims = v
	case map[string]interface{}:
		claims = v
	default:
		return nil, fmt.Errorf("unsupported claims type %T", value)
	}

	id, ok := claims["id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid user id")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid user role")
	}
	username, ok := claims["username"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid username")
	}
	return &LoginUser{ID: id, Role: role, Username: username}, nil
}

// SpreadsheetResponse 返回文件下载
func SpreadsheetResponse(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(200, contentType, body)
}
