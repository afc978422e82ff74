package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/utils"
	"github.com/gin-gonic/gin"
)

// maxLoggedBody 超过该大小的请求体不保存
const maxLoggedBody = 64 << 10

// loggedMethods 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// excludedPaths 不记录的路径
var excludedPaths = map[string]bool{
	"/api/auth/login": true,
}

// OperationLoggerMiddleware 记录修改类API操作日志
func OperationLoggerMiddleware(logs repository.OperationLogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()
		requestBody := readRequestBody(c)

		c.Next()

		operatorID, operatorName, operatorRole := extractUserInfo(c)
		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		operationLog := models.OperationLog{
			Method:        c.Request.Method,
			Path:          c.FullPath(),
			OperatorID:    operatorID,
			OperatorName:  operatorName,
			OperatorRole:  operatorRole,
			RequestBody:   sanitizeData(requestBody),
			StatusCode:    c.Writer.Status(),
			Success:       c.Writer.Status() < http.StatusBadRequest,
			ErrorMessage:  errorMessage,
			OperationTime: startTime,
			ResponseTime:  time.Since(startTime).Milliseconds(),
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
		}
		if operationLog.Path == "" {
			operationLog.Path = c.Request.URL.Path
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logs.InsertOperationLog(ctx, operationLog); err != nil {
			utils.Logger.Error().Err(err).Str("path", operationLog.Path).Msg("save operation log failed")
		}
	}
}

// shouldLogOperation 判断是否需要记录
func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

// readRequestBody 读取并恢复JSON请求体，其他类型只记录描述
func readRequestBody(c *gin.Context) interface{} {
	if c.Request.Body == nil {
		return nil
	}
	contentType := c.Request.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		if c.Request.ContentLength > 0 {
			return map[string]interface{}{"contentType": contentType, "contentLength": c.Request.ContentLength}
		}
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody+1))
	if err != nil {
		utils.Logger.Error().Err(err).Msg("read request body failed")
		return nil
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))
	if len(raw) > maxLoggedBody {
		return map[string]interface{}{"truncated": true}
	}

	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return string(raw)
	}
	return body
}

// extractUserInfo 获取操作人信息
func extractUserInfo(c *gin.Context) (string, string, string) {
	user, err := utils.GetUser(c)
	if err != nil {
		return "anonymous", "anonymous", "UNKNOWN"
	}
	return user.ID, user.Username, user.Role
}

// sanitizeData 过滤敏感信息
func sanitizeData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for k, val := range v {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(val)
			}
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, val := range v {
			sanitized[i] = sanitizeData(val)
		}
		return sanitized
	}
	return data
}
