package dto

// RegisterRequest HTTP层注册请求
// 密码强度在领域服务中校验
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50" example:"alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshRequest 刷新Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
