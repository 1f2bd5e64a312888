package handlers

// ErrorResponse 错误响应结构
//
// status 为 error 或 ignored，所有失败都压平成这一种形态，
// 调用方无法区分配置缺失、远端拒绝与网络故障。
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
