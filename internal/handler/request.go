package handler

// AnalyzeRequest 分析请求参数
type AnalyzeRequest struct {
	Query string `json:"query"` // 用户输入的市场情报问题
}
