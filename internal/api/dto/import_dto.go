package dto

// ImportRowError 单行导入失败的回执，Data 回显原始行内容
type ImportRowError struct {
	Row   int               `json:"row"`
	Error string            `json:"error"`
	Data  map[string]string `json:"data"`
}

// ImportSummary 一次导入的行级统计
type ImportSummary struct {
	TotalRows    int `json:"totalRows"`
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// ImportResult 批量导入结果
// Success 只有在没有任何行级错误时才为 true
type ImportResult struct {
	Success       bool             `json:"success"`
	ImportedCount int              `json:"importedCount"`
	Errors        []ImportRowError `json:"errors"`
	Summary       ImportSummary    `json:"summary"`
}

// ExportRequest 导出筛选条件，Month 形如 "2024-01"，为空导出全部
type ExportRequest struct {
	Month string `json:"month"`
}
